package channel

import (
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dep2p/go-duet/internal/core/metrics"
	"github.com/dep2p/go-duet/internal/core/wire"
	"github.com/dep2p/go-duet/pkg/types"
)

// receiveOne 泵两端直到 to 收到一条消息
func receiveOne(t *testing.T, from, to *Conn) wire.Message {
	t.Helper()

	var msg wire.Message
	require.Eventually(t, func() bool {
		_ = from.Pump()
		_ = to.Pump()
		var ok bool
		msg, ok = to.Receive()
		return ok
	}, 2*time.Second, time.Millisecond)
	return msg
}

// TestPipe_SendReceive 测试内存信道收发
func TestPipe_SendReceive(t *testing.T) {
	for _, name := range wire.Names() {
		codec, err := wire.Lookup(name)
		require.NoError(t, err)

		t.Run(name, func(t *testing.T) {
			a, b := Pipe(codec)
			defer a.Close()
			defer b.Close()

			require.NoError(t, a.Send(&wire.Move{Cell: types.Cell{Column: 2, Row: 3}}))
			require.NoError(t, a.Send(&wire.Quit{}))

			assert.Equal(t, &wire.Move{Cell: types.Cell{Column: 2, Row: 3}}, receiveOne(t, a, b))
			assert.Equal(t, &wire.Quit{}, receiveOne(t, a, b))
		})
	}
}

// TestPipe_Addrs 测试两端地址互为镜像
func TestPipe_Addrs(t *testing.T) {
	a, b := Pipe(wire.JSONCodec{})
	defer a.Close()
	defer b.Close()

	assert.Equal(t, a.LocalAddr(), b.RemoteAddr())
	assert.Equal(t, a.RemoteAddr(), b.LocalAddr())
	assert.NotEqual(t, a.LocalAddr(), a.RemoteAddr())
}

// TestConn_PeerClose 测试对端关闭后已排队的消息仍可取出
func TestConn_PeerClose(t *testing.T) {
	a, b := Pipe(wire.ByteCodec{})
	defer b.Close()

	require.NoError(t, a.Send(&wire.Join{}))
	require.NoError(t, a.Close())
	assert.True(t, a.Closed())

	require.Eventually(t, func() bool {
		require.NoError(t, b.Pump())
		return b.Closed()
	}, 2*time.Second, time.Millisecond)

	msg, ok := b.Receive()
	require.True(t, ok)
	assert.Equal(t, &wire.Join{}, msg)
	assert.NoError(t, b.Err())

	assert.ErrorIs(t, b.Send(&wire.Quit{}), ErrChannelClosed)
}

// TestConn_CloseIdempotent 测试重复关闭
func TestConn_CloseIdempotent(t *testing.T) {
	a, b := Pipe(wire.JSONCodec{})
	defer b.Close()

	require.NoError(t, a.Close())
	require.NoError(t, a.Close())
	assert.NoError(t, a.Pump())
	assert.ErrorIs(t, a.Send(&wire.Join{}), ErrChannelClosed)
}

// TestConn_CloseDoesNotBlockOnUnreadData 测试关闭不等待未读数据
func TestConn_CloseDoesNotBlockOnUnreadData(t *testing.T) {
	a, b := Pipe(wire.JSONCodec{})
	defer a.Close()

	for i := 0; i < 10; i++ {
		require.NoError(t, a.Send(&wire.Move{Cell: types.Cell{Column: i, Row: i}}))
	}
	_ = a.Pump()

	done := make(chan struct{})
	go func() {
		_ = b.Close()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Close 阻塞")
	}
}

// TestConn_DecodeError 测试协议违规使信道失败
func TestConn_DecodeError(t *testing.T) {
	raw, peer := net.Pipe()
	ch := New(peer, wire.ByteCodec{})
	defer ch.Close()

	go func() {
		_, _ = raw.Write([]byte{0x09})
	}()

	var err error
	require.Eventually(t, func() bool {
		err = ch.Pump()
		return err != nil
	}, 2*time.Second, time.Millisecond)

	assert.ErrorIs(t, err, wire.ErrUnknownOpcode)
	assert.ErrorIs(t, ch.Err(), wire.ErrUnknownOpcode)
	assert.True(t, ch.Closed())
	_ = raw.Close()
}

// TestConn_PartialFrame 测试跨多次读取的帧
func TestConn_PartialFrame(t *testing.T) {
	raw, peer := net.Pipe()
	ch := New(peer, wire.ByteCodec{})
	defer ch.Close()
	defer raw.Close()

	_, err := raw.Write([]byte{4, 2})
	require.NoError(t, err)
	require.NoError(t, ch.Pump())
	_, ok := ch.Receive()
	assert.False(t, ok)

	_, err = raw.Write([]byte{3})
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		require.NoError(t, ch.Pump())
		msg, ok := ch.Receive()
		return ok && assert.Equal(t, &wire.Move{Cell: types.Cell{Column: 2, Row: 3}}, msg)
	}, 2*time.Second, time.Millisecond)
}

// TestConn_TCP 测试回环 TCP 信道
func TestConn_TCP(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	accepted := make(chan net.Conn, 1)
	go func() {
		c, err := ln.Accept()
		if err == nil {
			accepted <- c
		}
	}()

	dialed, err := net.Dial("tcp", ln.Addr().String())
	require.NoError(t, err)

	reporter := metrics.NewBandwidthCounter()
	a := New(dialed, wire.ProtoCodec{}, WithReporter(reporter))
	b := New(<-accepted, wire.ProtoCodec{}, WithReporter(reporter))
	defer a.Close()
	defer b.Close()

	assert.Equal(t, a.LocalAddr(), b.RemoteAddr())

	require.NoError(t, a.Send(&wire.Identify{Hostname: "h", Username: "u"}))
	assert.Equal(t, &wire.Identify{Hostname: "h", Username: "u"}, receiveOne(t, a, b))

	kind := reporter.GetBandwidthForKind("Identify")
	assert.Equal(t, kind.TotalIn, kind.TotalOut)
	assert.Positive(t, kind.TotalOut)
	assert.Positive(t, reporter.GetBandwidthForRemote(a.RemoteAddr()).TotalOut)
}
