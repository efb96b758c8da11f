package broadcast

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgif "github.com/dep2p/go-duet/pkg/interfaces"
)

// freeUDPPort 获取一个空闲 UDP 端口
func freeUDPPort(t *testing.T) int {
	t.Helper()
	pc, err := net.ListenPacket("udp4", "127.0.0.1:0")
	require.NoError(t, err)
	defer pc.Close()
	return pc.LocalAddr().(*net.UDPAddr).Port
}

// TestAdvert 测试数据报编解码
func TestAdvert(t *testing.T) {
	b := FormatAdvert("abc", 8223)
	assert.Equal(t, "DUET/1 abc 8223", string(b))

	nonce, port, err := ParseAdvert(b)
	require.NoError(t, err)
	assert.Equal(t, "abc", nonce)
	assert.Equal(t, 8223, port)

	for _, bad := range []string{"", "HELLO abc 1", "DUET/1 abc", "DUET/1 abc x", "DUET/1 abc 70000"} {
		_, _, err := ParseAdvert([]byte(bad))
		assert.ErrorIs(t, err, ErrBadAdvert, bad)
	}
}

// TestConfig_Validate 测试配置验证
func TestConfig_Validate(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())

	cfg := DefaultConfig()
	cfg.BroadcastAddr = "not-an-ip"
	assert.Error(t, cfg.Validate())

	_, err := New(DefaultConfig(), WithPorts(0, 8223))
	assert.Error(t, err)
}

// TestBeacon_Nonce 测试每个信标有唯一标识
func TestBeacon_Nonce(t *testing.T) {
	a, err := New(DefaultConfig())
	require.NoError(t, err)
	b, err := New(DefaultConfig())
	require.NoError(t, err)

	assert.NotEmpty(t, a.Nonce())
	assert.NotEqual(t, a.Nonce(), b.Nonce())
}

// TestBeacon_AnnounceListen 测试回环地址上的广告与监听
func TestBeacon_AnnounceListen(t *testing.T) {
	port := freeUDPPort(t)
	opts := []ConfigOption{
		WithPorts(port, 9000),
		WithBroadcastAddr("127.0.0.1"),
		WithAnnounceInterval(20 * time.Millisecond),
	}

	announcer, err := New(DefaultConfig(), opts...)
	require.NoError(t, err)
	listener, err := New(DefaultConfig(), opts...)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	sightings := make(chan pkgif.Sighting, 16)
	listenDone := make(chan error, 1)
	go func() {
		listenDone <- listener.Listen(ctx, func(s pkgif.Sighting) {
			select {
			case sightings <- s:
			default:
			}
		})
	}()
	go func() { _ = announcer.Announce(ctx) }()

	select {
	case s := <-sightings:
		assert.Equal(t, announcer.Nonce(), s.Nonce)
		assert.Equal(t, 9000, s.Port)
		assert.True(t, s.IP.IsLoopback())
	case <-ctx.Done():
		t.Fatal("未收到广告")
	}

	require.NoError(t, listener.Close())
	require.NoError(t, announcer.Close())
	cancel()

	select {
	case err := <-listenDone:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Listen 未退出")
	}
}

// TestBeacon_IgnoresOwnAdvert 测试忽略自身广告
func TestBeacon_IgnoresOwnAdvert(t *testing.T) {
	port := freeUDPPort(t)
	beacon, err := New(DefaultConfig(),
		WithPorts(port, 9000),
		WithBroadcastAddr("127.0.0.1"),
		WithAnnounceInterval(10*time.Millisecond))
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	var seen int
	go func() { _ = beacon.Announce(ctx) }()
	err = beacon.Listen(ctx, func(pkgif.Sighting) { seen++ })
	assert.NoError(t, err)
	assert.Zero(t, seen)
	_ = beacon.Close()
}

// TestBeacon_ClosedBeforeUse 测试关闭后无法再打开套接字
func TestBeacon_ClosedBeforeUse(t *testing.T) {
	beacon, err := New(DefaultConfig(), WithPorts(freeUDPPort(t), 9000), WithBroadcastAddr("127.0.0.1"))
	require.NoError(t, err)
	require.NoError(t, beacon.Close())

	err = beacon.Announce(context.Background())
	assert.ErrorIs(t, err, ErrClosed)
}

// TestBeacon_LAN 测试真实广播
func TestBeacon_LAN(t *testing.T) {
	t.Skip("需要真实网络环境")
}
