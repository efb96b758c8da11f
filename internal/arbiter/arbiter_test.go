package arbiter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dep2p/go-duet/config"
	"github.com/dep2p/go-duet/internal/core/channel"
	"github.com/dep2p/go-duet/internal/core/wire"
	"github.com/dep2p/go-duet/pkg/types"
)

// scripted 按顺序返回给定取值
func scripted(values ...types.PickValue) Picker {
	i := 0
	return func() types.PickValue {
		v := values[i%len(values)]
		i++
		return v
	}
}

func testPipe(t *testing.T) (*channel.Conn, *channel.Conn) {
	a, b := channel.Pipe(wire.JSONCodec{}, channel.WithConfig(channel.Config{WriteTimeout: 200 * time.Millisecond}))
	t.Cleanup(func() {
		_ = a.Close()
		_ = b.Close()
	})
	return a, b
}

type outcome struct {
	result types.Arbitration
	err    error
}

// runPair 驱动两个仲裁器直到都结束
func runPair(t *testing.T, a, b *Arbiter) (outcome, outcome) {
	t.Helper()
	require.NoError(t, a.Start())
	require.NoError(t, b.Start())

	var oa, ob outcome
	var doneA, doneB bool
	require.Eventually(t, func() bool {
		if !doneA {
			oa.result, doneA, oa.err = a.Tick()
		}
		if !doneB {
			ob.result, doneB, ob.err = b.Tick()
		}
		return doneA && doneB
	}, 2*time.Second, time.Millisecond)
	return oa, ob
}

// TestArbiter_Resolve 测试一次取值即完成
func TestArbiter_Resolve(t *testing.T) {
	ca, cb := testPipe(t)
	a, err := New(ca, WithPicker(scripted(pick(types.IdentityRed, 42))))
	require.NoError(t, err)
	b, err := New(cb, WithPicker(scripted(pick(types.IdentityBlue, 17))))
	require.NoError(t, err)

	oa, ob := runPair(t, a, b)
	require.NoError(t, oa.err)
	require.NoError(t, ob.err)

	assert.Equal(t, types.Arbitration{Local: types.IdentityRed, Remote: types.IdentityBlue, FirstMover: types.SideLocal}, oa.result)
	assert.Equal(t, types.Arbitration{Local: types.IdentityBlue, Remote: types.IdentityRed, FirstMover: types.SideRemote}, ob.result)
	assert.Equal(t, 0, a.Attempts())
}

// TestArbiter_CollisionRetry 测试冲突后重新取值
func TestArbiter_CollisionRetry(t *testing.T) {
	ca, cb := testPipe(t)
	a, err := New(ca, WithPicker(scripted(pick(types.IdentityRed, 5), pick(types.IdentityGreen, 5))))
	require.NoError(t, err)
	b, err := New(cb, WithPicker(scripted(pick(types.IdentityRed, 9), pick(types.IdentityBlue, 9))))
	require.NoError(t, err)

	oa, ob := runPair(t, a, b)
	require.NoError(t, oa.err)
	require.NoError(t, ob.err)

	assert.Equal(t, types.IdentityGreen, oa.result.Local)
	assert.Equal(t, types.IdentityBlue, oa.result.Remote)
	assert.Equal(t, types.SideRemote, oa.result.FirstMover)
	assert.Equal(t, types.SideLocal, ob.result.FirstMover)
	assert.Equal(t, 1, a.Attempts())
	assert.Equal(t, 1, b.Attempts())
}

// TestArbiter_TooManyCollisions 测试冲突次数超限
func TestArbiter_TooManyCollisions(t *testing.T) {
	ca, cb := testPipe(t)
	cfg := DefaultConfig()
	cfg.MaxAttempts = 3

	same := scripted(pick(types.IdentityRed, 1))
	a, err := New(ca, WithConfig(cfg), WithPicker(same))
	require.NoError(t, err)
	b, err := New(cb, WithConfig(cfg), WithPicker(scripted(pick(types.IdentityRed, 1))))
	require.NoError(t, err)

	oa, ob := runPair(t, a, b)
	assert.ErrorIs(t, oa.err, ErrTooManyCollisions)
	assert.ErrorIs(t, ob.err, ErrTooManyCollisions)
	assert.Equal(t, 3, a.Attempts())
}

// TestArbiter_RandomConverges 测试随机取值最终收敛
func TestArbiter_RandomConverges(t *testing.T) {
	ca, cb := testPipe(t)
	cfg := DefaultConfig()
	cfg.MaxAttempts = 1000

	a, err := New(ca, WithConfig(cfg))
	require.NoError(t, err)
	b, err := New(cb, WithConfig(cfg))
	require.NoError(t, err)

	oa, ob := runPair(t, a, b)
	require.NoError(t, oa.err)
	require.NoError(t, ob.err)
	assert.Equal(t, oa.result.Local, ob.result.Remote)
	assert.NotEqual(t, oa.result.Local, oa.result.Remote)
	assert.Equal(t, oa.result.FirstMover, ob.result.FirstMover.Opposite())
}

// TestArbiter_LeavesLaterMessages 测试仲裁后的消息留给对局
func TestArbiter_LeavesLaterMessages(t *testing.T) {
	ca, cb := testPipe(t)
	a, err := New(ca, WithPicker(scripted(pick(types.IdentityRed, 1))))
	require.NoError(t, err)
	require.NoError(t, a.Start())

	require.NoError(t, cb.Send(&wire.PickIdentity{Identity: types.IdentityBlue, Tiebreak: 200}))
	require.NoError(t, cb.Send(&wire.Move{Cell: types.Cell{Column: 1, Row: 2}}))
	require.NoError(t, cb.Pump())

	var done bool
	require.Eventually(t, func() bool {
		_, done, err = a.Tick()
		return done
	}, 2*time.Second, time.Millisecond)
	require.NoError(t, err)

	var msg wire.Message
	require.Eventually(t, func() bool {
		require.NoError(t, ca.Pump())
		var ok bool
		msg, ok = ca.Receive()
		return ok
	}, 2*time.Second, time.Millisecond)
	assert.Equal(t, &wire.Move{Cell: types.Cell{Column: 1, Row: 2}}, msg)
}

// TestArbiter_OpponentQuit 测试仲裁期间对方退出
func TestArbiter_OpponentQuit(t *testing.T) {
	ca, cb := testPipe(t)
	a, err := New(ca)
	require.NoError(t, err)
	require.NoError(t, a.Start())

	require.NoError(t, cb.Send(&wire.Quit{}))
	require.NoError(t, cb.Pump())

	require.Eventually(t, func() bool {
		_, done, _ := a.Tick()
		return done
	}, 2*time.Second, time.Millisecond)
	_, _, err = a.Tick()
	assert.ErrorIs(t, err, ErrOpponentQuit)
}

// TestArbiter_UnexpectedMessage 测试非法消息
func TestArbiter_UnexpectedMessage(t *testing.T) {
	ca, cb := testPipe(t)
	a, err := New(ca)
	require.NoError(t, err)
	require.NoError(t, a.Start())

	require.NoError(t, cb.Send(&wire.Join{}))
	require.NoError(t, cb.Pump())

	require.Eventually(t, func() bool {
		_, done, _ := a.Tick()
		return done
	}, 2*time.Second, time.Millisecond)
	_, _, err = a.Tick()
	assert.ErrorIs(t, err, ErrUnexpectedMessage)
}

// TestArbiter_InvalidPick 测试对方取值越界视为协议错误
func TestArbiter_InvalidPick(t *testing.T) {
	cases := []struct {
		name string
		msg  *wire.PickIdentity
	}{
		{"unknown identity", &wire.PickIdentity{Identity: types.Identity('Z'), Tiebreak: 3}},
		{"negative tiebreak", &wire.PickIdentity{Identity: types.IdentityBlue, Tiebreak: -1}},
		{"tiebreak too large", &wire.PickIdentity{Identity: types.IdentityBlue, Tiebreak: 600}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ca, cb := testPipe(t)
			a, err := New(ca, WithPicker(scripted(pick(types.IdentityRed, 42))))
			require.NoError(t, err)
			require.NoError(t, a.Start())

			require.NoError(t, cb.Send(tc.msg))
			require.NoError(t, cb.Pump())

			require.Eventually(t, func() bool {
				_, done, _ := a.Tick()
				return done
			}, 2*time.Second, time.Millisecond)
			_, _, err = a.Tick()
			assert.ErrorIs(t, err, ErrUnexpectedMessage)
		})
	}
}

// TestConfig_Accepts 测试取值范围判定
func TestConfig_Accepts(t *testing.T) {
	cfg := DefaultConfig()
	assert.True(t, cfg.Accepts(pick(types.IdentityGreen, 0)))
	assert.True(t, cfg.Accepts(pick(types.IdentityBlue, cfg.MaxTiebreak)))
	assert.False(t, cfg.Accepts(pick(types.Identity('Z'), 1)))
	assert.False(t, cfg.Accepts(pick(types.IdentityRed, -1)))
	assert.False(t, cfg.Accepts(pick(types.IdentityRed, cfg.MaxTiebreak+1)))
}

// TestArbiter_ChannelClosed 测试信道关闭
func TestArbiter_ChannelClosed(t *testing.T) {
	ca, cb := testPipe(t)
	a, err := New(ca)
	require.NoError(t, err)
	require.NoError(t, a.Start())
	require.NoError(t, cb.Close())

	require.Eventually(t, func() bool {
		_, done, _ := a.Tick()
		return done
	}, 2*time.Second, time.Millisecond)
	_, _, err = a.Tick()
	assert.ErrorIs(t, err, ErrChannelClosed)
}

// TestArbiter_NotStarted 测试未启动
func TestArbiter_NotStarted(t *testing.T) {
	ca, _ := testPipe(t)
	a, err := New(ca)
	require.NoError(t, err)

	_, done, err := a.Tick()
	assert.False(t, done)
	assert.ErrorIs(t, err, ErrNotStarted)
}

// TestConfigFromUnified 测试从统一配置创建
func TestConfigFromUnified(t *testing.T) {
	cfg := config.NewConfig()
	cfg.Arbiter.Identities = "xyz"
	cfg.Arbiter.MaxAttempts = 4

	c := ConfigFromUnified(cfg, wire.JSONCodec{}.MaxTiebreak())
	assert.Equal(t, []types.Identity{'x', 'y', 'z'}, c.Identities)
	assert.Equal(t, 4, c.MaxAttempts)
	assert.Equal(t, 999, c.MaxTiebreak)
	assert.NoError(t, c.Validate())

	c = ConfigFromUnified(nil, 0)
	assert.Equal(t, DefaultConfig(), c)

	_, err := New(nil, WithConfig(Config{}))
	assert.ErrorIs(t, err, ErrInvalidConfig)
}
