package app

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dep2p/go-duet/config"
	"github.com/dep2p/go-duet/internal/core/channel"
	"github.com/dep2p/go-duet/internal/core/eventbus"
	"github.com/dep2p/go-duet/internal/core/wire"
	"github.com/dep2p/go-duet/internal/discovery/direct"
	pkgif "github.com/dep2p/go-duet/pkg/interfaces"
	"github.com/dep2p/go-duet/pkg/types"
)

func testConfig() *config.Config {
	cfg := config.NewConfig()
	cfg.Session.MoveDelay = 0
	cfg.Board.Columns = 3
	cfg.Board.Rows = 3
	return cfg
}

func directConfig() *config.Config {
	cfg := testConfig()
	cfg.Direct.Enabled = true
	cfg.Direct.Server = true
	return cfg
}

func tickAll(t *testing.T, games ...*Game) {
	t.Helper()
	require.Eventually(t, func() bool {
		done := true
		for _, g := range games {
			g.Tick()
			done = done && g.Phase() == types.PhaseFinished
		}
		return done
	}, 5*time.Second, time.Millisecond)
}

// pipedGames 创建两局并直接接上内存信道
func pipedGames(t *testing.T) (*Game, *Game) {
	t.Helper()
	a, b := channel.Pipe(wire.ByteCodec{}, channel.WithConfig(channel.Config{WriteTimeout: 200 * time.Millisecond}))
	t.Cleanup(func() {
		_ = a.Close()
		_ = b.Close()
	})

	g1, err := NewGame(directConfig(), wire.ByteCodec{})
	require.NoError(t, err)
	g2, err := NewGame(directConfig(), wire.ByteCodec{})
	require.NoError(t, err)

	g1.startArbitration(a)
	g2.startArbitration(b)
	require.Equal(t, types.PhaseArbitrating, g1.Phase())
	require.Equal(t, types.PhaseArbitrating, g2.Phase())
	return g1, g2
}

// TestNewGame_NoJoinMode 测试缺少会合方式
func TestNewGame_NoJoinMode(t *testing.T) {
	_, err := NewGame(testConfig(), wire.ByteCodec{})
	assert.ErrorIs(t, err, ErrNoJoinMode)
}

// TestGame_Piped 测试两局经信道完成仲裁和对局
func TestGame_Piped(t *testing.T) {
	g1, g2 := pipedGames(t)
	tickAll(t, g1, g2)

	assert.Equal(t, ExitOK, g1.ExitCode())
	assert.Equal(t, ExitOK, g2.ExitCode())
	assert.NoError(t, g1.Err())
	assert.NoError(t, g2.Err())

	r1, r2 := g1.Arbitration(), g2.Arbitration()
	assert.Equal(t, r1.Local, r2.Remote)
	assert.Equal(t, r1.Remote, r2.Local)
	assert.NotEqual(t, r1.FirstMover, r2.FirstMover)
}

// TestGame_QuitWhileArbitrating 测试仲裁阶段退出
func TestGame_QuitWhileArbitrating(t *testing.T) {
	g1, g2 := pipedGames(t)

	g1.Quit()
	assert.Equal(t, types.PhaseFinished, g1.Phase())
	assert.Equal(t, ExitOK, g1.ExitCode())

	tickAll(t, g2)
	assert.Equal(t, ExitOK, g2.ExitCode())
	assert.NoError(t, g2.Err())
}

// TestGame_QuitWhilePlaying 测试对局中退出
func TestGame_QuitWhilePlaying(t *testing.T) {
	g1, g2 := pipedGames(t)
	require.Eventually(t, func() bool {
		g1.Tick()
		g2.Tick()
		return g1.Phase() == types.PhasePlaying && g2.Phase() == types.PhasePlaying
	}, 5*time.Second, time.Millisecond)

	g1.Quit()
	assert.Equal(t, types.PhaseFinished, g1.Phase())
	assert.Equal(t, ExitOK, g1.ExitCode())

	tickAll(t, g2)
	assert.Equal(t, ExitOK, g2.ExitCode())
}

// TestGame_CloseWhilePlaying 测试对局中直接关闭也会通知对端
func TestGame_CloseWhilePlaying(t *testing.T) {
	g1, g2 := pipedGames(t)
	require.Eventually(t, func() bool {
		g1.Tick()
		g2.Tick()
		return g1.Phase() == types.PhasePlaying && g2.Phase() == types.PhasePlaying
	}, 5*time.Second, time.Millisecond)

	require.NoError(t, g1.Close())
	assert.Equal(t, types.PhaseFinished, g1.Phase())
	assert.Equal(t, ExitOK, g1.ExitCode())

	tickAll(t, g2)
	reason, err, done := g2.session.Ended()
	require.True(t, done)
	assert.NoError(t, err)
	assert.Equal(t, types.EndOpponentQuit, reason)
	assert.Equal(t, ExitOK, g2.ExitCode())
}

// TestGame_CloseWhileArbitrating 测试仲裁中直接关闭也会通知对端
func TestGame_CloseWhileArbitrating(t *testing.T) {
	g1, g2 := pipedGames(t)

	require.NoError(t, g1.Close())
	assert.Equal(t, types.PhaseFinished, g1.Phase())

	tickAll(t, g2)
	assert.Equal(t, ExitOK, g2.ExitCode())
	assert.NoError(t, g2.Err())
}

// TestGame_Local 测试本地对手
func TestGame_Local(t *testing.T) {
	cfg := testConfig()
	cfg.Session.Local = true

	g, err := NewGame(cfg, wire.ByteCodec{})
	require.NoError(t, err)
	require.NoError(t, g.Start(context.Background()))
	assert.Equal(t, types.PhasePlaying, g.Phase())

	tickAll(t, g)
	assert.Equal(t, ExitOK, g.ExitCode())
	assert.NoError(t, g.Err())
	assert.NoError(t, g.Close())
}

// TestGame_DirectRefused 测试直连失败
func TestGame_DirectRefused(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := l.Addr().(*net.TCPAddr).Port
	require.NoError(t, l.Close())

	cfg := testConfig()
	cfg.Direct.Enabled = true
	cfg.Direct.Host = "127.0.0.1"
	cfg.Direct.Timeout = config.Duration(time.Second)
	cfg.Discovery.TCPPort = port

	g, err := NewGame(cfg, wire.ByteCodec{})
	require.NoError(t, err)
	require.NoError(t, g.Start(context.Background()))
	assert.Contains(t, g.Status(), "Connecting to 127.0.0.1")

	tickAll(t, g)
	assert.Equal(t, ExitNoChannel, g.ExitCode())
	assert.ErrorIs(t, g.Err(), direct.ErrConnectFailed)
	assert.NoError(t, g.Close())
}

// TestGame_QuitWhileJoining 测试等待客户端时退出
func TestGame_QuitWhileJoining(t *testing.T) {
	cfg := directConfig()
	cfg.Discovery.TCPPort = 0

	g, err := NewGame(cfg, wire.ByteCodec{})
	require.NoError(t, err)
	require.NoError(t, g.Start(context.Background()))
	assert.Equal(t, "Waiting for a client...", g.Status())

	g.Quit()
	assert.Equal(t, types.PhaseFinished, g.Phase())
	assert.Equal(t, ExitNoChannel, g.ExitCode())
	assert.ErrorIs(t, g.Err(), ErrCancelled)
	assert.NoError(t, g.Close())
}

// TestGame_PhaseEvents 测试阶段事件
func TestGame_PhaseEvents(t *testing.T) {
	bus := eventbus.NewBus()
	sub, err := bus.Subscribe(new(types.EvtPhaseChanged), pkgif.BufSize(8))
	require.NoError(t, err)
	defer sub.Close()

	cfg := testConfig()
	cfg.Session.Local = true
	g, err := NewGame(cfg, wire.ByteCodec{}, WithEventBus(bus))
	require.NoError(t, err)
	require.NoError(t, g.Start(context.Background()))

	select {
	case ev := <-sub.Out():
		e := ev.(types.EvtPhaseChanged)
		assert.Equal(t, types.PhaseJoining, e.From)
		assert.Equal(t, types.PhasePlaying, e.To)
	case <-time.After(time.Second):
		t.Fatal("no phase event")
	}
}

// TestGame_InviteNotJoining 测试非会合模式邀请
func TestGame_InviteNotJoining(t *testing.T) {
	g, err := NewGame(directConfig(), wire.ByteCodec{})
	require.NoError(t, err)
	assert.ErrorIs(t, g.Invite("x"), ErrNotJoining)
	assert.Nil(t, g.Candidates())
}
