package app

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"

	"github.com/dep2p/go-duet/config"
	"github.com/dep2p/go-duet/internal/core/eventbus"
	"github.com/dep2p/go-duet/internal/core/metrics"
	"github.com/dep2p/go-duet/internal/core/wire"
	"github.com/dep2p/go-duet/internal/demo"
	pkgif "github.com/dep2p/go-duet/pkg/interfaces"
	"github.com/dep2p/go-duet/pkg/types"
)

func localConfig() *config.Config {
	cfg := testConfig()
	cfg.Session.Local = true
	return cfg
}

// TestModule 测试对局模块注入
func TestModule(t *testing.T) {
	var g *Game
	app := fxtest.New(t,
		fx.Supply(localConfig()),
		eventbus.Module(),
		metrics.Module,
		wire.Module,
		Module,
		fx.Populate(&g),
	)
	app.RequireStart()
	defer app.RequireStop()

	require.NotNil(t, g)
	assert.Equal(t, types.PhasePlaying, g.Phase())
	assert.Equal(t, "json", g.codec.Name())
}

// TestModule_NoJoinMode 测试缺少会合控制器时构建失败
func TestModule_NoJoinMode(t *testing.T) {
	app := fx.New(
		fx.Supply(testConfig()),
		wire.Module,
		Module,
		fx.NopLogger,
	)
	require.Error(t, app.Err())
	assert.Contains(t, app.Err().Error(), ErrNoJoinMode.Error())
}

// TestNew_Local 测试组装本地对局并跑完
func TestNew_Local(t *testing.T) {
	a, err := New(localConfig())
	require.NoError(t, err)
	require.NotNil(t, a.Game)
	require.NotNil(t, a.EventBus)
	require.NotNil(t, a.Reporter)

	ctx := context.Background()
	require.NoError(t, a.Start(ctx))
	assert.ErrorIs(t, a.Start(ctx), ErrAlreadyStarted)

	require.Eventually(t, func() bool {
		a.Game.Tick()
		return a.Game.Phase() == types.PhaseFinished
	}, 5*time.Second, time.Millisecond)
	assert.Equal(t, ExitOK, a.Game.ExitCode())

	require.NoError(t, a.Stop(ctx))
	require.NoError(t, a.Stop(ctx))
	assert.ErrorIs(t, a.Start(ctx), ErrStopped)
}

// TestNew_MoveSource 测试自定义走子来源
func TestNew_MoveSource(t *testing.T) {
	q := demo.NewQueue(types.Cell{Column: 1, Row: 1})
	a, err := New(localConfig(), WithMoveSource(q))
	require.NoError(t, err)
	assert.Same(t, pkgif.MoveSource(q), a.Game.moves)
}

// TestNew_MetricsDisabled 测试关闭流量统计
func TestNew_MetricsDisabled(t *testing.T) {
	cfg := localConfig()
	cfg.Metrics.Enabled = false
	a, err := New(cfg)
	require.NoError(t, err)
	assert.Nil(t, a.Reporter)
}

// TestNew_InvalidConfig 测试配置校验
func TestNew_InvalidConfig(t *testing.T) {
	cfg := localConfig()
	cfg.Board.Columns = 0
	_, err := New(cfg)
	assert.Error(t, err)
}

// TestNew_FxOptions 测试追加 Fx 选项
func TestNew_FxOptions(t *testing.T) {
	var codec wire.Codec
	_, err := New(localConfig(), WithFxOptions(fx.Populate(&codec)))
	require.NoError(t, err)
	require.NotNil(t, codec)
}
