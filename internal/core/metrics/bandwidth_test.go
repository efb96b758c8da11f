package metrics

import (
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"

	"github.com/dep2p/go-duet/config"
)

// TestBandwidthCounter_Totals 测试总量统计
func TestBandwidthCounter_Totals(t *testing.T) {
	var reporter Reporter = NewBandwidthCounter()

	reporter.LogSent(100, "Move", "10.0.0.2:8223")
	reporter.LogRecv(200, "Move", "10.0.0.2:8223")

	stats := reporter.GetBandwidthTotals()
	assert.Equal(t, int64(100), stats.TotalOut)
	assert.Equal(t, int64(200), stats.TotalIn)
}

// TestBandwidthCounter_ByRemote 测试按对端统计
func TestBandwidthCounter_ByRemote(t *testing.T) {
	reporter := NewBandwidthCounter()

	reporter.LogSent(10, "Identify", "a:1")
	reporter.LogSent(20, "Identify", "b:2")
	reporter.LogRecv(5, "Join", "a:1")

	byRemote := reporter.GetBandwidthByRemote()
	require.Len(t, byRemote, 2)
	assert.Equal(t, Stats{TotalIn: 5, TotalOut: 10, RateIn: 5.0 / 60, RateOut: 10.0 / 60}, byRemote["a:1"])
	assert.Equal(t, int64(20), reporter.GetBandwidthForRemote("b:2").TotalOut)
	assert.Equal(t, Stats{}, reporter.GetBandwidthForRemote("c:3"))
}

// TestBandwidthCounter_ByKind 测试按消息种类统计
func TestBandwidthCounter_ByKind(t *testing.T) {
	reporter := NewBandwidthCounter()

	reporter.LogSent(3, "Move", "a:1")
	reporter.LogSent(3, "Move", "b:2")
	reporter.LogSent(1, "Quit", "a:1")

	byKind := reporter.GetBandwidthByKind()
	require.Len(t, byKind, 2)
	assert.Equal(t, int64(6), byKind["Move"].TotalOut)
	assert.Equal(t, int64(1), reporter.GetBandwidthForKind("Quit").TotalOut)
}

// TestBandwidthCounter_Reset 测试重置
func TestBandwidthCounter_Reset(t *testing.T) {
	reporter := NewBandwidthCounter()
	reporter.LogSent(3, "Move", "a:1")

	reporter.Reset()

	assert.Equal(t, Stats{}, reporter.GetBandwidthTotals())
	assert.Empty(t, reporter.GetBandwidthByRemote())
	assert.Empty(t, reporter.GetBandwidthByKind())
}

// TestBandwidthCounter_TrimIdle 测试清理空闲统计
func TestBandwidthCounter_TrimIdle(t *testing.T) {
	clk := clock.NewMock()
	reporter := NewBandwidthCounterWithClock(clk)

	reporter.LogSent(1, "Move", "old:1")
	clk.Add(10 * time.Second)
	reporter.LogSent(1, "Move", "new:1")

	reporter.TrimIdle(clk.Now().Add(-5 * time.Second))

	byRemote := reporter.GetBandwidthByRemote()
	assert.NotContains(t, byRemote, "old:1")
	assert.Contains(t, byRemote, "new:1")
}

// TestRateMeter_Window 测试滑动窗口
func TestRateMeter_Window(t *testing.T) {
	clk := clock.NewMock()
	meter := NewRateMeter(clk)

	meter.Add(60)
	assert.InDelta(t, 1.0, meter.Rate(), 1e-9)

	clk.Add(30 * time.Second)
	meter.Add(60)
	assert.InDelta(t, 2.0, meter.Rate(), 1e-9)

	clk.Add(40 * time.Second)
	assert.InDelta(t, 1.0, meter.Rate(), 1e-9)

	clk.Add(2 * time.Minute)
	assert.Zero(t, meter.Rate())
}

// TestModule_Provides 测试 Fx 模块
func TestModule_Provides(t *testing.T) {
	var reporter Reporter

	app := fxtest.New(t,
		Module,
		fx.Populate(&reporter),
	)
	defer app.RequireStart().RequireStop()

	require.NotNil(t, reporter)
	reporter.LogSent(512, "Move", "a:1")
	assert.Equal(t, int64(512), reporter.GetBandwidthTotals().TotalOut)
}

// TestModule_Disabled 测试禁用时不提供统计
func TestModule_Disabled(t *testing.T) {
	cfg := config.NewConfig()
	cfg.Metrics.Enabled = false

	var reporter Reporter
	app := fxtest.New(t,
		fx.Supply(cfg),
		Module,
		fx.Populate(&reporter),
	)
	defer app.RequireStart().RequireStop()

	assert.Nil(t, reporter)
}
