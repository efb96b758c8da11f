package duet

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"go.uber.org/multierr"

	"github.com/dep2p/go-duet/config"
	"github.com/dep2p/go-duet/internal/app"
	"github.com/dep2p/go-duet/internal/core/metrics"
	"github.com/dep2p/go-duet/internal/rendezvous"
	"github.com/dep2p/go-duet/internal/util/logger"
	pkgif "github.com/dep2p/go-duet/pkg/interfaces"
	"github.com/dep2p/go-duet/pkg/types"
)

var log = logger.Logger("duet")

// 退出码
const (
	ExitOK        = app.ExitOK
	ExitError     = app.ExitError
	ExitNoChannel = app.ExitNoChannel
)

// CandidateView 候选快照
type CandidateView = rendezvous.CandidateView

// Player 一方玩家
//
// Tick、Invite、Quit 应在同一个宿主循环中调用。
type Player struct {
	cfg *config.Config
	app *app.App

	mu      sync.Mutex
	started bool
	closed  bool
	logs    io.Closer
}

// New 创建玩家（不启动）
func New(opts ...Option) (*Player, error) {
	o := newOptions()
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, fmt.Errorf("apply option: %w", err)
		}
	}

	logs, err := ApplyLogConfig(o.cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}

	var appOpts []app.Option
	if o.moves != nil {
		appOpts = append(appOpts, app.WithMoveSource(o.moves))
	}
	if len(o.fxOpts) > 0 {
		appOpts = append(appOpts, app.WithFxOptions(o.fxOpts...))
	}

	a, err := app.New(o.cfg, appOpts...)
	if err != nil {
		if logs != nil {
			_ = logs.Close()
		}
		return nil, err
	}
	return &Player{cfg: o.cfg, app: a, logs: logs}, nil
}

// Start 创建并启动玩家
func Start(ctx context.Context, opts ...Option) (*Player, error) {
	p, err := New(opts...)
	if err != nil {
		return nil, err
	}
	if err := p.Start(ctx); err != nil {
		_ = p.Close()
		return nil, err
	}
	return p, nil
}

// ============================================================================
//                              生命周期
// ============================================================================

// Start 启动发现或直连
func (p *Player) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return ErrClosed
	}
	if err := p.app.Start(ctx); err != nil {
		return err
	}
	p.started = true
	log.Info("玩家已启动", "version", Version)
	return nil
}

// Close 停止所有模块并关闭日志文件（幂等）
func (p *Player) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil
	}
	p.closed = true

	err := p.app.Stop(context.Background())
	if p.logs != nil {
		err = multierr.Append(err, p.logs.Close())
	}
	return err
}

// Run 以 XferInterval 为间隔推进对局，直到结束或 ctx 取消
//
// ctx 取消时本方退出；返回进程退出码。
func (p *Player) Run(ctx context.Context) (int, error) {
	p.mu.Lock()
	started := p.started
	p.mu.Unlock()
	if !started {
		return ExitError, ErrNotStarted
	}

	ticker := time.NewTicker(p.cfg.Transport.XferInterval.Duration())
	defer ticker.Stop()

	g := p.app.Game
	for g.Phase() != types.PhaseFinished {
		select {
		case <-ctx.Done():
			g.Quit()
		case <-ticker.C:
			g.Tick()
		}
	}

	err := g.Err()
	if errors.Is(err, ErrCancelled) && ctx.Err() != nil {
		err = nil
	}
	return g.ExitCode(), err
}

// ============================================================================
//                              对局操作
// ============================================================================

// Tick 推进一步（非阻塞）
func (p *Player) Tick() {
	p.app.Game.Tick()
}

// Invite 邀请或接受候选
func (p *Player) Invite(id string) error {
	return p.app.Game.Invite(id)
}

// Quit 本方退出
func (p *Player) Quit() {
	p.app.Game.Quit()
}

// ============================================================================
//                              查询
// ============================================================================

// Config 返回生效的配置副本
func (p *Player) Config() *config.Config {
	return config.CloneConfig(p.cfg)
}

// Phase 返回当前阶段
func (p *Player) Phase() types.Phase {
	return p.app.Game.Phase()
}

// Candidates 返回候选快照
func (p *Player) Candidates() []CandidateView {
	return p.app.Game.Candidates()
}

// Status 返回状态栏文本
func (p *Player) Status() string {
	return p.app.Game.Status()
}

// Board 返回本方棋盘
func (p *Player) Board() pkgif.Board {
	return p.app.Game.Board()
}

// Arbitration 返回仲裁结果
func (p *Player) Arbitration() types.Arbitration {
	return p.app.Game.Arbitration()
}

// Turn 返回回合状态名与已落子数
func (p *Player) Turn() (string, int) {
	return p.app.Game.Turn()
}

// ExitCode 返回退出码
func (p *Player) ExitCode() int {
	return p.app.Game.ExitCode()
}

// Err 返回结束原因
func (p *Player) Err() error {
	return p.app.Game.Err()
}

// EventBus 返回事件总线
func (p *Player) EventBus() pkgif.EventBus {
	return p.app.EventBus
}

// Bandwidth 返回信道流量统计；关闭统计时返回零值
func (p *Player) Bandwidth() metrics.Stats {
	if p.app.Reporter == nil {
		return metrics.Stats{}
	}
	return p.app.Reporter.GetBandwidthTotals()
}
