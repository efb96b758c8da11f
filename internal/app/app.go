package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/fx"

	"github.com/dep2p/go-duet/config"
	"github.com/dep2p/go-duet/internal/core/metrics"
	pkgif "github.com/dep2p/go-duet/pkg/interfaces"
)

const (
	startTimeout = 10 * time.Second
	stopTimeout  = 10 * time.Second
)

var (
	// ErrAlreadyStarted 重复启动
	ErrAlreadyStarted = errors.New("app: already started")

	// ErrStopped 已停止
	ErrStopped = errors.New("app: stopped")
)

// App 组装好的应用
type App struct {
	Game     *Game
	EventBus pkgif.EventBus
	Reporter metrics.Reporter

	fx *fx.App

	mu      sync.Mutex
	started bool
	stopped bool
}

// New 根据配置组装应用（不启动）
func New(cfg *config.Config, opts ...Option) (*App, error) {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	a := &App{}
	fxApp, err := newBootstrap(cfg, o).build(a)
	if err != nil {
		return nil, err
	}
	if err := fxApp.Err(); err != nil {
		return nil, fmt.Errorf("build app: %w", err)
	}
	a.fx = fxApp
	return a, nil
}

type injectParams struct {
	fx.In

	Game     *Game
	EventBus pkgif.EventBus   `optional:"true"`
	Reporter metrics.Reporter `optional:"true"`
}

func injectComponents(a *App) interface{} {
	return func(p injectParams) {
		a.Game = p.Game
		a.EventBus = p.EventBus
		a.Reporter = p.Reporter
	}
}

// ============================================================================
//                              生命周期
// ============================================================================

// Start 启动所有模块
func (a *App) Start(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.stopped {
		return ErrStopped
	}
	if a.started {
		return ErrAlreadyStarted
	}

	startCtx, cancel := context.WithTimeout(ctx, startTimeout)
	defer cancel()

	if err := a.fx.Start(startCtx); err != nil {
		log.Error("应用启动失败", "err", err)
		return fmt.Errorf("start failed: %w", err)
	}
	a.started = true
	log.Debug("应用已启动")
	return nil
}

// Stop 停止所有模块，可重复调用
func (a *App) Stop(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.stopped || !a.started {
		a.stopped = true
		return nil
	}
	a.stopped = true

	stopCtx, cancel := context.WithTimeout(ctx, stopTimeout)
	defer cancel()

	if err := a.fx.Stop(stopCtx); err != nil {
		return fmt.Errorf("stop failed: %w", err)
	}
	log.Debug("应用已停止")
	return nil
}
