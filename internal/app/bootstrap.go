package app

import (
	"fmt"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"github.com/dep2p/go-duet/config"
	pkgif "github.com/dep2p/go-duet/pkg/interfaces"
)

// bootstrap 组装 fx 模块
//
// 加载顺序（按依赖）：
//  1. Config
//  2. Foundation: EventBus → Metrics → Wire
//  3. Discovery: Discovery → Rendezvous（仅局域网模式）
//  4. Game
type bootstrap struct {
	config *config.Config
	opts   *options
}

func newBootstrap(cfg *config.Config, o *options) *bootstrap {
	return &bootstrap{config: cfg, opts: o}
}

// build 验证配置并创建 fx 应用（不启动）
func (b *bootstrap) build(a *App) (*fx.App, error) {
	if err := b.config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	modules := b.setupModules()
	modules = append(modules,
		fx.Invoke(injectComponents(a)),
		fx.WithLogger(b.fxLogger()),
	)
	return fx.New(modules...), nil
}

// setupModules 组装所有 fx 模块
func (b *bootstrap) setupModules() []fx.Option {
	modules := []fx.Option{
		// 配置模块（Tier 0）
		b.setupConfigModule(),

		// 基础层（Tier 1）
		b.setupFoundationLayer(),

		// 发现层（Tier 2）
		b.setupDiscoveryLayer(),

		// 对局层（Tier 3）
		b.setupGameLayer(),
	}

	// 用户扩展（Fx Options）
	if len(b.opts.fxOpts) > 0 {
		modules = append(modules, b.opts.fxOpts...)
	}
	return modules
}

// setupConfigModule 提供统一配置
func (b *bootstrap) setupConfigModule() fx.Option {
	return fx.Supply(b.config)
}

func (b *bootstrap) setupFoundationLayer() fx.Option {
	return FoundationModules()
}

// setupDiscoveryLayer 直连和本地对局不需要发现
func (b *bootstrap) setupDiscoveryLayer() fx.Option {
	if !lanMode(b.config) {
		return fx.Options()
	}
	return DiscoveryModules()
}

// setupGameLayer 对局模块，可注入自定义走子来源
func (b *bootstrap) setupGameLayer() fx.Option {
	if b.opts.moves == nil {
		return GameModules()
	}
	moves := b.opts.moves
	return fx.Options(
		fx.Provide(func() pkgif.MoveSource { return moves }),
		GameModules(),
	)
}

// fxLogger verbose 时输出 Fx 启动日志，否则静默
func (b *bootstrap) fxLogger() func() fxevent.Logger {
	verbose := b.config.Log.Verbose
	return func() fxevent.Logger {
		if verbose {
			if l, err := zap.NewDevelopment(); err == nil {
				return &fxevent.ZapLogger{Logger: l}
			}
		}
		return &fxevent.ZapLogger{Logger: zap.NewNop()}
	}
}

// lanMode 未启用直连和本地对局时走局域网发现
func lanMode(cfg *config.Config) bool {
	return !cfg.Direct.Enabled && !cfg.Session.Local
}
