package app

import (
	"context"

	"go.uber.org/fx"

	"github.com/dep2p/go-duet/config"
	"github.com/dep2p/go-duet/internal/core/metrics"
	"github.com/dep2p/go-duet/internal/core/wire"
	"github.com/dep2p/go-duet/internal/rendezvous"
	pkgif "github.com/dep2p/go-duet/pkg/interfaces"
)

// Module 对局 Fx 模块
var Module = fx.Module("app",
	fx.Provide(ProvideGame),
	fx.Invoke(registerLifecycle),
)

// GameParams 对局依赖
type GameParams struct {
	fx.In

	UnifiedCfg *config.Config
	Codec      wire.Codec
	Controller *rendezvous.Controller `optional:"true"`
	EventBus   pkgif.EventBus         `optional:"true"`
	Reporter   metrics.Reporter       `optional:"true"`
	Moves      pkgif.MoveSource       `optional:"true"`
}

// ProvideGame 提供对局
func ProvideGame(p GameParams) (*Game, error) {
	opts := []GameOption{
		WithEventBus(p.EventBus),
		WithReporter(p.Reporter),
		WithHeadless(p.UnifiedCfg.Session.Headless),
	}
	if p.Controller != nil {
		opts = append(opts, WithController(p.Controller))
	}
	if p.Moves != nil {
		opts = append(opts, WithMoves(p.Moves))
	}
	return NewGame(p.UnifiedCfg, p.Codec, opts...)
}

func registerLifecycle(lc fx.Lifecycle, g *Game) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return g.Start(ctx)
		},
		OnStop: func(_ context.Context) error {
			return g.Close()
		},
	})
}
