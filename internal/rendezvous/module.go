package rendezvous

import (
	"context"
	"errors"

	"go.uber.org/fx"

	"github.com/dep2p/go-duet/internal/discovery"
	pkgif "github.com/dep2p/go-duet/pkg/interfaces"
)

// Module 会合控制器 Fx 模块
var Module = fx.Module("rendezvous",
	fx.Provide(ProvideController),
	fx.Invoke(registerLifecycle),
)

// Params 控制器依赖
type Params struct {
	fx.In

	Service  *discovery.Service
	EventBus pkgif.EventBus `optional:"true"`
}

// ProvideController 提供会合控制器
func ProvideController(p Params) *Controller {
	return NewController(p.Service, LocalIdentify(), WithEventBus(p.EventBus))
}

func registerLifecycle(lc fx.Lifecycle, ctl *Controller) {
	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			err := ctl.Close(discovery.DefaultJoinTimeout)
			if errors.Is(err, discovery.ErrDiscoveryTimeout) {
				log.Warn("发现协程未在超时内退出，继续关闭")
				return nil
			}
			return err
		},
	})
}
