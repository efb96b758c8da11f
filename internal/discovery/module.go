package discovery

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/fx"

	"github.com/dep2p/go-duet/config"
	"github.com/dep2p/go-duet/internal/core/channel"
	"github.com/dep2p/go-duet/internal/core/metrics"
	"github.com/dep2p/go-duet/internal/core/wire"
	"github.com/dep2p/go-duet/internal/discovery/broadcast"
	"github.com/dep2p/go-duet/internal/discovery/mdns"
	pkgif "github.com/dep2p/go-duet/pkg/interfaces"
)

// DefaultJoinTimeout 停止时等待协程的默认时间
const DefaultJoinTimeout = 2 * time.Second

// Module 发现服务 Fx 模块
var Module = fx.Module("discovery",
	fx.Provide(
		ProvideBeacon,
		ProvideService,
	),
	fx.Invoke(registerLifecycle),
)

// BeaconParams 信标依赖
type BeaconParams struct {
	fx.In

	UnifiedCfg *config.Config `optional:"true"`
}

// ProvideBeacon 按配置选择信标实现
func ProvideBeacon(p BeaconParams) (pkgif.Beacon, error) {
	cfg := p.UnifiedCfg
	if cfg == nil {
		cfg = config.NewConfig()
	}
	d := cfg.Discovery

	switch d.Mode {
	case config.DiscoveryMDNS:
		mc := mdns.DefaultConfig()
		mc.TCPPort = d.TCPPort
		if iv := d.MDNS.QueryInterval.Duration(); iv > 0 {
			mc.QueryInterval = iv
		}
		if d.MDNS.ServiceTag != "" {
			mc.ServiceTag = d.MDNS.ServiceTag
		}
		return mdns.New(mc)
	case config.DiscoveryBroadcast, "":
		bc := broadcast.DefaultConfig()
		bc.Port = d.UDPPort
		bc.TCPPort = d.TCPPort
		if d.BroadcastAddr != "" {
			bc.BroadcastAddr = d.BroadcastAddr
		}
		if iv := d.AnnounceInterval.Duration(); iv > 0 {
			bc.AnnounceInterval = iv
		}
		if pt := d.PollTimeout.Duration(); pt > 0 {
			bc.PollTimeout = pt
		}
		return broadcast.New(bc)
	default:
		return nil, fmt.Errorf("%w: discovery mode %q", ErrInvalidConfig, d.Mode)
	}
}

// ServiceParams 服务依赖
type ServiceParams struct {
	fx.In

	Beacon     pkgif.Beacon
	Codec      wire.Codec
	UnifiedCfg *config.Config   `optional:"true"`
	EventBus   pkgif.EventBus   `optional:"true"`
	Reporter   metrics.Reporter `optional:"true"`
}

// ProvideService 提供发现服务
func ProvideService(p ServiceParams) (*Service, error) {
	opts := []Option{WithEventBus(p.EventBus)}

	chOpts := []channel.Option{channel.WithConfig(channel.ConfigFromUnified(p.UnifiedCfg))}
	if p.Reporter != nil {
		chOpts = append(chOpts, channel.WithReporter(p.Reporter))
	}
	opts = append(opts, WithChannelOptions(chOpts...))

	return New(ConfigFromUnified(p.UnifiedCfg), p.Beacon, p.Codec, opts...)
}

type lifecycleInput struct {
	fx.In

	LC      fx.Lifecycle
	Service *Service
}

func registerLifecycle(input lifecycleInput) {
	input.LC.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return input.Service.Start(ctx)
		},
		OnStop: func(_ context.Context) error {
			err := input.Service.Join(DefaultJoinTimeout)
			if errors.Is(err, ErrDiscoveryTimeout) {
				log.Warn("发现协程未在超时内退出，继续关闭")
				return nil
			}
			return err
		},
	})
}
