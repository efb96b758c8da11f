package app

import (
	"go.uber.org/fx"

	"github.com/dep2p/go-duet/internal/core/eventbus"
	"github.com/dep2p/go-duet/internal/core/metrics"
	"github.com/dep2p/go-duet/internal/core/wire"
	"github.com/dep2p/go-duet/internal/discovery"
	"github.com/dep2p/go-duet/internal/rendezvous"
)

// ============================================================================
//                              模块集合
// ============================================================================

// FoundationModules 基础层模块组合 (Tier 1)
//
// 事件总线、流量统计和线路编码，始终加载。
func FoundationModules() fx.Option {
	return fx.Options(
		eventbus.Module(),
		metrics.Module,
		wire.Module,
	)
}

// DiscoveryModules 发现层模块组合 (Tier 2)
//
// 局域网发现与会合，仅在未启用直连和本地对局时加载。
func DiscoveryModules() fx.Option {
	return fx.Options(
		discovery.Module,
		rendezvous.Module,
	)
}

// GameModules 对局层模块组合 (Tier 3)
func GameModules() fx.Option {
	return Module
}
