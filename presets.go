package duet

import (
	"fmt"

	"github.com/samber/lo"

	"github.com/dep2p/go-duet/config"
)

// ════════════════════════════════════════════════════════════════════════════
//                              预设配置常量
// ════════════════════════════════════════════════════════════════════════════

// 预设名称常量
const (
	// PresetLAN UDP 广播发现
	PresetLAN = "lan"

	// PresetMDNS mDNS 服务发现
	PresetMDNS = "mdns"

	// PresetLocal 进程内对手
	PresetLocal = "local"
)

// ════════════════════════════════════════════════════════════════════════════
//                              预设配置获取
// ════════════════════════════════════════════════════════════════════════════

// GetLANConfig 获取广播发现配置
//
// 适用场景：同一网段的两台机器，无需任何配置
func GetLANConfig() *config.Config {
	cfg := config.NewConfig()
	cfg.Discovery.Mode = config.DiscoveryBroadcast
	return cfg
}

// GetMDNSConfig 获取 mDNS 发现配置
//
// 适用场景：屏蔽了广播但允许组播的网络
func GetMDNSConfig() *config.Config {
	cfg := config.NewConfig()
	cfg.Discovery.Mode = config.DiscoveryMDNS
	return cfg
}

// GetLocalConfig 获取本地对局配置
//
// 适用场景：离线演示、测试
func GetLocalConfig() *config.Config {
	cfg := config.NewConfig()
	cfg.Session.Local = true
	return cfg
}

// GetConfigByPreset 根据名称获取预设配置，未知名称返回 nil
func GetConfigByPreset(name string) *config.Config {
	switch name {
	case PresetLAN:
		return GetLANConfig()
	case PresetMDNS:
		return GetMDNSConfig()
	case PresetLocal:
		return GetLocalConfig()
	default:
		return nil
	}
}

// ════════════════════════════════════════════════════════════════════════════
//                              预设信息
// ════════════════════════════════════════════════════════════════════════════

// PresetInfo 预设描述
type PresetInfo struct {
	Name        string
	Description string
}

// AvailablePresets 返回所有可用预设
func AvailablePresets() []PresetInfo {
	return []PresetInfo{
		{Name: PresetLAN, Description: "UDP broadcast discovery on the local network"},
		{Name: PresetMDNS, Description: "mDNS service discovery"},
		{Name: PresetLocal, Description: "play against an in-process opponent"},
	}
}

// IsValidPreset 检查预设名称是否有效
func IsValidPreset(name string) bool {
	return lo.ContainsBy(AvailablePresets(), func(p PresetInfo) bool {
		return p.Name == name
	})
}

func presetNames() []string {
	return lo.Map(AvailablePresets(), func(p PresetInfo, _ int) string {
		return p.Name
	})
}

func unknownPreset(name string) error {
	return fmt.Errorf("unknown preset %q (available: %v)", name, presetNames())
}
