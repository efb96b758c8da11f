package config

import (
	"errors"
	"time"
)

// 发现模式
const (
	// DiscoveryBroadcast UDP 广播
	DiscoveryBroadcast = "broadcast"

	// DiscoveryMDNS 多播 DNS
	DiscoveryMDNS = "mdns"
)

// DiscoveryConfig 局域网发现配置
type DiscoveryConfig struct {
	// Mode 发现模式：broadcast 或 mdns
	Mode string `json:"mode" mapstructure:"mode"`

	// UDPPort 广告端口
	UDPPort int `json:"udp_port" mapstructure:"udp_port"`

	// TCPPort 对局连接端口
	TCPPort int `json:"tcp_port" mapstructure:"tcp_port"`

	// BroadcastAddr 广播目标地址
	BroadcastAddr string `json:"broadcast_addr,omitempty" mapstructure:"broadcast_addr"`

	// AnnounceInterval 广告间隔
	AnnounceInterval Duration `json:"announce_interval,omitempty" mapstructure:"announce_interval"`

	// DialTimeout 出站连接超时
	DialTimeout Duration `json:"dial_timeout,omitempty" mapstructure:"dial_timeout"`

	// PollTimeout 后台套接字的阻塞上限
	PollTimeout Duration `json:"poll_timeout,omitempty" mapstructure:"poll_timeout"`

	// DialRate 每秒最多发起的出站连接数
	DialRate float64 `json:"dial_rate,omitempty" mapstructure:"dial_rate"`

	// MDNS mDNS 配置
	MDNS MDNSConfig `json:"mdns,omitempty" mapstructure:"mdns"`
}

// MDNSConfig mDNS 配置
type MDNSConfig struct {
	// ServiceTag 服务名
	ServiceTag string `json:"service_tag,omitempty" mapstructure:"service_tag"`

	// QueryInterval 查询间隔
	QueryInterval Duration `json:"query_interval,omitempty" mapstructure:"query_interval"`
}

// DefaultDiscoveryConfig 返回默认发现配置
func DefaultDiscoveryConfig() DiscoveryConfig {
	return DiscoveryConfig{
		Mode:             DiscoveryBroadcast,
		UDPPort:          DefaultUDPPort,
		TCPPort:          DefaultTCPPort,
		BroadcastAddr:    "255.255.255.255",
		AnnounceInterval: Duration(1 * time.Second),
		DialTimeout:      Duration(3 * time.Second),
		PollTimeout:      Duration(250 * time.Millisecond),
		DialRate:         4,
		MDNS: MDNSConfig{
			ServiceTag:    "_duet._tcp",
			QueryInterval: Duration(2 * time.Second),
		},
	}
}

// Validate 验证发现配置
func (c DiscoveryConfig) Validate() error {
	switch c.Mode {
	case DiscoveryBroadcast, DiscoveryMDNS:
	default:
		return errors.New("discovery mode must be broadcast or mdns")
	}
	if !validPort(c.UDPPort) {
		return errors.New("udp port out of range")
	}
	if !validPort(c.TCPPort) {
		return errors.New("tcp port out of range")
	}
	if c.DialTimeout < 0 || c.PollTimeout < 0 || c.AnnounceInterval < 0 {
		return errors.New("discovery durations must be non-negative")
	}
	if c.DialRate < 0 {
		return errors.New("dial rate must be non-negative")
	}
	return nil
}

func validPort(p int) bool {
	return p >= 0 && p <= 65535
}
