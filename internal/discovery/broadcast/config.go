package broadcast

import (
	"errors"
	"net"
	"time"

	"github.com/benbjohnson/clock"
)

// DefaultBroadcastAddr 默认广播地址
const DefaultBroadcastAddr = "255.255.255.255"

// Config 广播信标配置
type Config struct {
	// Port UDP 广告端口
	Port int

	// TCPPort 广告中携带的接受端口
	TCPPort int

	// BroadcastAddr 广告目的地址
	BroadcastAddr string

	// AnnounceInterval 广告间隔
	AnnounceInterval time.Duration

	// PollTimeout 读超时，用于及时观察停止
	PollTimeout time.Duration

	// Clock 时钟（测试可替换）
	Clock clock.Clock
}

// DefaultConfig 返回默认配置
func DefaultConfig() Config {
	return Config{
		Port:             8222,
		TCPPort:          8223,
		BroadcastAddr:    DefaultBroadcastAddr,
		AnnounceInterval: time.Second,
		PollTimeout:      250 * time.Millisecond,
		Clock:            clock.New(),
	}
}

// Validate 验证配置
func (c Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return errors.New("broadcast: invalid udp port")
	}
	if c.TCPPort <= 0 || c.TCPPort > 65535 {
		return errors.New("broadcast: invalid tcp port")
	}
	if net.ParseIP(c.BroadcastAddr) == nil {
		return errors.New("broadcast: invalid broadcast address")
	}
	if c.AnnounceInterval <= 0 || c.PollTimeout <= 0 {
		return errors.New("broadcast: intervals must be positive")
	}
	return nil
}

// ConfigOption 配置选项
type ConfigOption func(*Config)

// WithPorts 设置 UDP 与 TCP 端口
func WithPorts(udpPort, tcpPort int) ConfigOption {
	return func(c *Config) {
		c.Port = udpPort
		c.TCPPort = tcpPort
	}
}

// WithBroadcastAddr 设置广告目的地址
func WithBroadcastAddr(addr string) ConfigOption {
	return func(c *Config) {
		c.BroadcastAddr = addr
	}
}

// WithAnnounceInterval 设置广告间隔
func WithAnnounceInterval(d time.Duration) ConfigOption {
	return func(c *Config) {
		c.AnnounceInterval = d
	}
}

// WithClock 设置时钟
func WithClock(clk clock.Clock) ConfigOption {
	return func(c *Config) {
		c.Clock = clk
	}
}
