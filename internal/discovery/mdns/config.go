package mdns

import (
	"errors"
	"time"

	"github.com/benbjohnson/clock"
)

const (
	// DefaultServiceTag mDNS 服务标签
	DefaultServiceTag = "_duet._tcp"

	// DefaultDomain mDNS 域名
	DefaultDomain = "local."

	// NonceTXTPrefix TXT 记录前缀
	NonceTXTPrefix = "nonce="
)

// Config mDNS 信标配置
type Config struct {
	// ServiceTag 服务标签
	ServiceTag string

	// Domain 域名
	Domain string

	// TCPPort 广告的接受端口
	TCPPort int

	// QueryInterval 查询间隔
	QueryInterval time.Duration

	// QueryTimeout 单次查询等待应答的时间
	QueryTimeout time.Duration

	// Clock 时钟（测试可替换）
	Clock clock.Clock
}

// DefaultConfig 返回默认配置
func DefaultConfig() Config {
	return Config{
		ServiceTag:    DefaultServiceTag,
		Domain:        DefaultDomain,
		TCPPort:       8223,
		QueryInterval: 2 * time.Second,
		QueryTimeout:  time.Second,
		Clock:         clock.New(),
	}
}

// Validate 验证配置
func (c Config) Validate() error {
	if c.ServiceTag == "" {
		return errors.New("mdns: service tag is empty")
	}
	if c.TCPPort <= 0 || c.TCPPort > 65535 {
		return errors.New("mdns: invalid tcp port")
	}
	if c.QueryInterval <= 0 || c.QueryTimeout <= 0 {
		return errors.New("mdns: intervals must be positive")
	}
	return nil
}

// ConfigOption 配置选项
type ConfigOption func(*Config)

// WithTCPPort 设置广告端口
func WithTCPPort(port int) ConfigOption {
	return func(c *Config) {
		c.TCPPort = port
	}
}

// WithServiceTag 设置服务标签
func WithServiceTag(tag string) ConfigOption {
	return func(c *Config) {
		c.ServiceTag = tag
	}
}

// WithQueryInterval 设置查询间隔
func WithQueryInterval(d time.Duration) ConfigOption {
	return func(c *Config) {
		c.QueryInterval = d
	}
}
