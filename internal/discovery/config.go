package discovery

import (
	"fmt"
	"time"

	"github.com/dep2p/go-duet/config"
)

// Config 发现服务配置
type Config struct {
	// UDPPort 广告端口
	UDPPort int

	// TCPPort 接受连接的端口
	TCPPort int

	// DialTimeout 单次出站连接超时
	DialTimeout time.Duration

	// PollTimeout 阻塞套接字操作的上限，用于及时观察停止标志
	PollTimeout time.Duration

	// DialRate 每秒最多发起的出站连接数
	DialRate float64

	// DialBurst 出站连接突发上限
	DialBurst int

	// NonceCacheSize 记住已连接对端的数量
	NonceCacheSize int
}

// DefaultConfig 返回默认配置
func DefaultConfig() Config {
	return Config{
		UDPPort:        config.DefaultUDPPort,
		TCPPort:        config.DefaultTCPPort,
		DialTimeout:    3 * time.Second,
		PollTimeout:    250 * time.Millisecond,
		DialRate:       4,
		DialBurst:      4,
		NonceCacheSize: 256,
	}
}

// Validate 验证配置
func (c Config) Validate() error {
	if c.UDPPort < 0 || c.UDPPort > 65535 {
		return fmt.Errorf("%w: udp port %d", ErrInvalidConfig, c.UDPPort)
	}
	if c.TCPPort < 0 || c.TCPPort > 65535 {
		return fmt.Errorf("%w: tcp port %d", ErrInvalidConfig, c.TCPPort)
	}
	if c.DialTimeout <= 0 || c.PollTimeout <= 0 {
		return fmt.Errorf("%w: timeouts must be positive", ErrInvalidConfig)
	}
	if c.DialRate <= 0 || c.DialBurst <= 0 {
		return fmt.Errorf("%w: dial rate must be positive", ErrInvalidConfig)
	}
	if c.NonceCacheSize <= 0 {
		return fmt.Errorf("%w: nonce cache size must be positive", ErrInvalidConfig)
	}
	return nil
}

// ConfigFromUnified 从统一配置创建发现配置
func ConfigFromUnified(cfg *config.Config) Config {
	c := DefaultConfig()
	if cfg == nil {
		return c
	}
	c.UDPPort = cfg.Discovery.UDPPort
	c.TCPPort = cfg.Discovery.TCPPort
	if d := cfg.Discovery.DialTimeout.Duration(); d > 0 {
		c.DialTimeout = d
	}
	if d := cfg.Discovery.PollTimeout.Duration(); d > 0 {
		c.PollTimeout = d
	}
	if cfg.Discovery.DialRate > 0 {
		c.DialRate = cfg.Discovery.DialRate
	}
	return c
}
