package config

import (
	"errors"
	"time"
)

// DirectConfig 直连模式配置
//
// 启用后跳过局域网发现：服务端监听 TCPPort，客户端连接 Host。
type DirectConfig struct {
	// Enabled 是否启用直连
	Enabled bool `json:"enabled" mapstructure:"enabled"`

	// Server 作为服务端等待连接
	Server bool `json:"server" mapstructure:"server"`

	// Host 客户端连接的目标主机
	Host string `json:"host,omitempty" mapstructure:"host"`

	// Timeout 连接或等待客户端的超时
	Timeout Duration `json:"timeout,omitempty" mapstructure:"timeout"`
}

// DefaultDirectConfig 返回默认直连配置
func DefaultDirectConfig() DirectConfig {
	return DirectConfig{
		Timeout: Duration(30 * time.Second),
	}
}

// Validate 验证直连配置
func (c DirectConfig) Validate() error {
	if !c.Enabled {
		return nil
	}
	if !c.Server && c.Host == "" {
		return errors.New("direct client requires a host")
	}
	if c.Timeout <= 0 {
		return errors.New("direct timeout must be positive")
	}
	return nil
}
