package config

import (
	"fmt"
	"slices"
	"time"
)

// Codecs 支持的编码名
var Codecs = []string{"byte", "json", "proto"}

// TransportConfig 传输配置
type TransportConfig struct {
	// Codec 消息编码：json、byte 或 proto
	Codec string `json:"codec" mapstructure:"codec"`

	// WriteTimeout 每次 Pump 写出的期限
	WriteTimeout Duration `json:"write_timeout,omitempty" mapstructure:"write_timeout"`

	// FlushTimeout 关闭前尽力写出的期限
	FlushTimeout Duration `json:"flush_timeout,omitempty" mapstructure:"flush_timeout"`

	// XferInterval 主循环的服务间隔
	XferInterval Duration `json:"xfer_interval,omitempty" mapstructure:"xfer_interval"`
}

// DefaultTransportConfig 返回默认传输配置
func DefaultTransportConfig() TransportConfig {
	return TransportConfig{
		Codec:        "json",
		WriteTimeout: Duration(5 * time.Millisecond),
		FlushTimeout: Duration(250 * time.Millisecond),
		XferInterval: Duration(125 * time.Millisecond),
	}
}

// Validate 验证传输配置
func (c TransportConfig) Validate() error {
	if !slices.Contains(Codecs, c.Codec) {
		return fmt.Errorf("unknown codec %q (want one of %v)", c.Codec, Codecs)
	}
	if c.WriteTimeout <= 0 || c.FlushTimeout <= 0 {
		return fmt.Errorf("write and flush timeouts must be positive")
	}
	if c.XferInterval <= 0 {
		return fmt.Errorf("xfer interval must be positive")
	}
	return nil
}
