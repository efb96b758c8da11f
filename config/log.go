package config

import (
	"fmt"
	"strings"
)

// LogConfig 日志配置
type LogConfig struct {
	// Level 全局日志级别：debug、info、warn、error
	Level string `json:"level" mapstructure:"level"`

	// Format 输出格式：text 或 json
	Format string `json:"format" mapstructure:"format"`

	// File 日志文件，空表示标准错误
	File string `json:"file,omitempty" mapstructure:"file"`

	// Verbose 输出 fx 生命周期日志
	Verbose bool `json:"verbose" mapstructure:"verbose"`
}

// DefaultLogConfig 返回默认日志配置
func DefaultLogConfig() LogConfig {
	return LogConfig{
		Level:  "info",
		Format: "text",
	}
}

// Validate 验证日志配置
func (c LogConfig) Validate() error {
	switch strings.ToLower(c.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("unknown log level %q", c.Level)
	}
	switch strings.ToLower(c.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log format %q", c.Format)
	}
	return nil
}

// MetricsConfig 带宽统计配置
type MetricsConfig struct {
	// Enabled 是否统计每个对端和每种消息的流量
	Enabled bool `json:"enabled" mapstructure:"enabled"`
}

// DefaultMetricsConfig 返回默认带宽统计配置
func DefaultMetricsConfig() MetricsConfig {
	return MetricsConfig{Enabled: true}
}
