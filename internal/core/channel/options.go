package channel

import (
	"time"

	"github.com/dep2p/go-duet/config"
	"github.com/dep2p/go-duet/internal/core/metrics"
)

// Config 信道配置
type Config struct {
	// WriteTimeout Pump 单次写出的超时
	WriteTimeout time.Duration

	// FlushTimeout Close 尽力写出的超时
	FlushTimeout time.Duration

	// ReadBufferSize 读协程单次读取的缓冲大小
	ReadBufferSize int
}

// DefaultConfig 返回默认配置
func DefaultConfig() Config {
	return Config{
		WriteTimeout:   5 * time.Millisecond,
		FlushTimeout:   250 * time.Millisecond,
		ReadBufferSize: 4096,
	}
}

// ConfigFromUnified 从统一配置创建信道配置
func ConfigFromUnified(cfg *config.Config) Config {
	c := DefaultConfig()
	if cfg == nil {
		return c
	}
	if d := cfg.Transport.WriteTimeout.Duration(); d > 0 {
		c.WriteTimeout = d
	}
	if d := cfg.Transport.FlushTimeout.Duration(); d > 0 {
		c.FlushTimeout = d
	}
	return c
}

// Option 信道选项
type Option func(*options)

type options struct {
	cfg      Config
	reporter metrics.Reporter
	local    string
	remote   string
}

// WithConfig 设置信道配置（零值字段保留默认）
func WithConfig(cfg Config) Option {
	return func(o *options) {
		if cfg.WriteTimeout > 0 {
			o.cfg.WriteTimeout = cfg.WriteTimeout
		}
		if cfg.FlushTimeout > 0 {
			o.cfg.FlushTimeout = cfg.FlushTimeout
		}
		if cfg.ReadBufferSize > 0 {
			o.cfg.ReadBufferSize = cfg.ReadBufferSize
		}
	}
}

// WithReporter 设置流量统计
func WithReporter(r metrics.Reporter) Option {
	return func(o *options) {
		o.reporter = r
	}
}

// WithAddrs 覆盖本端与对端地址（用于内存管道）
func WithAddrs(local, remote string) Option {
	return func(o *options) {
		o.local = local
		o.remote = remote
	}
}
