package session

import (
	"fmt"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/dep2p/go-duet/config"
	"github.com/dep2p/go-duet/internal/core/eventbus"
	pkgif "github.com/dep2p/go-duet/pkg/interfaces"
)

// Config 会话配置
type Config struct {
	// MoveDelay 轮到本方后等待多久再询问走法
	MoveDelay time.Duration
}

// DefaultConfig 返回默认配置
func DefaultConfig() Config {
	return Config{MoveDelay: 250 * time.Millisecond}
}

// Validate 验证配置
func (c Config) Validate() error {
	if c.MoveDelay < 0 {
		return fmt.Errorf("%w: negative move delay", ErrInvalidConfig)
	}
	return nil
}

// ConfigFromUnified 从统一配置创建会话配置
func ConfigFromUnified(cfg *config.Config) Config {
	c := DefaultConfig()
	if cfg == nil {
		return c
	}
	c.MoveDelay = cfg.Session.MoveDelay.Duration()
	return c
}

// Option 会话选项
type Option func(*Session)

// WithConfig 设置配置
func WithConfig(cfg Config) Option {
	return func(s *Session) {
		s.cfg = cfg
	}
}

// WithClock 替换时钟（测试用 clock.NewMock）
func WithClock(clk clock.Clock) Option {
	return func(s *Session) {
		s.clock = clk
	}
}

// WithEventBus 设置事件总线
func WithEventBus(bus pkgif.EventBus) Option {
	return func(s *Session) {
		s.publisher = eventbus.NewPublisher(bus)
	}
}
