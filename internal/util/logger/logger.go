// Package logger 提供 duet 的统一日志系统
//
// 基于标准库 log/slog，支持：
//   - 按子系统配置日志级别
//   - 环境变量配置（DUET_LOG_LEVEL, DUET_LOG_FORMAT）
//   - 运行时切换输出目标（TUI 模式下写入日志文件）
//
// 使用示例:
//
//	var log = logger.Logger("rendezvous")
//
//	log.Info("候选连接已就绪", "remote", addr)
//	log.Debug("收到消息", "kind", msg.Kind())
package logger

import (
	"io"
	"log/slog"
	"strings"
	"sync"
)

var (
	// loggers 缓存各子系统的 Logger
	loggers sync.Map // map[string]*slog.Logger

	// handlers 缓存各子系统的 Handler（用于动态调整级别）
	handlers sync.Map // map[string]*subsystemHandler
)

// Logger 获取指定子系统的 Logger
//
// 同一子系统多次调用返回相同的 Logger 实例。
func Logger(subsystem string) *slog.Logger {
	if l, ok := loggers.Load(subsystem); ok {
		return l.(*slog.Logger)
	}

	cfg := ConfigFromEnv()
	handler := newHandler(subsystem, cfg.LevelForSubsystem(subsystem), cfg)

	actual, loaded := loggers.LoadOrStore(subsystem, slog.New(handler))
	if !loaded {
		handlers.Store(subsystem, handler)
	}
	return actual.(*slog.Logger)
}

// SetLevel 动态设置子系统的日志级别
func SetLevel(subsystem string, level slog.Level) {
	if h, ok := handlers.Load(subsystem); ok {
		h.(*subsystemHandler).level.Set(level)
	}
}

// SetGlobalLevel 设置所有已创建子系统的日志级别
//
// 命令行 -v 使用此函数把所有子系统切到 debug。
func SetGlobalLevel(level slog.Level) {
	cfg := ConfigFromEnv()
	configMu.Lock()
	cfg.DefaultLevel = level
	configMu.Unlock()

	handlers.Range(func(_, value any) bool {
		value.(*subsystemHandler).level.Set(level)
		return true
	})
}

// SetOutput 设置全局日志输出目标
//
// 已创建的 Logger 同样会被重定向。
func SetOutput(w io.Writer) {
	globalOutputMu.Lock()
	globalOutput = w
	globalOutputMu.Unlock()
}

// SetFormat 设置全局输出格式
//
// 已创建的 Logger 同样会切换。
func SetFormat(f LogFormat) {
	formatOverride.Store(int32(f))
}

// ParseFormat 解析格式名称，未知名称返回 FormatText
func ParseFormat(name string) LogFormat {
	if strings.EqualFold(strings.TrimSpace(name), "json") {
		return FormatJSON
	}
	return FormatText
}

// Discard 返回一个丢弃所有日志的 Logger（主要用于测试）
func Discard() *slog.Logger {
	return slog.New(discardHandler{})
}
