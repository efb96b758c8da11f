package duet

import (
	"io"
	"log/slog"
	"os"

	"github.com/dep2p/go-duet/config"
	"github.com/dep2p/go-duet/internal/util/logger"
)

// ApplyLogConfig 按配置设置日志级别、格式和输出
//
// 返回的 Closer 关闭日志文件；未配置文件时为 nil。
func ApplyLogConfig(cfg config.LogConfig) (io.Closer, error) {
	level, ok := logger.ParseLevel(cfg.Level)
	if !ok {
		level = slog.LevelInfo
	}
	if cfg.Verbose {
		level = slog.LevelDebug
	}
	logger.SetGlobalLevel(level)
	logger.SetFormat(logger.ParseFormat(cfg.Format))

	if cfg.File == "" {
		return nil, nil
	}
	f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}
	logger.SetOutput(f)
	return &logFile{f: f}, nil
}

type logFile struct {
	f *os.File
}

// Close 恢复 stderr 输出后关闭文件
func (l *logFile) Close() error {
	logger.SetOutput(os.Stderr)
	return l.f.Close()
}
