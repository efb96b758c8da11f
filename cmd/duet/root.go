package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dep2p/go-duet"
	"github.com/dep2p/go-duet/config"
	"github.com/dep2p/go-duet/internal/tui"
	"github.com/dep2p/go-duet/internal/util/logger"
)

var log = logger.Logger("cmd")

// exitCode run 结束后的进程退出码
var exitCode int

func newRootCmd() *cobra.Command {
	var configFile string

	cmd := &cobra.Command{
		Use:   "duet",
		Short: "Find an opponent on the LAN and take turns",
		Long: `duet finds another player on the local network, decides who goes first
without a server, and keeps both boards in sync move by move.`,
		Version:       duet.VersionInfo(),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			v, err := newViper()
			if err != nil {
				return err
			}
			cfg, err := loadConfig(v, cmd, configFile)
			if err != nil {
				return fmt.Errorf("配置错误: %w", err)
			}
			return run(cmd.Context(), cfg)
		},
	}

	defaults := config.NewConfig()
	f := cmd.Flags()
	f.StringVar(&configFile, "config", "", "配置文件路径（json/yaml/toml）")
	f.String("transport", defaults.Transport.Codec, "线路编码 (byte/json/proto)")
	f.Int("udp-port", defaults.Discovery.UDPPort, "发现广播 UDP 端口")
	f.Int("tcp-port", defaults.Discovery.TCPPort, "对局 TCP 端口")
	f.String("discovery", defaults.Discovery.Mode, "发现方式 (broadcast/mdns)")
	f.Bool("direct", false, "跳过发现，直接连接")
	f.Bool("server", false, "直连模式下作为服务端等待")
	f.String("connect", "", "直连服务端地址")
	f.Int("columns", defaults.Board.Columns, "棋盘列数")
	f.Int("rows", defaults.Board.Rows, "棋盘行数")
	f.BoolP("verbose", "v", false, "输出调试日志")
	f.String("log-file", "", "日志文件路径（界面模式下建议设置）")
	f.Bool("headless", false, "无界面运行，自动邀请并接受")
	f.Bool("local", false, "与本地对手对局")

	return cmd
}

// Execute 运行命令，返回进程退出码
func Execute() (int, error) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	exitCode = 0
	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		return duet.ExitError, err
	}
	return exitCode, nil
}

func run(ctx context.Context, cfg *config.Config) error {
	opts := []duet.Option{duet.WithConfig(cfg)}

	var picker *tui.Picker
	if !cfg.Session.Headless {
		// 界面占用终端，日志写入文件
		if cfg.Log.File == "" {
			cfg.Log.File = filepath.Join(os.TempDir(), "duet.log")
		}
		picker = tui.NewPicker()
		opts = append(opts, duet.WithMoveSource(picker))
	}

	p, err := duet.Start(ctx, opts...)
	if err != nil {
		return err
	}
	defer func() {
		if err := p.Close(); err != nil {
			log.Warn("关闭失败", "err", err)
		}
	}()

	if cfg.Session.Headless {
		code, err := p.Run(ctx)
		exitCode = code
		if err != nil {
			log.Warn("对局结束", "exit", code, "err", err)
		}
		return nil
	}

	if err := tui.Run(ctx, p, picker, cfg.Transport.XferInterval.Duration()); err != nil {
		return err
	}
	exitCode = p.ExitCode()
	if err := p.Err(); err != nil {
		fmt.Fprintln(os.Stderr, p.Status())
	}
	return nil
}
