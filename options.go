package duet

import (
	"fmt"
	"time"

	"go.uber.org/fx"

	"github.com/dep2p/go-duet/config"
	pkgif "github.com/dep2p/go-duet/pkg/interfaces"
)

// Option 配置选项
type Option func(*options) error

// options 内部选项结构
type options struct {
	// 基础配置（预设或用户提供）
	cfg *config.Config

	// 对局参数
	moves pkgif.MoveSource

	// 用户自定义 Fx 选项
	fxOpts []fx.Option
}

// newOptions 创建默认选项
func newOptions() *options {
	return &options{cfg: config.NewConfig()}
}

// ============================================================================
//                              配置选项
// ============================================================================

// WithPreset 使用预设配置作为基础
//
// 应放在其他选项之前，否则会覆盖它们。
//
// 示例:
//
//	duet.New(duet.WithPreset(duet.PresetMDNS))
func WithPreset(name string) Option {
	return func(o *options) error {
		cfg := GetConfigByPreset(name)
		if cfg == nil {
			return unknownPreset(name)
		}
		o.cfg = cfg
		return nil
	}
}

// WithConfig 使用完整配置作为基础
func WithConfig(cfg *config.Config) Option {
	return func(o *options) error {
		if cfg == nil {
			return fmt.Errorf("配置不能为空")
		}
		o.cfg = config.CloneConfig(cfg)
		return nil
	}
}

// WithPorts 设置发现使用的 UDP 端口和游戏 TCP 端口
func WithPorts(udpPort, tcpPort int) Option {
	return func(o *options) error {
		if udpPort < 0 || udpPort > 65535 {
			return fmt.Errorf("无效的 UDP 端口: %d", udpPort)
		}
		if tcpPort < 0 || tcpPort > 65535 {
			return fmt.Errorf("无效的 TCP 端口: %d", tcpPort)
		}
		o.cfg.Discovery.UDPPort = udpPort
		o.cfg.Discovery.TCPPort = tcpPort
		return nil
	}
}

// WithDiscovery 设置发现方式（broadcast 或 mdns）
func WithDiscovery(mode string) Option {
	return func(o *options) error {
		switch mode {
		case config.DiscoveryBroadcast, config.DiscoveryMDNS:
			o.cfg.Discovery.Mode = mode
			return nil
		default:
			return fmt.Errorf("未知的发现方式: %s", mode)
		}
	}
}

// WithCodec 设置线路编码（byte、json 或 proto）
func WithCodec(name string) Option {
	return func(o *options) error {
		o.cfg.Transport.Codec = name
		return nil
	}
}

// WithDirectServer 跳过发现，在 TCP 端口上等待一个客户端
func WithDirectServer(timeout time.Duration) Option {
	return func(o *options) error {
		o.cfg.Direct.Enabled = true
		o.cfg.Direct.Server = true
		if timeout > 0 {
			o.cfg.Direct.Timeout = config.Duration(timeout)
		}
		return nil
	}
}

// WithDirectClient 跳过发现，直接连接 host
func WithDirectClient(host string, timeout time.Duration) Option {
	return func(o *options) error {
		if host == "" {
			return fmt.Errorf("直连地址不能为空")
		}
		o.cfg.Direct.Enabled = true
		o.cfg.Direct.Server = false
		o.cfg.Direct.Host = host
		if timeout > 0 {
			o.cfg.Direct.Timeout = config.Duration(timeout)
		}
		return nil
	}
}

// WithLocal 与进程内对手对局
func WithLocal(enable bool) Option {
	return func(o *options) error {
		o.cfg.Session.Local = enable
		return nil
	}
}

// WithHeadless 无界面运行，自动邀请并接受
func WithHeadless(enable bool) Option {
	return func(o *options) error {
		o.cfg.Session.Headless = enable
		return nil
	}
}

// WithBoard 设置棋盘尺寸
func WithBoard(columns, rows int) Option {
	return func(o *options) error {
		o.cfg.Board.Columns = columns
		o.cfg.Board.Rows = rows
		return nil
	}
}

// WithMoveDelay 设置轮到本方后询问走法前的等待
func WithMoveDelay(d time.Duration) Option {
	return func(o *options) error {
		o.cfg.Session.MoveDelay = config.Duration(d)
		return nil
	}
}

// WithMoveSource 使用自定义走子来源
func WithMoveSource(ms pkgif.MoveSource) Option {
	return func(o *options) error {
		o.moves = ms
		return nil
	}
}

// ============================================================================
//                              日志选项
// ============================================================================

// WithLogFile 将日志输出重定向到指定文件
//
// 交互界面运行时应使用此选项，避免日志打乱画面。
// 文件以追加模式打开。
func WithLogFile(path string) Option {
	return func(o *options) error {
		if path == "" {
			return fmt.Errorf("日志文件路径不能为空")
		}
		o.cfg.Log.File = path
		return nil
	}
}

// WithVerbose 输出 debug 日志和 Fx 启动日志
func WithVerbose(enable bool) Option {
	return func(o *options) error {
		o.cfg.Log.Verbose = enable
		return nil
	}
}

// ============================================================================
//                              扩展选项
// ============================================================================

// WithFxOptions 追加 Fx 选项
func WithFxOptions(opts ...fx.Option) Option {
	return func(o *options) error {
		o.fxOpts = append(o.fxOpts, opts...)
		return nil
	}
}
