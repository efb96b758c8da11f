// Package config 提供统一的配置管理
//
// 本包采用混合配置模式：
//   - 主 Config 结构体嵌入所有子配置
//   - 每个子配置在独立文件中定义
//   - 支持从 JSON 加载和保存配置
//   - 通过 mapstructure 标签供 viper 解码
//
// 使用示例：
//
//	// 创建默认配置
//	cfg := config.NewConfig()
//	cfg.Transport.Codec = "byte"
//	cfg.Discovery.Mode = config.DiscoveryMDNS
//
//	// 从 JSON 加载
//	cfg, err := config.FromJSON(data)
package config

// 默认端口
const (
	// DefaultUDPPort 广告使用的 UDP 端口
	DefaultUDPPort = 8222

	// DefaultTCPPort 对局连接使用的 TCP 端口
	DefaultTCPPort = 8223
)

// Config 是 duet 的完整配置结构
//
// 配置按照功能模块组织：
//   - Discovery: 局域网发现（广播/mDNS）
//   - Direct: 直连模式
//   - Transport: 编码与信道
//   - Arbiter: 先手与身份仲裁
//   - Session: 回合同步
//   - Board: 棋盘尺寸
//   - Log: 日志
//   - Metrics: 带宽统计
type Config struct {
	// Discovery 发现配置
	Discovery DiscoveryConfig `json:"discovery" mapstructure:"discovery"`

	// Direct 直连配置
	Direct DirectConfig `json:"direct" mapstructure:"direct"`

	// Transport 传输配置
	Transport TransportConfig `json:"transport" mapstructure:"transport"`

	// Arbiter 仲裁配置
	Arbiter ArbiterConfig `json:"arbiter" mapstructure:"arbiter"`

	// Session 会话配置
	Session SessionConfig `json:"session" mapstructure:"session"`

	// Board 棋盘配置
	Board BoardConfig `json:"board" mapstructure:"board"`

	// Log 日志配置
	Log LogConfig `json:"log" mapstructure:"log"`

	// Metrics 带宽统计配置
	Metrics MetricsConfig `json:"metrics" mapstructure:"metrics"`
}

// NewConfig 创建默认配置
func NewConfig() *Config {
	return &Config{
		Discovery: DefaultDiscoveryConfig(),
		Direct:    DefaultDirectConfig(),
		Transport: DefaultTransportConfig(),
		Arbiter:   DefaultArbiterConfig(),
		Session:   DefaultSessionConfig(),
		Board:     DefaultBoardConfig(),
		Log:       DefaultLogConfig(),
		Metrics:   DefaultMetricsConfig(),
	}
}

// Validate 验证配置的有效性
func (c *Config) Validate() error {
	if err := c.Discovery.Validate(); err != nil {
		return err
	}
	if err := c.Direct.Validate(); err != nil {
		return err
	}
	if err := c.Transport.Validate(); err != nil {
		return err
	}
	if err := c.Arbiter.Validate(); err != nil {
		return err
	}
	if err := c.Session.Validate(); err != nil {
		return err
	}
	if err := c.Board.Validate(); err != nil {
		return err
	}
	return c.Log.Validate()
}
