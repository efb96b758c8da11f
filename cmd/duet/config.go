package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dep2p/go-duet/config"
)

// envPrefix 环境变量前缀，例如 DUET_DISCOVERY_UDP_PORT
const envPrefix = "DUET"

// flagKeys 命令行参数到配置键的映射
var flagKeys = map[string]string{
	"transport": "transport.codec",
	"udp-port":  "discovery.udp_port",
	"tcp-port":  "discovery.tcp_port",
	"discovery": "discovery.mode",
	"direct":    "direct.enabled",
	"server":    "direct.server",
	"connect":   "direct.host",
	"columns":   "board.columns",
	"rows":      "board.rows",
	"verbose":   "log.verbose",
	"log-file":  "log.file",
	"headless":  "session.headless",
	"local":     "session.local",
}

// extraEnvKeys 默认值为空、需要显式登记才能从环境变量读取的键
var extraEnvKeys = []string{
	"discovery.broadcast_addr",
	"direct.timeout",
}

// newViper 创建以默认配置为底的 viper 实例
func newViper() (*viper.Viper, error) {
	v := viper.New()

	defaults, err := defaultsMap(config.NewConfig())
	if err != nil {
		return nil, err
	}
	setDefaults(v, "", defaults)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, k := range extraEnvKeys {
		if err := v.BindEnv(k); err != nil {
			return nil, err
		}
	}
	return v, nil
}

// loadConfig 合并默认值、配置文件、环境变量和命令行参数
//
// 优先级：命令行 > 环境变量 > 配置文件 > 默认值。
func loadConfig(v *viper.Viper, cmd *cobra.Command, file string) (*config.Config, error) {
	for name, key := range flagKeys {
		if f := cmd.Flags().Lookup(name); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return nil, err
			}
		}
	}

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", file, err)
		}
	}

	cfg := config.NewConfig()
	if err := v.Unmarshal(cfg, viper.DecodeHook(config.DecodeHook)); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	// --connect 隐含直连客户端
	if cfg.Direct.Host != "" && !cfg.Direct.Server {
		cfg.Direct.Enabled = true
	}
	if cfg.Direct.Server {
		cfg.Direct.Enabled = true
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func defaultsMap(cfg *config.Config) (map[string]any, error) {
	data, err := json.Marshal(cfg)
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return m, nil
}

func setDefaults(v *viper.Viper, prefix string, m map[string]any) {
	for k, val := range m {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		if sub, ok := val.(map[string]any); ok {
			setDefaults(v, key, sub)
			continue
		}
		v.SetDefault(key, val)
	}
}
