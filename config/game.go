package config

import (
	"errors"
	"time"
)

// ArbiterConfig 仲裁配置
type ArbiterConfig struct {
	// Identities 可选身份，每个字符一个身份
	Identities string `json:"identities" mapstructure:"identities"`

	// MaxAttempts 碰撞重试上限
	MaxAttempts int `json:"max_attempts" mapstructure:"max_attempts"`
}

// DefaultArbiterConfig 返回默认仲裁配置
func DefaultArbiterConfig() ArbiterConfig {
	return ArbiterConfig{
		Identities:  "rgb",
		MaxAttempts: 16,
	}
}

// Validate 验证仲裁配置
func (c ArbiterConfig) Validate() error {
	if len(c.Identities) < 2 {
		return errors.New("arbiter needs at least two identities")
	}
	seen := make(map[byte]bool, len(c.Identities))
	for i := 0; i < len(c.Identities); i++ {
		b := c.Identities[i]
		if b < 0x21 || b > 0x7e {
			return errors.New("identities must be printable ASCII")
		}
		if seen[b] {
			return errors.New("identities must be distinct")
		}
		seen[b] = true
	}
	if c.MaxAttempts <= 0 {
		return errors.New("max attempts must be positive")
	}
	return nil
}

// SessionConfig 回合同步配置
type SessionConfig struct {
	// MoveDelay 轮到本方后等待多久再询问走法
	MoveDelay Duration `json:"move_delay" mapstructure:"move_delay"`

	// Local 与本地对手对局，不经过网络
	Local bool `json:"local" mapstructure:"local"`

	// Headless 无界面运行：自动邀请并接受第一个可邀请的候选
	Headless bool `json:"headless" mapstructure:"headless"`
}

// DefaultSessionConfig 返回默认会话配置
func DefaultSessionConfig() SessionConfig {
	return SessionConfig{
		MoveDelay: Duration(250 * time.Millisecond),
	}
}

// Validate 验证会话配置
func (c SessionConfig) Validate() error {
	if c.MoveDelay < 0 {
		return errors.New("move delay must be non-negative")
	}
	return nil
}

// BoardConfig 棋盘配置
type BoardConfig struct {
	// Columns 列数
	Columns int `json:"columns" mapstructure:"columns"`

	// Rows 行数
	Rows int `json:"rows" mapstructure:"rows"`
}

// DefaultBoardConfig 返回默认棋盘配置
func DefaultBoardConfig() BoardConfig {
	return BoardConfig{Columns: 7, Rows: 9}
}

// Validate 验证棋盘配置
func (c BoardConfig) Validate() error {
	if c.Columns <= 0 || c.Rows <= 0 {
		return errors.New("board dimensions must be positive")
	}
	if c.Columns > 256 || c.Rows > 256 {
		return errors.New("board dimensions must fit in a byte")
	}
	return nil
}
