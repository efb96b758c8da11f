package arbiter

import (
	"fmt"
	"math/rand/v2"
	"slices"

	"github.com/dep2p/go-duet/config"
	"github.com/dep2p/go-duet/pkg/types"
)

// Config 仲裁配置
type Config struct {
	// Identities 可选身份
	Identities []types.Identity

	// MaxTiebreak 决胜数上限（含），受编码限制
	MaxTiebreak int

	// MaxAttempts 冲突重试上限
	MaxAttempts int
}

// DefaultConfig 返回默认配置
func DefaultConfig() Config {
	return Config{
		Identities:  types.DefaultIdentities,
		MaxTiebreak: 255,
		MaxAttempts: 16,
	}
}

// Validate 验证配置
func (c Config) Validate() error {
	if len(c.Identities) < 2 {
		return fmt.Errorf("%w: need at least two identities", ErrInvalidConfig)
	}
	if c.MaxTiebreak < 1 {
		return fmt.Errorf("%w: max tiebreak must be positive", ErrInvalidConfig)
	}
	if c.MaxAttempts < 1 {
		return fmt.Errorf("%w: max attempts must be positive", ErrInvalidConfig)
	}
	return nil
}

// Accepts 取值的身份在可选范围内且决胜数在 [0, MaxTiebreak] 内
func (c Config) Accepts(v types.PickValue) bool {
	return slices.Contains(c.Identities, v.Identity) && v.Tiebreak >= 0 && v.Tiebreak <= c.MaxTiebreak
}

// ConfigFromUnified 从统一配置创建仲裁配置
//
// maxTiebreak 取自所用编码的 MaxTiebreak。
func ConfigFromUnified(cfg *config.Config, maxTiebreak int) Config {
	c := DefaultConfig()
	if maxTiebreak > 0 {
		c.MaxTiebreak = maxTiebreak
	}
	if cfg == nil {
		return c
	}
	if cfg.Arbiter.MaxAttempts > 0 {
		c.MaxAttempts = cfg.Arbiter.MaxAttempts
	}
	if ids := cfg.Arbiter.Identities; ids != "" {
		c.Identities = make([]types.Identity, 0, len(ids))
		for i := 0; i < len(ids); i++ {
			c.Identities = append(c.Identities, types.Identity(ids[i]))
		}
	}
	return c
}

// Picker 产生一次仲裁取值
type Picker func() types.PickValue

// RandomPicker 均匀随机选择身份和 [0, maxTiebreak] 内的决胜数
func RandomPicker(identities []types.Identity, maxTiebreak int) Picker {
	return func() types.PickValue {
		return types.PickValue{
			Identity: identities[rand.IntN(len(identities))],
			Tiebreak: rand.IntN(maxTiebreak + 1),
		}
	}
}
