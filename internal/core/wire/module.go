package wire

import (
	"go.uber.org/fx"

	"github.com/dep2p/go-duet/config"
)

// Module 提供配置选定的编码
var Module = fx.Module("wire",
	fx.Provide(ProvideCodec),
)

// CodecParams 编码依赖
type CodecParams struct {
	fx.In

	UnifiedCfg *config.Config `optional:"true"`
}

// ProvideCodec 按配置查找编码，未配置时使用 DefaultCodec
func ProvideCodec(p CodecParams) (Codec, error) {
	name := DefaultCodec
	if p.UnifiedCfg != nil && p.UnifiedCfg.Transport.Codec != "" {
		name = p.UnifiedCfg.Transport.Codec
	}
	return Lookup(name)
}
