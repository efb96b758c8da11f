package app

import (
	"go.uber.org/fx"

	pkgif "github.com/dep2p/go-duet/pkg/interfaces"
)

// Option 应用选项
type Option func(*options)

type options struct {
	moves  pkgif.MoveSource
	fxOpts []fx.Option
}

// WithMoveSource 使用自定义走子来源（例如界面输入）
func WithMoveSource(ms pkgif.MoveSource) Option {
	return func(o *options) {
		o.moves = ms
	}
}

// WithFxOptions 追加 Fx 选项
func WithFxOptions(opts ...fx.Option) Option {
	return func(o *options) {
		o.fxOpts = append(o.fxOpts, opts...)
	}
}
