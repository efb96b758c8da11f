package types

import "errors"

var (
	// ErrInvalidIdentity 无效的身份
	ErrInvalidIdentity = errors.New("invalid identity")

	// ErrInvalidGrid 无效的棋盘尺寸
	ErrInvalidGrid = errors.New("invalid grid")
)
