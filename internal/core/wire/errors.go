package wire

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownCodec 未知编码名称
	ErrUnknownCodec = errors.New("wire: unknown codec")

	// ErrUnknownOpcode 未知操作码或消息类型
	ErrUnknownOpcode = errors.New("wire: unknown opcode")

	// ErrMalformed 帧内容格式错误
	ErrMalformed = errors.New("wire: malformed frame")

	// ErrFrameTooLarge 帧长度超过上限
	ErrFrameTooLarge = errors.New("wire: frame too large")

	// ErrFieldOverflow 字段超出编码范围
	ErrFieldOverflow = errors.New("wire: field overflow")

	// ErrNilMessage 空消息
	ErrNilMessage = errors.New("wire: nil message")
)

// DecodeError 解码错误
type DecodeError struct {
	Codec string
	Err   error
}

// Error 实现 error 接口
func (e *DecodeError) Error() string {
	return fmt.Sprintf("wire: %s decode: %v", e.Codec, e.Err)
}

// Unwrap 返回底层错误
func (e *DecodeError) Unwrap() error {
	return e.Err
}

func decodeErr(codec string, err error) error {
	return &DecodeError{Codec: codec, Err: err}
}
