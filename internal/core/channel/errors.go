package channel

import "errors"

var (
	// ErrChannelClosed 信道已关闭
	ErrChannelClosed = errors.New("channel: closed")

	// ErrNilConn 连接为空
	ErrNilConn = errors.New("channel: nil conn")
)
