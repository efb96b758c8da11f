package direct

import "errors"

var (
	// ErrConnectFailed 连接失败或超时
	ErrConnectFailed = errors.New("direct: connect failed")

	// ErrNoClient 超时前没有客户端连入
	ErrNoClient = errors.New("direct: no client")

	// ErrListenFailed 无法监听端口
	ErrListenFailed = errors.New("direct: listen failed")

	// ErrCancelled 调用被取消
	ErrCancelled = errors.New("direct: cancelled")
)
