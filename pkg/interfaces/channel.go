package interfaces

import (
	"github.com/dep2p/go-duet/internal/core/wire"
)

// Channel 定义双向、有序、按帧传输的消息信道
//
// 所有方法都不会阻塞在网络上：入站数据由后台读协程缓冲，
// Pump 在轮询线程中解码完整帧并写出待发送数据。
type Channel interface {
	// RemoteAddr 返回对端地址（ip:port）
	RemoteAddr() string

	// LocalAddr 返回本端地址（ip:port）
	LocalAddr() string

	// Pump 解码已缓冲的入站帧并写出待发送字节（非阻塞）
	Pump() error

	// Receive 取出下一条已解码的消息
	Receive() (wire.Message, bool)

	// Send 编码并排队一条消息
	Send(msg wire.Message) error

	// Closed 信道是否已关闭
	Closed() bool

	// Err 返回导致信道失败的错误（正常关闭返回 nil）
	Err() error

	// Close 尽力写出待发送数据后关闭信道（幂等）
	Close() error
}
