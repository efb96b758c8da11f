// Package channel 实现基于字节流的非阻塞消息信道
//
// Conn 包装一个 net.Conn（TCP 或内存管道）：
//
//   - 后台读协程把原始字节追加到入站缓冲
//   - Pump 在轮询线程中解码完整帧，并以短写超时写出待发送字节
//   - Send 只编码并排队，从不阻塞在套接字上
//   - Close 做一次有上限的尽力写出，然后关闭连接
//
// 对端关闭后，已解码的消息仍可通过 Receive 取出；
// 解码错误视为协议违规，信道标记为失败并关闭。
package channel
