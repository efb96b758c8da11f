// Package broadcast 实现基于 UDP 广播的局域网信标
//
// 广告数据报格式（ASCII）：
//
//	DUET/1 <nonce> <tcpPort>
//
// nonce 是进程启动时生成的 UUID，用于过滤自身广告；
// tcpPort 让同一主机上的多个进程可以使用不同的接受端口。
// 监听套接字设置 SO_REUSEADDR/SO_REUSEPORT，多个进程可共享 UDP 端口。
package broadcast
