// Package discovery 实现局域网会合用的发现服务
//
// Service 同时做三件事：
//
//   - 通过 Beacon 周期性广告本进程（broadcast 或 mdns）
//   - 监听其他进程的广告，对每个新对端发起一次 TCP 连接
//   - 在 TCPPort 上接受其他进程发起的连接
//
// 每条成功建立的连接都成为一个 channel.Conn，放入交接队列，
// 由会合控制器在轮询线程中通过 Drain 取走。后台协程的错误不会跨协程抛出，
// 而是记录在 Faults 中并作为 EvtDiscoveryFault 事件发出。
//
// 生命周期：
//
//	svc.Start(ctx)       // 启动广告、监听、接受
//	svc.Stop()           // 选定信道后：停止广告和监听，接受继续
//	svc.Join(timeout)    // 关闭接受并等待所有协程退出
package discovery
