// Package interfaces 定义 duet 的公共接口
//
// 接口与实现一一对应（一个接口文件 = 一个实现目录）：
//   - channel.go  - 双向消息信道（internal/core/channel）
//   - beacon.go   - 局域网广告信标（internal/discovery/broadcast, internal/discovery/mdns）
//   - board.go    - 棋盘与走子来源（由宿主应用提供，internal/demo 为示例实现）
//   - eventbus.go - 事件总线（internal/core/eventbus）
//
// 上层模块只依赖本包中的接口，具体实现通过 Fx 注入或构造参数传入。
package interfaces
