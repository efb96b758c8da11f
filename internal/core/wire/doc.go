// Package wire 定义对局协议消息及其线上编码
//
// 消息是封闭的标签联合：Identify、Join、PickIdentity、Move、Quit。
// 三种编码在编译期注册到编解码表（Lookup）：
//
//   - json  - 4 字节大端长度前缀 + JSON 对象
//   - byte  - 1 字节操作码 + 定长负载（最紧凑，决胜数 ≤ 255）
//   - proto - uvarint 长度前缀 + protobuf 线格式字段
//
// 双方必须使用同一编码；编码只在建立信道前选定一次。
//
// Decode 遇到不完整的帧时返回 (nil, 0, nil)，调用方保留缓冲等待更多数据。
package wire
