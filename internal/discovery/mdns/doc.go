// Package mdns 提供基于 mDNS 的局域网信标
//
// 每个进程注册一个 _duet._tcp 服务实例，端口为接受连接的 TCP 端口，
// TXT 记录携带 nonce=<进程标识>。Listen 周期性查询同类服务，
// 对每个外部实例回调一次 Sighting（去重由发现服务负责）。
package mdns
