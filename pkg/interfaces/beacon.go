package interfaces

import (
	"context"
	"net"
)

// Sighting 一次来自其他进程的广告
type Sighting struct {
	// IP 广告来源地址
	IP net.IP

	// Port 对方监听的 TCP 端口
	Port int

	// Nonce 对方进程的随机标识
	Nonce string
}

// Beacon 定义局域网广告信标接口
//
// 信标只负责“让别人知道我在”和“知道别人在”，连接由发现服务建立。
type Beacon interface {
	// Nonce 返回本进程的随机标识，用于过滤自身广告
	Nonce() string

	// Announce 周期性发布广告，直到 ctx 取消或出错
	Announce(ctx context.Context) error

	// Listen 监听其他进程的广告，每个外部广告回调一次
	Listen(ctx context.Context, found func(Sighting)) error

	// Close 关闭信标持有的套接字
	Close() error
}
