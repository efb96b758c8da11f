package duet

import (
	"errors"

	"github.com/dep2p/go-duet/internal/app"
	"github.com/dep2p/go-duet/internal/arbiter"
	"github.com/dep2p/go-duet/internal/core/channel"
	"github.com/dep2p/go-duet/internal/discovery"
	"github.com/dep2p/go-duet/internal/discovery/direct"
	"github.com/dep2p/go-duet/internal/rendezvous"
	"github.com/dep2p/go-duet/internal/session"
)

// 公共错误定义
var (
	// ────────────────────────────────────────────────────────────────────────
	// 生命周期错误
	// ────────────────────────────────────────────────────────────────────────

	// ErrNotStarted 未启动
	ErrNotStarted = errors.New("duet: not started")

	// ErrAlreadyStarted 已启动
	ErrAlreadyStarted = app.ErrAlreadyStarted

	// ErrClosed 已关闭
	ErrClosed = app.ErrStopped

	// ErrCancelled 建立信道前被取消
	ErrCancelled = app.ErrCancelled

	// ────────────────────────────────────────────────────────────────────────
	// 连接错误
	// ────────────────────────────────────────────────────────────────────────

	// ErrDiscoveryTimeout 发现协程未在超时内退出
	ErrDiscoveryTimeout = discovery.ErrDiscoveryTimeout

	// ErrConnectFailed 直连失败或超时
	ErrConnectFailed = direct.ErrConnectFailed

	// ErrNoClient 直连服务端超时前没有客户端
	ErrNoClient = direct.ErrNoClient

	// ErrChannelClosed 信道已关闭
	ErrChannelClosed = channel.ErrChannelClosed

	// ────────────────────────────────────────────────────────────────────────
	// 协议错误
	// ────────────────────────────────────────────────────────────────────────

	// ErrProtocolCollision 仲裁取值反复冲突
	ErrProtocolCollision = arbiter.ErrTooManyCollisions

	// ErrUnexpectedMessage 对手发送了当前阶段不允许的消息
	ErrUnexpectedMessage = errors.New("duet: unexpected message")
)

// IsUnexpectedMessage 判断错误是否源于任一阶段的意外消息
func IsUnexpectedMessage(err error) bool {
	return errors.Is(err, ErrUnexpectedMessage) ||
		errors.Is(err, rendezvous.ErrUnexpectedMessage) ||
		errors.Is(err, arbiter.ErrUnexpectedMessage) ||
		errors.Is(err, session.ErrUnexpectedMessage)
}

// IsChannelClosed 判断错误是否表示信道已关闭
func IsChannelClosed(err error) bool {
	return errors.Is(err, ErrChannelClosed) || errors.Is(err, arbiter.ErrChannelClosed)
}
