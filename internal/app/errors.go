package app

import "errors"

// 退出码
const (
	// ExitOK 正常结束
	ExitOK = 0

	// ExitError 对局出错
	ExitError = 1

	// ExitNoChannel 未能建立对局信道
	ExitNoChannel = 5
)

var (
	// ErrNoJoinMode 缺少会合控制器且未启用直连或本地模式
	ErrNoJoinMode = errors.New("app: no way to find an opponent")

	// ErrCancelled 操作者在建立信道前退出
	ErrCancelled = errors.New("app: cancelled before a channel was selected")

	// ErrNotJoining 当前阶段不能邀请
	ErrNotJoining = errors.New("app: not joining")
)
