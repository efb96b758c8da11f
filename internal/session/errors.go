package session

import "errors"

var (
	// ErrUnexpectedMessage 当前状态不接受该消息
	ErrUnexpectedMessage = errors.New("session: unexpected message")

	// ErrOutOfTurn 对方在本方回合落子
	ErrOutOfTurn = errors.New("session: move out of turn")

	// ErrInvalidMove 对方的落子不在棋盘内或无法放置
	ErrInvalidMove = errors.New("session: invalid move")

	// ErrEnded 对局已结束
	ErrEnded = errors.New("session: ended")

	// ErrInvalidConfig 无效配置
	ErrInvalidConfig = errors.New("session: invalid config")
)
