package arbiter

import (
	"errors"
	"fmt"

	"github.com/dep2p/go-duet/internal/core/wire"
	"github.com/dep2p/go-duet/pkg/types"
)

var (
	// ErrCollision 身份或决胜数相同
	ErrCollision = errors.New("arbiter: pick values collide")

	// ErrTooManyCollisions 冲突次数超过上限
	ErrTooManyCollisions = errors.New("arbiter: too many collisions")

	// ErrOpponentQuit 对方在仲裁期间退出
	ErrOpponentQuit = errors.New("arbiter: opponent quit")

	// ErrChannelClosed 信道在仲裁完成前关闭
	ErrChannelClosed = errors.New("arbiter: channel closed")

	// ErrUnexpectedMessage 仲裁期间收到 PickIdentity/Quit 以外的消息
	ErrUnexpectedMessage = errors.New("arbiter: unexpected message")

	// ErrNotStarted 尚未调用 Start
	ErrNotStarted = errors.New("arbiter: not started")

	// ErrInvalidConfig 无效配置
	ErrInvalidConfig = errors.New("arbiter: invalid config")
)

func unexpected(msg wire.Message) error {
	return fmt.Errorf("%w: %s", ErrUnexpectedMessage, wire.Describe(msg))
}

func invalidPick(v types.PickValue) error {
	return fmt.Errorf("%w: pick %s out of range", ErrUnexpectedMessage, v.String())
}
