package rendezvous

import (
	"errors"

	"github.com/dep2p/go-duet/internal/core/wire"
)

var (
	// ErrUnknownCandidate 候选不存在
	ErrUnknownCandidate = errors.New("rendezvous: unknown candidate")

	// ErrNotInvitable 候选尚未识别或已邀请过
	ErrNotInvitable = errors.New("rendezvous: candidate cannot be invited")

	// ErrAlreadySelected 已选定信道
	ErrAlreadySelected = errors.New("rendezvous: already selected")

	// ErrUnexpectedMessage 会合阶段收到 Identify/Join 以外的消息
	ErrUnexpectedMessage = errors.New("rendezvous: unexpected message")

	// ErrCancelled 操作者已取消
	ErrCancelled = errors.New("rendezvous: cancelled")
)

// UnexpectedMessageError 会合阶段收到的非法消息
type UnexpectedMessageError struct {
	Kind wire.Kind
}

// Error 实现 error 接口
func (e *UnexpectedMessageError) Error() string {
	return "rendezvous: unexpected message " + e.Kind.String()
}

// Unwrap 返回 ErrUnexpectedMessage
func (e *UnexpectedMessageError) Unwrap() error {
	return ErrUnexpectedMessage
}
