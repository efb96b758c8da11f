package session

import (
	"errors"
	"sync"

	"github.com/dep2p/go-duet/internal/core/wire"
	pkgif "github.com/dep2p/go-duet/pkg/interfaces"
	"github.com/dep2p/go-duet/pkg/types"
)

// Link 会话与对手之间的消息链路
type Link interface {
	Send(msg wire.Message) error
	Pump() error
	Receive() (wire.Message, bool)
	Closed() bool
	Err() error
	Close() error
}

// ============================================================================
//                              NetworkLink
// ============================================================================

// NetworkLink 基于信道的链路
type NetworkLink struct {
	pkgif.Channel
}

// NewNetworkLink 包装选定的信道
func NewNetworkLink(ch pkgif.Channel) *NetworkLink {
	return &NetworkLink{Channel: ch}
}

// ============================================================================
//                              LocalLink
// ============================================================================

// LocalLink 进程内对手
//
// 对手拥有自己视角的棋盘，收到的 Move 先旋转再落子；
// 它发出的 Move 也是它自己的视角，由会话照常旋转。
type LocalLink struct {
	board    pkgif.Board
	moves    pkgif.MoveSource
	identity types.Identity
	opponent types.Identity

	mu     sync.Mutex
	inbox  []wire.Message
	myTurn bool
	closed bool
	err    error
}

var _ Link = (*LocalLink)(nil)

// NewLocalLink 创建本地对手
//
// result 是会话一方的仲裁结果；对手使用 result.Remote，
// 并在 result.FirstMover 为 SideRemote 时先走。
func NewLocalLink(board pkgif.Board, moves pkgif.MoveSource, result types.Arbitration) *LocalLink {
	return &LocalLink{
		board:    board,
		moves:    moves,
		identity: result.Remote,
		opponent: result.Local,
		myTurn:   result.FirstMover == types.SideRemote,
	}
}

// Send 接收会话发来的消息
func (l *LocalLink) Send(msg wire.Message) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return ErrEnded
	}
	switch m := msg.(type) {
	case *wire.Move:
		cell := l.board.Grid().Rotate(m.Cell)
		if err := l.board.Place(cell, l.opponent); err != nil {
			l.closeWith(err)
			return nil
		}
		l.myTurn = true
	case *wire.Quit:
		l.closed = true
	}
	return nil
}

// Pump 轮到对手时向走子来源要一步
func (l *LocalLink) Pump() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed || !l.myTurn {
		return nil
	}

	cell, ready, err := l.moves.NextMove(l.board)
	switch {
	case errors.Is(err, pkgif.ErrNoMoveAvailable):
		l.inbox = append(l.inbox, &wire.Quit{})
		l.closed = true
		return nil
	case err != nil:
		l.closeWith(err)
		return nil
	case !ready:
		return nil
	}

	if err := l.board.Place(cell, l.identity); err != nil {
		l.closeWith(err)
		return nil
	}
	l.inbox = append(l.inbox, &wire.Move{Cell: cell})
	l.myTurn = false
	return nil
}

// Receive 取出对手发来的消息
func (l *LocalLink) Receive() (wire.Message, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.inbox) == 0 {
		return nil, false
	}
	msg := l.inbox[0]
	l.inbox = l.inbox[1:]
	return msg, true
}

// Closed 对手是否已退出
func (l *LocalLink) Closed() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.closed
}

// Err 返回对手失败的原因
func (l *LocalLink) Err() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.err
}

// Close 结束对手
func (l *LocalLink) Close() error {
	l.mu.Lock()
	l.closed = true
	l.mu.Unlock()
	return nil
}

func (l *LocalLink) closeWith(err error) {
	if l.err == nil {
		l.err = err
	}
	l.closed = true
	log.Warn("本地对手失败", "err", err)
}
