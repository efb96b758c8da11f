package session

import (
	"errors"
	"fmt"

	"github.com/benbjohnson/clock"

	"github.com/dep2p/go-duet/internal/core/eventbus"
	"github.com/dep2p/go-duet/internal/core/wire"
	"github.com/dep2p/go-duet/internal/util/logger"
	pkgif "github.com/dep2p/go-duet/pkg/interfaces"
	"github.com/dep2p/go-duet/pkg/types"
)

var log = logger.Logger("session")

// State 会话状态
type State interface {
	// Name 返回状态名称
	Name() string

	// Enter 进入状态时调用一次
	Enter(s *Session) error

	// Tick 每个轮询周期调用一次
	Tick(s *Session) error

	// HandleMessage 处理一条对手消息
	HandleMessage(s *Session, msg wire.Message) error
}

// Session 回合同步会话
//
// 所有方法都在同一个轮询线程中调用。
type Session struct {
	link   Link
	result types.Arbitration
	board  pkgif.Board
	moves  pkgif.MoveSource

	cfg       Config
	clock     clock.Clock
	publisher *eventbus.Publisher

	state State
	count int

	reason types.EndReason
	err    error
}

// New 创建会话，初始状态由 result.FirstMover 决定
func New(link Link, result types.Arbitration, board pkgif.Board, moves pkgif.MoveSource, opts ...Option) (*Session, error) {
	s := &Session{
		link:   link,
		result: result,
		board:  board,
		moves:  moves,
		cfg:    DefaultConfig(),
		clock:  clock.New(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if err := s.cfg.Validate(); err != nil {
		return nil, err
	}
	if !board.Grid().Valid() {
		return nil, fmt.Errorf("%w: %s", types.ErrInvalidGrid, board.Grid())
	}

	log.Info("对局开始",
		"local", result.Local.String(),
		"remote", result.Remote.String(),
		"first", result.FirstMover.String(),
		"grid", board.Grid().String())

	if result.FirstMover == types.SideLocal {
		s.transition(&myTurn{})
	} else {
		s.transition(&waitingForOpponent{})
	}
	return s, nil
}

// ============================================================================
//                              轮询
// ============================================================================

// Tick 处理对手消息并推进当前状态（非阻塞）
func (s *Session) Tick() {
	if s.isEnded() {
		return
	}

	if err := s.link.Pump(); err != nil {
		s.linkFailed(err)
		return
	}

	for !s.isEnded() {
		msg, ok := s.link.Receive()
		if !ok {
			break
		}
		if err := s.state.HandleMessage(s, msg); err != nil {
			s.protocolError(err)
			return
		}
	}
	if s.isEnded() {
		return
	}

	if err := s.state.Tick(s); err != nil {
		s.protocolError(err)
		return
	}
	if s.isEnded() {
		return
	}

	if s.link.Closed() {
		s.end(types.EndChannelLost, s.link.Err())
		return
	}

	// 尽快写出本轮发送的 Move
	if err := s.link.Pump(); err != nil {
		s.linkFailed(err)
	}
}

// Quit 本方主动退出（任意状态）
func (s *Session) Quit() {
	if s.isEnded() {
		return
	}
	s.sendQuit()
	s.end(types.EndLocalQuit, nil)
}

// Close 关闭链路
func (s *Session) Close() error {
	return s.link.Close()
}

// ============================================================================
//                              查询
// ============================================================================

// State 返回当前状态
func (s *Session) State() State {
	return s.state
}

// Ended 返回结束原因、错误以及是否已结束
func (s *Session) Ended() (types.EndReason, error, bool) {
	return s.reason, s.err, s.isEnded()
}

// Moves 返回双方已落子数
func (s *Session) Moves() int {
	return s.count
}

// Arbitration 返回仲裁结果
func (s *Session) Arbitration() types.Arbitration {
	return s.result
}

// Board 返回棋盘
func (s *Session) Board() pkgif.Board {
	return s.board
}

// ============================================================================
//                              内部方法
// ============================================================================

func (s *Session) transition(next State) {
	prev := "none"
	if s.state != nil {
		prev = s.state.Name()
	}
	s.state = next
	log.Debug("状态切换", "from", prev, "to", next.Name(), "moves", s.count)

	if err := next.Enter(s); err != nil {
		s.protocolError(err)
	}
}

// placed 记录一次落子并发布回合事件
func (s *Session) placed(cell types.Cell, by types.Side, next State) {
	s.count++
	s.publisher.Publish(types.EvtTurnChanged{
		BaseEvent: types.NewBaseEvent(types.EventTypeTurnChanged),
		State:     next.Name(),
		Moves:     s.count,
		Cell:      cell,
		By:        by,
	})
	s.transition(next)
}

func (s *Session) isEnded() bool {
	_, ok := s.state.(*ended)
	return ok
}

func (s *Session) end(reason types.EndReason, err error) {
	if s.isEnded() {
		return
	}
	s.reason = reason
	s.err = err
	s.transition(&ended{})
}

// protocolError 对手违反协议：尽力发送 Quit 后结束
func (s *Session) protocolError(err error) {
	if s.isEnded() {
		return
	}
	log.Warn("协议错误，结束对局", "state", s.state.Name(), "err", err)
	s.sendQuit()
	s.end(types.EndProtocolError, err)
}

// linkFailed 链路收发失败；解码错误属于协议错误
func (s *Session) linkFailed(err error) {
	var de *wire.DecodeError
	if errors.As(err, &de) {
		s.protocolError(err)
		return
	}
	s.end(types.EndChannelLost, err)
}

func (s *Session) sendQuit() {
	if s.link.Closed() {
		return
	}
	if err := s.link.Send(&wire.Quit{}); err != nil {
		log.Debug("发送 Quit 失败", "err", err)
		return
	}
	if err := s.link.Pump(); err != nil {
		log.Debug("写出 Quit 失败", "err", err)
	}
}
