package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/dep2p/go-duet/internal/core/wire"
	pkgif "github.com/dep2p/go-duet/pkg/interfaces"
	"github.com/dep2p/go-duet/pkg/types"
)

// 状态名称
const (
	StateMyTurn  = "my-turn"
	StateWaiting = "waiting-for-opponent"
	StateEnded   = "ended"
)

// ============================================================================
//                              myTurn
// ============================================================================

type myTurn struct {
	readyAt time.Time
}

func (*myTurn) Name() string { return StateMyTurn }

func (st *myTurn) Enter(s *Session) error {
	st.readyAt = s.clock.Now().Add(s.cfg.MoveDelay)
	return nil
}

func (st *myTurn) Tick(s *Session) error {
	if s.clock.Now().Before(st.readyAt) {
		return nil
	}

	cell, ready, err := s.moves.NextMove(s.board)
	if errors.Is(err, pkgif.ErrNoMoveAvailable) {
		log.Info("无棋可走，主动退出")
		s.Quit()
		return nil
	}
	if err != nil {
		s.sendQuit()
		s.end(types.EndLocalQuit, err)
		return nil
	}
	if !ready {
		return nil
	}

	if err := s.board.Place(cell, s.result.Local); err != nil {
		s.sendQuit()
		s.end(types.EndLocalQuit, fmt.Errorf("place %s: %w", cell, err))
		return nil
	}
	if err := s.link.Send(&wire.Move{Cell: cell}); err != nil {
		s.end(types.EndChannelLost, err)
		return nil
	}
	log.Debug("本方落子", "cell", cell.String())
	s.placed(cell, types.SideLocal, &waitingForOpponent{})
	return nil
}

func (*myTurn) HandleMessage(s *Session, msg wire.Message) error {
	switch msg.(type) {
	case *wire.Quit:
		s.end(types.EndOpponentQuit, nil)
		return nil
	case *wire.Move:
		return ErrOutOfTurn
	default:
		return fmt.Errorf("%w: %s in %s", ErrUnexpectedMessage, wire.Describe(msg), StateMyTurn)
	}
}

// ============================================================================
//                              waitingForOpponent
// ============================================================================

type waitingForOpponent struct{}

func (*waitingForOpponent) Name() string { return StateWaiting }

func (*waitingForOpponent) Enter(*Session) error { return nil }

func (*waitingForOpponent) Tick(*Session) error { return nil }

func (*waitingForOpponent) HandleMessage(s *Session, msg wire.Message) error {
	switch m := msg.(type) {
	case *wire.Move:
		grid := s.board.Grid()
		if !grid.Contains(m.Cell) {
			return fmt.Errorf("%w: %s outside %s", ErrInvalidMove, m.Cell, grid)
		}
		cell := grid.Rotate(m.Cell)
		if err := s.board.Place(cell, s.result.Remote); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidMove, err)
		}
		log.Debug("对方落子", "sent", m.Cell.String(), "cell", cell.String())
		s.placed(cell, types.SideRemote, &myTurn{})
		return nil
	case *wire.Quit:
		s.end(types.EndOpponentQuit, nil)
		return nil
	default:
		return fmt.Errorf("%w: %s in %s", ErrUnexpectedMessage, wire.Describe(msg), StateWaiting)
	}
}

// ============================================================================
//                              ended
// ============================================================================

type ended struct{}

func (*ended) Name() string { return StateEnded }

func (*ended) Enter(s *Session) error {
	if s.err != nil {
		log.Info("对局结束", "reason", s.reason.String(), "moves", s.count, "err", s.err)
	} else {
		log.Info("对局结束", "reason", s.reason.String(), "moves", s.count)
	}
	s.publisher.Publish(types.EvtSessionEnded{
		BaseEvent: types.NewBaseEvent(types.EventTypeSessionEnded),
		Reason:    s.reason,
		Err:       s.err,
	})
	return nil
}

func (*ended) Tick(*Session) error { return nil }

func (*ended) HandleMessage(*Session, wire.Message) error { return nil }
