package eventbus

import (
	"reflect"
	"sync"

	pkgif "github.com/dep2p/go-duet/pkg/interfaces"
)

// Subscription 订阅
type Subscription struct {
	bus       *Bus
	typ       reflect.Type
	out       chan interface{}
	closeOnce sync.Once
}

var _ pkgif.Subscription = (*Subscription)(nil)

// Out 返回事件通道
func (s *Subscription) Out() <-chan interface{} {
	return s.out
}

// Close 取消订阅并关闭通道（幂等）
func (s *Subscription) Close() error {
	s.closeOnce.Do(func() {
		s.bus.withNode(s.typ, func(n *node) {
			for i, sink := range n.sinks {
				if sink == s {
					n.sinks = append(n.sinks[:i], n.sinks[i+1:]...)
					break
				}
			}
			close(s.out)
		})
	})
	return nil
}

// Emitter 事件发射器
type Emitter struct {
	bus       *Bus
	node      *node
	mu        sync.RWMutex
	closed    bool
	closeOnce sync.Once
}

var _ pkgif.Emitter = (*Emitter)(nil)

// Emit 发射事件
func (e *Emitter) Emit(event interface{}) error {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.closed {
		return ErrEmitterClosed
	}
	e.node.emit(event)
	return nil
}

// Close 关闭发射器（幂等）
func (e *Emitter) Close() error {
	e.closeOnce.Do(func() {
		e.mu.Lock()
		e.closed = true
		e.mu.Unlock()

		e.bus.withNode(e.node.typ, func(n *node) {
			if n == e.node {
				n.emitters--
			}
		})
	})
	return nil
}
