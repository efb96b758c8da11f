package discovery

import (
	"sync"

	"github.com/dep2p/go-duet/internal/core/channel"
	pkgif "github.com/dep2p/go-duet/pkg/interfaces"
)

// handoff 后台协程向轮询线程交接信道的队列
type handoff struct {
	mu     sync.Mutex
	items  []pkgif.Channel
	closed bool
}

// push 入队；队列关闭后直接关闭信道
func (q *handoff) push(ch *channel.Conn) {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		_ = ch.Close()
		return
	}
	q.items = append(q.items, ch)
	q.mu.Unlock()
}

// drain 取走全部已交接的信道
func (q *handoff) drain() []pkgif.Channel {
	q.mu.Lock()
	defer q.mu.Unlock()

	items := q.items
	q.items = nil
	return items
}

// close 关闭队列并返回未取走的信道
func (q *handoff) close() []pkgif.Channel {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.closed = true
	items := q.items
	q.items = nil
	return items
}
