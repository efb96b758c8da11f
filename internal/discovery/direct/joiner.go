package direct

import (
	"context"
	"sync"

	"github.com/dep2p/go-duet/internal/core/channel"
	pkgif "github.com/dep2p/go-duet/pkg/interfaces"
)

// JoinFunc 阻塞式建立信道
type JoinFunc func(ctx context.Context) (*channel.Conn, error)

// Joiner 在后台执行一次 JoinFunc
type Joiner struct {
	ctx    context.Context
	cancel context.CancelFunc

	mu   sync.Mutex
	ch   *channel.Conn
	err  error
	done bool

	wg sync.WaitGroup
}

// NewJoiner 启动后台连接
func NewJoiner(ctx context.Context, join JoinFunc) *Joiner {
	ctx, cancel := context.WithCancel(ctx)
	j := &Joiner{ctx: ctx, cancel: cancel}

	j.wg.Add(1)
	go func() {
		defer j.wg.Done()
		ch, err := join(ctx)

		j.mu.Lock()
		defer j.mu.Unlock()
		if ctx.Err() != nil && ch != nil {
			_ = ch.Close()
			ch = nil
			if err == nil {
				err = ErrCancelled
			}
		}
		j.ch, j.err, j.done = ch, err, true
	}()
	return j
}

// Poll 返回结果；done 为 false 表示仍在进行
func (j *Joiner) Poll() (ch pkgif.Channel, done bool, err error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	if !j.done {
		return nil, false, nil
	}
	if j.ch == nil {
		return nil, true, j.err
	}
	return j.ch, true, nil
}

// Cancel 取消并等待后台调用结束
func (j *Joiner) Cancel() {
	j.cancel()
	j.wg.Wait()
}
