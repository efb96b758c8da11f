package channel

import (
	"errors"
	"io"
	"net"
	"os"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/dep2p/go-duet/internal/core/metrics"
	"github.com/dep2p/go-duet/internal/core/wire"
	"github.com/dep2p/go-duet/internal/util/logger"
	pkgif "github.com/dep2p/go-duet/pkg/interfaces"
)

var log = logger.Logger("core.channel")

var _ pkgif.Channel = (*Conn)(nil)

// Conn 基于 net.Conn 的消息信道
type Conn struct {
	conn     net.Conn
	codec    wire.Codec
	cfg      Config
	reporter metrics.Reporter
	local    string
	remote   string

	// 读协程与轮询线程共享
	mu       sync.Mutex
	inbound  []byte
	readDone bool
	readErr  error
	recvq    []wire.Message
	err      error

	// 只由轮询线程（或 Close）访问
	writeMu sync.Mutex
	pending []byte

	closed     atomic.Bool
	peerClosed atomic.Bool
	closeOnce  sync.Once
	readerExit chan struct{}
}

// New 包装连接并启动读协程
func New(conn net.Conn, codec wire.Codec, opts ...Option) *Conn {
	o := options{cfg: DefaultConfig()}
	for _, opt := range opts {
		opt(&o)
	}

	c := &Conn{
		conn:       conn,
		codec:      codec,
		cfg:        o.cfg,
		reporter:   o.reporter,
		local:      o.local,
		remote:     o.remote,
		readerExit: make(chan struct{}),
	}
	if c.local == "" && conn.LocalAddr() != nil {
		c.local = conn.LocalAddr().String()
	}
	if c.remote == "" && conn.RemoteAddr() != nil {
		c.remote = conn.RemoteAddr().String()
	}

	go c.readLoop()
	return c
}

// RemoteAddr 返回对端地址
func (c *Conn) RemoteAddr() string {
	return c.remote
}

// LocalAddr 返回本端地址
func (c *Conn) LocalAddr() string {
	return c.local
}

// Codec 返回信道使用的编码
func (c *Conn) Codec() wire.Codec {
	return c.codec
}

// Closed 信道是否已关闭
//
// 对端关闭时，只有在缓冲的字节全部解码后才返回 true。
func (c *Conn) Closed() bool {
	return c.closed.Load() || c.peerClosed.Load()
}

// Err 返回导致信道失败的错误
func (c *Conn) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

// Send 编码并排队一条消息
func (c *Conn) Send(msg wire.Message) error {
	if c.Closed() {
		return ErrChannelClosed
	}

	frame, err := c.codec.Encode(msg)
	if err != nil {
		return err
	}

	c.writeMu.Lock()
	c.pending = append(c.pending, frame...)
	c.writeMu.Unlock()

	if c.reporter != nil {
		c.reporter.LogSent(int64(len(frame)), msg.Kind().String(), c.remote)
	}
	log.Debug("排队发送", "remote", c.remote, "msg", wire.Describe(msg))
	return nil
}

// Receive 取出下一条已解码的消息
func (c *Conn) Receive() (wire.Message, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.recvq) == 0 {
		return nil, false
	}
	msg := c.recvq[0]
	c.recvq[0] = nil
	c.recvq = c.recvq[1:]
	return msg, true
}

// Pump 解码入站帧并写出待发送字节
func (c *Conn) Pump() error {
	if c.closed.Load() {
		return nil
	}
	if err := c.decode(); err != nil {
		c.fail(err)
		return err
	}
	if c.peerClosed.Load() {
		c.writeMu.Lock()
		c.pending = nil
		c.writeMu.Unlock()
		return nil
	}
	if err := c.flush(c.cfg.WriteTimeout); err != nil {
		if peerGone(err) {
			// 读协程随后会看到 EOF 并标记关闭
			c.writeMu.Lock()
			c.pending = nil
			c.writeMu.Unlock()
			log.Debug("写出时对端已关闭", "remote", c.remote)
			return nil
		}
		c.fail(err)
		return err
	}
	return nil
}

// Close 尽力写出待发送数据后关闭连接（幂等）
func (c *Conn) Close() error {
	var err error
	c.closeOnce.Do(func() {
		if !c.closed.Load() && !c.peerClosed.Load() {
			if ferr := c.flush(c.cfg.FlushTimeout); ferr != nil {
				log.Debug("关闭前写出失败", "remote", c.remote, "err", ferr)
			}
		}
		c.closed.Store(true)
		err = c.conn.Close()
		if errors.Is(err, net.ErrClosed) {
			err = nil
		}
	})
	return err
}

// ============================================================================
//                              内部方法
// ============================================================================

// readLoop 读协程：把字节追加到入站缓冲直到出错
func (c *Conn) readLoop() {
	defer close(c.readerExit)

	buf := make([]byte, c.cfg.ReadBufferSize)
	for {
		n, err := c.conn.Read(buf)
		if n > 0 {
			c.mu.Lock()
			c.inbound = append(c.inbound, buf[:n]...)
			c.mu.Unlock()
		}
		if err != nil {
			c.mu.Lock()
			c.readDone = true
			if !errors.Is(err, io.EOF) && !errors.Is(err, net.ErrClosed) && !errors.Is(err, io.ErrClosedPipe) {
				c.readErr = err
			}
			c.mu.Unlock()
			return
		}
	}
}

// decode 解码所有完整帧
func (c *Conn) decode() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for len(c.inbound) > 0 {
		msg, n, err := c.codec.Decode(c.inbound)
		if err != nil {
			return err
		}
		if msg == nil {
			break
		}
		c.inbound = c.inbound[n:]
		c.recvq = append(c.recvq, msg)

		if c.reporter != nil {
			c.reporter.LogRecv(int64(n), msg.Kind().String(), c.remote)
		}
		log.Debug("收到消息", "remote", c.remote, "msg", wire.Describe(msg))
	}

	if c.readDone {
		if c.readErr != nil && c.err == nil {
			c.err = c.readErr
		}
		if len(c.inbound) > 0 {
			log.Debug("对端关闭时有不完整的帧", "remote", c.remote, "bytes", len(c.inbound))
		}
		c.inbound = nil
		if !c.peerClosed.Swap(true) {
			log.Debug("对端已关闭", "remote", c.remote)
		}
	}
	return nil
}

// flush 在超时内写出待发送字节，保留未写完的部分
func (c *Conn) flush(timeout time.Duration) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	if len(c.pending) == 0 {
		return nil
	}

	if err := c.conn.SetWriteDeadline(time.Now().Add(timeout)); err != nil {
		return err
	}
	n, err := c.conn.Write(c.pending)
	c.pending = c.pending[n:]
	if len(c.pending) == 0 {
		c.pending = nil
	}
	if err != nil && !errors.Is(err, os.ErrDeadlineExceeded) {
		return err
	}
	return nil
}

// peerGone 写错误是否由对端关闭引起
func peerGone(err error) bool {
	return errors.Is(err, io.ErrClosedPipe) ||
		errors.Is(err, syscall.EPIPE) ||
		errors.Is(err, syscall.ECONNRESET)
}

// fail 标记信道失败并关闭
func (c *Conn) fail(err error) {
	c.mu.Lock()
	if c.err == nil {
		c.err = err
	}
	c.mu.Unlock()

	log.Debug("信道失败", "remote", c.remote, "err", err)
	c.closeOnce.Do(func() {
		c.closed.Store(true)
		_ = c.conn.Close()
	})
}
