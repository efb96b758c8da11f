package broadcast

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dep2p/go-duet/internal/util/logger"
	pkgif "github.com/dep2p/go-duet/pkg/interfaces"
)

var log = logger.Logger("discovery.broadcast")

// ErrClosed 信标已关闭
var ErrClosed = errors.New("broadcast: beacon closed")

// Beacon UDP 广播信标
type Beacon struct {
	cfg   Config
	nonce string
	dest  *net.UDPAddr

	mu      sync.Mutex
	sockets []net.PacketConn
	closed  bool
}

var _ pkgif.Beacon = (*Beacon)(nil)

// New 创建广播信标
func New(cfg Config, opts ...ConfigOption) (*Beacon, error) {
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.Clock == nil {
		cfg.Clock = DefaultConfig().Clock
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &Beacon{
		cfg:   cfg,
		nonce: uuid.NewString(),
		dest:  &net.UDPAddr{IP: net.ParseIP(cfg.BroadcastAddr), Port: cfg.Port},
	}, nil
}

// Nonce 返回本进程标识
func (b *Beacon) Nonce() string {
	return b.nonce
}

// Announce 每 AnnounceInterval 发送一次广告，直到 ctx 取消
func (b *Beacon) Announce(ctx context.Context) error {
	lc := net.ListenConfig{Control: reuseControl}
	pc, err := lc.ListenPacket(ctx, "udp4", ":0")
	if err != nil {
		return fmt.Errorf("open broadcast socket: %w", err)
	}
	if err := b.track(pc); err != nil {
		return err
	}
	defer pc.Close()

	datagram := FormatAdvert(b.nonce, b.cfg.TCPPort)
	ticker := b.cfg.Clock.Ticker(b.cfg.AnnounceInterval)
	defer ticker.Stop()

	log.Debug("开始广告", "dest", b.dest.String(), "tcpPort", b.cfg.TCPPort)
	for {
		if _, err := pc.WriteTo(datagram, b.dest); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("send advert: %w", err)
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// Listen 接收其他进程的广告，直到 ctx 取消
func (b *Beacon) Listen(ctx context.Context, found func(pkgif.Sighting)) error {
	lc := net.ListenConfig{Control: reuseControl}
	pc, err := lc.ListenPacket(ctx, "udp4", ":"+strconv.Itoa(b.cfg.Port))
	if err != nil {
		return fmt.Errorf("open listen socket: %w", err)
	}
	if err := b.track(pc); err != nil {
		return err
	}
	defer pc.Close()

	buf := make([]byte, 512)
	for {
		if ctx.Err() != nil {
			return nil
		}
		if err := pc.SetReadDeadline(time.Now().Add(b.cfg.PollTimeout)); err != nil {
			return err
		}

		n, from, err := pc.ReadFrom(buf)
		if err != nil {
			if errors.Is(err, os.ErrDeadlineExceeded) {
				continue
			}
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return nil
			}
			return fmt.Errorf("receive advert: %w", err)
		}

		nonce, port, perr := ParseAdvert(buf[:n])
		if perr != nil {
			log.Debug("忽略无法解析的数据报", "from", from.String())
			continue
		}
		if nonce == b.nonce {
			continue
		}

		udpAddr, ok := from.(*net.UDPAddr)
		if !ok {
			continue
		}
		found(pkgif.Sighting{IP: udpAddr.IP, Port: port, Nonce: nonce})
	}
}

// Close 关闭所有套接字（幂等）
func (b *Beacon) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}
	b.closed = true
	for _, pc := range b.sockets {
		_ = pc.Close()
	}
	b.sockets = nil
	return nil
}

// track 记录套接字以便 Close 打断阻塞读写
func (b *Beacon) track(pc net.PacketConn) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		_ = pc.Close()
		return ErrClosed
	}
	b.sockets = append(b.sockets, pc)
	return nil
}
