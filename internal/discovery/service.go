package discovery

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/multierr"
	"golang.org/x/time/rate"

	"github.com/dep2p/go-duet/internal/core/channel"
	"github.com/dep2p/go-duet/internal/core/eventbus"
	"github.com/dep2p/go-duet/internal/core/wire"
	"github.com/dep2p/go-duet/internal/util/addrutil"
	"github.com/dep2p/go-duet/internal/util/logger"
	pkgif "github.com/dep2p/go-duet/pkg/interfaces"
	"github.com/dep2p/go-duet/pkg/types"
)

var log = logger.Logger("discovery")

// Service 发现服务
type Service struct {
	cfg    Config
	beacon pkgif.Beacon
	codec  wire.Codec

	chOpts    []channel.Option
	publisher *eventbus.Publisher

	dialed  *lru.Cache[string, struct{}]
	limiter *rate.Limiter

	listener *net.TCPListener
	queue    handoff

	faultMu sync.Mutex
	faults  Faults

	beaconCtx    context.Context
	beaconCancel context.CancelFunc
	acceptCtx    context.Context
	acceptCancel context.CancelFunc
	wg           sync.WaitGroup

	started      atomic.Bool
	stopped      atomic.Bool
	acceptClosed atomic.Bool
}

// Option 服务选项
type Option func(*Service)

// WithEventBus 设置事件总线
func WithEventBus(bus pkgif.EventBus) Option {
	return func(s *Service) {
		s.publisher = eventbus.NewPublisher(bus)
	}
}

// WithChannelOptions 设置新建信道的选项
func WithChannelOptions(opts ...channel.Option) Option {
	return func(s *Service) {
		s.chOpts = append(s.chOpts, opts...)
	}
}

// New 创建发现服务
func New(cfg Config, beacon pkgif.Beacon, codec wire.Codec, opts ...Option) (*Service, error) {
	if beacon == nil {
		return nil, ErrNilBeacon
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	dialed, err := lru.New[string, struct{}](cfg.NonceCacheSize)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	s := &Service{
		cfg:     cfg,
		beacon:  beacon,
		codec:   codec,
		dialed:  dialed,
		limiter: rate.NewLimiter(rate.Limit(cfg.DialRate), cfg.DialBurst),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Start 启动广告、监听和接受协程
func (s *Service) Start(ctx context.Context) error {
	if s.started.Swap(true) {
		return ErrAlreadyStarted
	}

	var lc net.ListenConfig
	l, err := lc.Listen(ctx, "tcp", net.JoinHostPort("", strconv.Itoa(s.cfg.TCPPort)))
	if err != nil {
		s.started.Store(false)
		return &FaultError{Op: OpAccept, Err: err}
	}
	s.listener = l.(*net.TCPListener)

	s.beaconCtx, s.beaconCancel = context.WithCancel(context.Background())
	s.acceptCtx, s.acceptCancel = context.WithCancel(context.Background())

	log.Info("发现服务启动",
		"udpPort", s.cfg.UDPPort,
		"tcpPort", s.TCPPort(),
		"codec", s.codec.Name(),
		"nonce", s.beacon.Nonce())

	s.wg.Add(3)
	go s.announceLoop()
	go s.listenLoop()
	go s.acceptLoop()
	return nil
}

// TCPPort 返回实际监听的 TCP 端口
func (s *Service) TCPPort() int {
	if s.listener == nil {
		return s.cfg.TCPPort
	}
	return s.listener.Addr().(*net.TCPAddr).Port
}

// Drain 取走所有新建立的信道
func (s *Service) Drain() []pkgif.Channel {
	return s.queue.drain()
}

// Faults 返回后台协程故障快照
func (s *Service) Faults() Faults {
	s.faultMu.Lock()
	defer s.faultMu.Unlock()
	return s.faults
}

// Stop 停止广告和监听，接受协程继续运行直到 CloseAcceptor（幂等）
func (s *Service) Stop() {
	if !s.started.Load() || s.stopped.Swap(true) {
		return
	}
	s.beaconCancel()
	if err := s.beacon.Close(); err != nil {
		log.Debug("关闭信标失败", "err", err)
	}
	log.Debug("发现服务已停止广告和监听")
}

// CloseAcceptor 关闭监听套接字并丢弃尚未取走的信道（不阻塞，幂等）
//
// 之后到达的连接被拒绝；已取走的信道不受影响。
func (s *Service) CloseAcceptor() error {
	if !s.started.Load() || s.acceptClosed.Swap(true) {
		return nil
	}
	s.acceptCancel()

	var err error
	if cerr := s.listener.Close(); cerr != nil && !errors.Is(cerr, net.ErrClosed) {
		err = multierr.Append(err, cerr)
	}
	for _, ch := range s.queue.close() {
		err = multierr.Append(err, ch.Close())
	}
	log.Debug("发现服务已停止接受连接")
	return err
}

// Join 关闭接受协程并等待所有协程退出
//
// 超时返回 ErrDiscoveryTimeout；套接字已关闭，残留协程会自行退出。
func (s *Service) Join(timeout time.Duration) error {
	if !s.started.Load() {
		return nil
	}
	s.Stop()

	err := s.CloseAcceptor()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(timeout):
		log.Warn("等待发现协程超时", "timeout", timeout)
		err = multierr.Append(err, ErrDiscoveryTimeout)
	}

	for _, ch := range s.queue.close() {
		err = multierr.Append(err, ch.Close())
	}
	return err
}

// ============================================================================
//                              后台协程
// ============================================================================

func (s *Service) announceLoop() {
	defer s.wg.Done()

	err := s.beacon.Announce(s.beaconCtx)
	if err != nil && s.beaconCtx.Err() == nil {
		s.recordFault(OpBroadcast, err)
	}
}

func (s *Service) listenLoop() {
	defer s.wg.Done()

	err := s.beacon.Listen(s.beaconCtx, s.onSighting)
	if err != nil && s.beaconCtx.Err() == nil {
		s.recordFault(OpListen, err)
	}
}

func (s *Service) acceptLoop() {
	defer s.wg.Done()

	for {
		if s.acceptCtx.Err() != nil {
			return
		}
		if err := s.listener.SetDeadline(time.Now().Add(s.cfg.PollTimeout)); err != nil {
			if s.acceptCtx.Err() == nil {
				s.recordFault(OpAccept, err)
			}
			return
		}

		conn, err := s.listener.Accept()
		if err != nil {
			if errors.Is(err, os.ErrDeadlineExceeded) {
				continue
			}
			if s.acceptCtx.Err() == nil {
				s.recordFault(OpAccept, err)
			}
			return
		}

		log.Info("接受连接", "remote", conn.RemoteAddr().String())
		s.queue.push(channel.New(conn, s.codec, s.chOpts...))
	}
}

// onSighting 每个外部广告最多连接一次
func (s *Service) onSighting(sighting pkgif.Sighting) {
	if sighting.Nonce == s.beacon.Nonce() {
		return
	}
	if s.stopped.Load() {
		return
	}
	if ok, _ := s.dialed.ContainsOrAdd(sighting.Nonce, struct{}{}); ok {
		return
	}

	if err := s.limiter.Wait(s.beaconCtx); err != nil {
		return
	}

	addr := addrutil.JoinHostPort(sighting.IP, sighting.Port)
	log.Info("发现对端，发起连接", "addr", addr, "nonce", sighting.Nonce)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		dialer := net.Dialer{Timeout: s.cfg.DialTimeout}
		conn, err := dialer.DialContext(s.beaconCtx, "tcp", addr)
		if err != nil {
			log.Debug("连接对端失败", "addr", addr, "err", err)
			s.dialed.Remove(sighting.Nonce)
			return
		}
		log.Info("连接对端成功", "remote", conn.RemoteAddr().String())
		s.queue.push(channel.New(conn, s.codec, s.chOpts...))
	}()
}

func (s *Service) recordFault(op string, err error) {
	fault := &FaultError{Op: op, Err: err}

	s.faultMu.Lock()
	switch op {
	case OpBroadcast:
		s.faults.Broadcast = fault
	case OpListen:
		s.faults.Listen = fault
	case OpAccept:
		s.faults.Accept = fault
	}
	s.faultMu.Unlock()

	log.Warn("发现服务后台故障", "op", op, "err", err)
	s.publisher.Publish(types.EvtDiscoveryFault{
		BaseEvent: types.NewBaseEvent(types.EventTypeDiscoveryFault),
		Op:        op,
		Err:       fault,
	})
}
