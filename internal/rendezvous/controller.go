package rendezvous

import (
	"errors"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/samber/lo"
	"go.uber.org/multierr"

	"github.com/dep2p/go-duet/internal/core/eventbus"
	"github.com/dep2p/go-duet/internal/core/wire"
	"github.com/dep2p/go-duet/internal/discovery"
	"github.com/dep2p/go-duet/internal/util/logger"
	pkgif "github.com/dep2p/go-duet/pkg/interfaces"
	"github.com/dep2p/go-duet/pkg/types"
)

var log = logger.Logger("rendezvous")

// Source 发现服务的轮询接口
type Source interface {
	Drain() []pkgif.Channel
	Stop()
	CloseAcceptor() error
	Join(timeout time.Duration) error
	Faults() discovery.Faults
}

var _ Source = (*discovery.Service)(nil)

// Controller 会合控制器
//
// Tick 与 Invite 由同一个轮询线程调用；快照方法可从任意协程读取。
type Controller struct {
	source    Source
	local     wire.Identify
	publisher *eventbus.Publisher

	mu         sync.Mutex
	candidates []*Candidate
	byID       map[string]*Candidate
	nextID     int
	selected   *Candidate
	cancelled  bool
	closed     bool

	selectOnce atomic.Bool
}

// Option 控制器选项
type Option func(*Controller)

// WithEventBus 设置事件总线
func WithEventBus(bus pkgif.EventBus) Option {
	return func(c *Controller) {
		c.publisher = eventbus.NewPublisher(bus)
	}
}

// NewController 创建会合控制器
func NewController(source Source, local wire.Identify, opts ...Option) *Controller {
	c := &Controller{
		source: source,
		local:  local,
		byID:   make(map[string]*Candidate),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ============================================================================
//                              轮询
// ============================================================================

// Tick 服务所有候选（非阻塞）
func (c *Controller) Tick() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.selected != nil || c.cancelled || c.closed {
		return
	}

	for _, ch := range c.source.Drain() {
		c.nextID++
		cand := newCandidate("c"+strconv.Itoa(c.nextID), ch)
		c.candidates = append(c.candidates, cand)
		c.byID[cand.ID] = cand
		log.Debug("新候选连接", "id", cand.ID, "remote", ch.RemoteAddr())
		c.publishChanged(cand)
	}

	var ready []*Candidate
	for _, cand := range c.candidates {
		if !cand.State.Live() {
			continue
		}
		c.service(cand)
		if cand.ready {
			ready = append(ready, cand)
		}
	}

	if len(ready) > 0 {
		c.selectCandidate(pickReady(ready))
	}
}

// service 发送 Identify、收发一次并处理已收到的消息
func (c *Controller) service(cand *Candidate) {
	if !cand.IdentitySent {
		local := c.local
		if err := cand.Channel.Send(&local); err != nil {
			c.fail(cand, err)
			return
		}
		cand.IdentitySent = true
	}

	if err := cand.Channel.Pump(); err != nil {
		c.fail(cand, err)
		return
	}

	for !cand.ready {
		msg, ok := cand.Channel.Receive()
		if !ok {
			break
		}
		if err := c.dispatch(cand, msg); err != nil {
			c.fail(cand, err)
			return
		}
	}

	if !cand.ready && cand.Channel.Closed() {
		if err := cand.Channel.Err(); err != nil {
			c.fail(cand, err)
			return
		}
		cand.State = types.CandidateClosed
		log.Debug("候选连接已关闭", "id", cand.ID, "remote", cand.Channel.RemoteAddr())
		c.publishChanged(cand)
	}
}

func (c *Controller) dispatch(cand *Candidate, msg wire.Message) error {
	switch m := msg.(type) {
	case *wire.Identify:
		cand.IdentityReceived = true
		cand.RemoteUser = m.Username
		cand.RemoteHost = m.Hostname
		if cand.State == types.CandidateConnecting {
			cand.State = types.CandidateIdentified
		}
		log.Debug("收到 Identify", "id", cand.ID, "user", m.Username, "host", m.Hostname)
		c.publishChanged(cand)
	case *wire.Join:
		if cand.IInvitedThem {
			cand.ready = true
			log.Debug("对方接受邀请", "id", cand.ID)
			return nil
		}
		cand.TheyInvitedMe = true
		cand.State = types.CandidateInvitedMe
		log.Debug("收到邀请", "id", cand.ID, "user", cand.RemoteUser)
		c.publishChanged(cand)
	default:
		return &UnexpectedMessageError{Kind: msg.Kind()}
	}
	return nil
}

func (c *Controller) fail(cand *Candidate, err error) {
	cand.State = types.CandidateFailed
	cand.Err = err
	if cerr := cand.Channel.Close(); cerr != nil {
		log.Debug("关闭候选连接失败", "id", cand.ID, "err", cerr)
	}
	log.Warn("候选连接失败", "id", cand.ID, "remote", cand.Channel.RemoteAddr(), "err", err)
	c.publishChanged(cand)
}

// pickReady 取两端一致的最小排序键
func pickReady(ready []*Candidate) *Candidate {
	return lo.MinBy(ready, func(a, b *Candidate) bool {
		return a.key < b.key
	})
}

// ============================================================================
//                              邀请与选定
// ============================================================================

// Invite 邀请候选；对方已邀请本方时立即选定
func (c *Controller) Invite(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.selected != nil {
		return ErrAlreadySelected
	}
	if c.cancelled || c.closed {
		return ErrCancelled
	}
	cand, ok := c.byID[id]
	if !ok {
		return ErrUnknownCandidate
	}
	if !cand.IdentityReceived || !cand.State.Live() || cand.IInvitedThem {
		return ErrNotInvitable
	}

	if err := cand.Channel.Send(&wire.Join{}); err != nil {
		c.fail(cand, err)
		return err
	}

	if cand.TheyInvitedMe {
		log.Info("接受邀请", "id", cand.ID, "user", cand.RemoteUser)
		c.selectCandidate(cand)
		if err := cand.Channel.Pump(); err != nil {
			log.Debug("写出 Join 失败", "id", cand.ID, "err", err)
		}
		return nil
	}

	if err := cand.Channel.Pump(); err != nil {
		c.fail(cand, err)
		return err
	}
	cand.IInvitedThem = true
	cand.State = types.CandidateInvited
	log.Info("发出邀请", "id", cand.ID, "user", cand.RemoteUser)
	c.publishChanged(cand)
	return nil
}

// selectCandidate 选定唯一信道（只生效一次）
func (c *Controller) selectCandidate(cand *Candidate) {
	if !c.selectOnce.CompareAndSwap(false, true) {
		return
	}

	c.selected = cand
	cand.State = types.CandidateSelected
	c.stopSource()

	for _, other := range c.candidates {
		if other == cand || !other.State.Live() {
			continue
		}
		c.closeCandidate(other)
	}

	log.Info("已选定对局信道",
		"id", cand.ID,
		"remote", cand.Channel.RemoteAddr(),
		"user", cand.RemoteUser)
	c.publishChanged(cand)
	c.publisher.Publish(types.EvtSelected{
		BaseEvent:   types.NewBaseEvent(types.EventTypeSelected),
		CandidateID: cand.ID,
		RemoteAddr:  cand.Channel.RemoteAddr(),
		RemoteUser:  cand.RemoteUser,
	})
}

// stopSource 停止发现并拒绝新连接，不等待后台协程
func (c *Controller) stopSource() {
	c.source.Stop()
	if err := c.source.CloseAcceptor(); err != nil {
		log.Debug("关闭接受协程失败", "err", err)
	}
}

func (c *Controller) closeCandidate(cand *Candidate) {
	if err := cand.Channel.Close(); err != nil {
		log.Debug("关闭候选连接失败", "id", cand.ID, "err", err)
	}
	cand.State = types.CandidateClosed
	c.publishChanged(cand)
}

// Selected 返回选定的信道
func (c *Controller) Selected() (pkgif.Channel, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.selected == nil {
		return nil, false
	}
	return c.selected.Channel, true
}

// Done 是否已选定或已取消
func (c *Controller) Done() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selected != nil || c.cancelled
}

// ============================================================================
//                              快照
// ============================================================================

// Candidates 返回候选快照
func (c *Controller) Candidates() []CandidateView {
	c.mu.Lock()
	defer c.mu.Unlock()

	return lo.Map(c.candidates, func(cand *Candidate, _ int) CandidateView {
		return cand.view()
	})
}

// Status 返回状态栏文本
func (c *Controller) Status() string {
	faults := c.source.Faults()

	c.mu.Lock()
	selected, cancelled := c.selected != nil, c.cancelled
	c.mu.Unlock()

	if faults.Any() {
		return formatFaults(faults)
	}
	switch {
	case selected:
		return "Connected."
	case cancelled:
		return "Cancelled."
	default:
		return "Waiting for an opponent..."
	}
}

func formatFaults(f discovery.Faults) string {
	parts := make([]string, 0, 3)
	add := func(label string, err error) {
		if err == nil {
			return
		}
		if inner := errors.Unwrap(err); inner != nil {
			err = inner
		}
		parts = append(parts, label+": "+err.Error())
	}
	add("Broadcast", f.Broadcast)
	add("Listen", f.Listen)
	add("Socket", f.Accept)
	return strings.Join(parts, ", ")
}

// ============================================================================
//                              关闭
// ============================================================================

// Cancel 操作者取消：停止发现并关闭所有未选定的候选
func (c *Controller) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cancelled || c.selected != nil {
		return
	}
	c.cancelled = true
	c.stopSource()
	for _, cand := range c.candidates {
		if cand.State.Live() {
			c.closeCandidate(cand)
		}
	}
	log.Info("会合已取消")
}

// Close 停止并等待发现服务，关闭所有未选定的候选
//
// 选定的信道归调用方所有，不会被关闭。
func (c *Controller) Close(timeout time.Duration) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.mu.Unlock()

	c.source.Stop()
	err := c.source.Join(timeout)

	// 发现协程退出后不再有新连接
	var closeErr error
	for _, ch := range c.source.Drain() {
		closeErr = multierr.Append(closeErr, ch.Close())
	}

	c.mu.Lock()
	for _, cand := range c.candidates {
		if cand != c.selected && cand.State.Live() {
			closeErr = multierr.Append(closeErr, cand.Channel.Close())
			cand.State = types.CandidateClosed
		}
	}
	c.mu.Unlock()

	return multierr.Append(err, closeErr)
}

func (c *Controller) publishChanged(cand *Candidate) {
	c.publisher.Publish(types.EvtCandidateChanged{
		BaseEvent:   types.NewBaseEvent(types.EventTypeCandidateChanged),
		CandidateID: cand.ID,
		RemoteAddr:  cand.Channel.RemoteAddr(),
		RemoteUser:  cand.RemoteUser,
		RemoteHost:  cand.RemoteHost,
		State:       cand.State,
	})
}
