package arbiter

import (
	"github.com/dep2p/go-duet/internal/core/wire"
	"github.com/dep2p/go-duet/internal/util/logger"
	pkgif "github.com/dep2p/go-duet/pkg/interfaces"
	"github.com/dep2p/go-duet/pkg/types"
)

var log = logger.Logger("arbiter")

// Arbiter 在选定的信道上执行仲裁
//
// Start 发送首个取值；之后每个轮询周期调用 Tick，直到 done。
// 仲裁完成后不再读取信道，后续消息留给对局。
type Arbiter struct {
	ch     pkgif.Channel
	cfg    Config
	picker Picker

	local    types.PickValue
	attempts int
	started  bool

	done   bool
	result types.Arbitration
	err    error
}

// Option 仲裁选项
type Option func(*Arbiter)

// WithConfig 设置配置
func WithConfig(cfg Config) Option {
	return func(a *Arbiter) {
		a.cfg = cfg
	}
}

// WithPicker 替换取值来源
func WithPicker(p Picker) Option {
	return func(a *Arbiter) {
		a.picker = p
	}
}

// New 创建仲裁器
func New(ch pkgif.Channel, opts ...Option) (*Arbiter, error) {
	a := &Arbiter{ch: ch, cfg: DefaultConfig()}
	for _, opt := range opts {
		opt(a)
	}
	if err := a.cfg.Validate(); err != nil {
		return nil, err
	}
	if a.picker == nil {
		a.picker = RandomPicker(a.cfg.Identities, a.cfg.MaxTiebreak)
	}
	return a, nil
}

// Start 发送首个取值
func (a *Arbiter) Start() error {
	if a.started {
		return nil
	}
	a.started = true
	return a.sendPick()
}

// Tick 处理已收到的取值（非阻塞）
//
// 返回仲裁结果、是否结束以及失败原因。
func (a *Arbiter) Tick() (types.Arbitration, bool, error) {
	if a.done {
		return a.result, true, a.err
	}
	if !a.started {
		return types.Arbitration{}, false, ErrNotStarted
	}

	if err := a.ch.Pump(); err != nil {
		return a.finish(types.Arbitration{}, err)
	}

	for {
		msg, ok := a.ch.Receive()
		if !ok {
			break
		}

		switch m := msg.(type) {
		case *wire.PickIdentity:
			if !a.cfg.Accepts(m.Value()) {
				return a.finish(types.Arbitration{}, invalidPick(m.Value()))
			}
			if done := a.handlePick(m.Value()); done {
				return a.result, true, a.err
			}
		case *wire.Quit:
			return a.finish(types.Arbitration{}, ErrOpponentQuit)
		default:
			return a.finish(types.Arbitration{}, unexpected(msg))
		}
	}

	if a.ch.Closed() {
		if err := a.ch.Err(); err != nil {
			return a.finish(types.Arbitration{}, err)
		}
		return a.finish(types.Arbitration{}, ErrChannelClosed)
	}
	return types.Arbitration{}, false, nil
}

// handlePick 处理对方取值，返回仲裁是否结束
func (a *Arbiter) handlePick(remote types.PickValue) bool {
	result, err := Decide(a.local, remote)
	if err == nil {
		log.Info("仲裁完成",
			"local", a.local.String(),
			"remote", remote.String(),
			"first", result.FirstMover.String(),
			"attempts", a.attempts)
		a.finish(result, nil)
		return true
	}

	a.attempts++
	log.Debug("仲裁取值冲突", "local", a.local.String(), "remote", remote.String(), "attempt", a.attempts)
	if a.attempts >= a.cfg.MaxAttempts {
		a.finish(types.Arbitration{}, ErrTooManyCollisions)
		return true
	}
	if err := a.sendPick(); err != nil {
		a.finish(types.Arbitration{}, err)
		return true
	}
	return false
}

func (a *Arbiter) sendPick() error {
	a.local = a.picker()
	if err := a.ch.Send(&wire.PickIdentity{Identity: a.local.Identity, Tiebreak: a.local.Tiebreak}); err != nil {
		return err
	}
	return a.ch.Pump()
}

func (a *Arbiter) finish(result types.Arbitration, err error) (types.Arbitration, bool, error) {
	a.done = true
	a.result = result
	a.err = err
	if err != nil {
		log.Warn("仲裁失败", "remote", a.ch.RemoteAddr(), "err", err)
	}
	return result, true, err
}

// Attempts 返回冲突重试次数
func (a *Arbiter) Attempts() int {
	return a.attempts
}

// Local 返回本方当前取值
func (a *Arbiter) Local() types.PickValue {
	return a.local
}
