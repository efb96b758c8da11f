package app

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dep2p/go-duet/config"
	"github.com/dep2p/go-duet/internal/arbiter"
	"github.com/dep2p/go-duet/internal/core/channel"
	"github.com/dep2p/go-duet/internal/core/eventbus"
	"github.com/dep2p/go-duet/internal/core/metrics"
	"github.com/dep2p/go-duet/internal/core/wire"
	"github.com/dep2p/go-duet/internal/demo"
	"github.com/dep2p/go-duet/internal/discovery/direct"
	"github.com/dep2p/go-duet/internal/rendezvous"
	"github.com/dep2p/go-duet/internal/session"
	"github.com/dep2p/go-duet/internal/util/logger"
	pkgif "github.com/dep2p/go-duet/pkg/interfaces"
	"github.com/dep2p/go-duet/pkg/types"
)

var log = logger.Logger("app")

// Game 一局对局
//
// Tick、Invite 和 Quit 由宿主循环在同一线程调用；
// 查询方法可在任意协程读取。
type Game struct {
	cfg       *config.Config
	codec     wire.Codec
	bus       pkgif.EventBus
	publisher *eventbus.Publisher
	reporter  metrics.Reporter

	controller *rendezvous.Controller
	joiner     *direct.Joiner
	headless   bool

	board pkgif.Board
	moves pkgif.MoveSource

	mu      sync.Mutex
	phase   types.Phase
	channel pkgif.Channel
	arbiter *arbiter.Arbiter
	session *session.Session
	result  types.Arbitration
	err     error
	exit    int
}

// GameOption 对局选项
type GameOption func(*Game)

// WithController 使用局域网会合
func WithController(ctl *rendezvous.Controller) GameOption {
	return func(g *Game) {
		g.controller = ctl
	}
}

// WithEventBus 设置事件总线
func WithEventBus(bus pkgif.EventBus) GameOption {
	return func(g *Game) {
		g.bus = bus
		g.publisher = eventbus.NewPublisher(bus)
	}
}

// WithReporter 设置流量统计
func WithReporter(r metrics.Reporter) GameOption {
	return func(g *Game) {
		g.reporter = r
	}
}

// WithMoves 替换本方走子来源
func WithMoves(ms pkgif.MoveSource) GameOption {
	return func(g *Game) {
		g.moves = ms
	}
}

// WithBoard 替换本方棋盘
func WithBoard(b pkgif.Board) GameOption {
	return func(g *Game) {
		g.board = b
	}
}

// WithHeadless 无人值守：自动邀请和接受
func WithHeadless(on bool) GameOption {
	return func(g *Game) {
		g.headless = on
	}
}

// NewGame 创建对局
func NewGame(cfg *config.Config, codec wire.Codec, opts ...GameOption) (*Game, error) {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	g := &Game{cfg: cfg, codec: codec, phase: types.PhaseJoining}
	for _, opt := range opts {
		opt(g)
	}

	if g.board == nil {
		b, err := demo.NewBoard(types.Grid{Columns: cfg.Board.Columns, Rows: cfg.Board.Rows})
		if err != nil {
			return nil, err
		}
		g.board = b
	}
	if g.moves == nil {
		g.moves = demo.FirstEmpty{}
	}
	if g.controller == nil && !cfg.Direct.Enabled && !cfg.Session.Local {
		return nil, ErrNoJoinMode
	}
	return g, nil
}

// ============================================================================
//                              生命周期
// ============================================================================

// Start 开始寻找对手
//
// 直连模式在后台连接或等待；本地模式直接开局。
func (g *Game) Start(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	switch {
	case g.cfg.Session.Local:
		return g.startLocal()
	case g.cfg.Direct.Enabled:
		g.startDirect(ctx)
	}
	return nil
}

func (g *Game) startDirect(ctx context.Context) {
	d := g.cfg.Direct
	port := g.cfg.Discovery.TCPPort
	timeout := d.Timeout.Duration()
	opts := g.channelOptions()

	if d.Server {
		log.Info("直连模式：等待客户端", "port", port, "timeout", timeout)
		g.joiner = direct.NewJoiner(context.WithoutCancel(ctx), func(ctx context.Context) (*channel.Conn, error) {
			return direct.Listen(ctx, port, timeout, g.codec, opts...)
		})
		return
	}
	log.Info("直连模式：连接服务端", "host", d.Host, "port", port, "timeout", timeout)
	g.joiner = direct.NewJoiner(context.WithoutCancel(ctx), func(ctx context.Context) (*channel.Conn, error) {
		return direct.Connect(ctx, d.Host, port, timeout, g.codec, opts...)
	})
}

func (g *Game) startLocal() error {
	acfg := arbiter.ConfigFromUnified(g.cfg, g.codec.MaxTiebreak())
	picker := arbiter.RandomPicker(acfg.Identities, acfg.MaxTiebreak)
	result, err := arbiter.ResolveLocal(picker, picker, acfg.MaxAttempts)
	if err != nil {
		return err
	}

	theirs, err := demo.NewBoard(g.board.Grid())
	if err != nil {
		return err
	}
	link := session.NewLocalLink(theirs, demo.FirstEmpty{}, result)
	log.Info("本地对局", "result", result.String())
	return g.startSession(link, result)
}

func (g *Game) channelOptions() []channel.Option {
	opts := []channel.Option{channel.WithConfig(channel.ConfigFromUnified(g.cfg))}
	if g.reporter != nil {
		opts = append(opts, channel.WithReporter(g.reporter))
	}
	return opts
}

// Close 释放信道和后台连接
//
// 仲裁或对局尚未结束时先按主动退出处理，对端收到 Quit。
func (g *Game) Close() error {
	if g.joiner != nil {
		g.joiner.Cancel()
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if g.phase == types.PhaseArbitrating || g.phase == types.PhasePlaying {
		g.quitLocked()
	}

	var err error
	switch {
	case g.session != nil:
		err = g.session.Close()
	case g.channel != nil:
		err = g.channel.Close()
	}
	if g.joiner != nil {
		if ch, done, _ := g.joiner.Poll(); done && ch != nil && ch != g.channel {
			err = errors.Join(err, ch.Close())
		}
	}
	return err
}

// ============================================================================
//                              轮询
// ============================================================================

// Tick 推进当前阶段（非阻塞）
func (g *Game) Tick() {
	g.mu.Lock()
	defer g.mu.Unlock()

	switch g.phase {
	case types.PhaseJoining:
		g.tickJoining()
	case types.PhaseArbitrating:
		g.tickArbitrating()
	case types.PhasePlaying:
		g.tickPlaying()
	}
}

func (g *Game) tickJoining() {
	if g.controller != nil {
		g.controller.Tick()
		if g.headless {
			if id, err := g.controller.AutoInvite(); err != nil {
				log.Debug("自动邀请失败", "id", id, "err", err)
			}
		}
		if ch, ok := g.controller.Selected(); ok {
			g.startArbitration(ch)
		}
		return
	}

	if g.joiner == nil {
		return
	}
	ch, done, err := g.joiner.Poll()
	if !done {
		return
	}
	if err != nil {
		g.finish(ExitNoChannel, err)
		return
	}
	g.startArbitration(ch)
}

func (g *Game) startArbitration(ch pkgif.Channel) {
	g.channel = ch
	log.Info("对局信道已建立", "remote", ch.RemoteAddr())

	acfg := arbiter.ConfigFromUnified(g.cfg, g.codec.MaxTiebreak())
	arb, err := arbiter.New(ch, arbiter.WithConfig(acfg))
	if err != nil {
		g.finish(ExitError, err)
		return
	}
	g.arbiter = arb
	g.setPhase(types.PhaseArbitrating)

	if err := arb.Start(); err != nil {
		g.finish(ExitError, err)
	}
}

func (g *Game) tickArbitrating() {
	result, done, err := g.arbiter.Tick()
	if !done {
		return
	}
	if err != nil {
		if errors.Is(err, arbiter.ErrOpponentQuit) {
			g.finish(ExitOK, nil)
			return
		}
		g.finish(ExitError, err)
		return
	}
	if err := g.startSession(session.NewNetworkLink(g.channel), result); err != nil {
		g.finish(ExitError, err)
	}
}

func (g *Game) startSession(link session.Link, result types.Arbitration) error {
	s, err := session.New(link, result, g.board, g.moves,
		session.WithConfig(session.ConfigFromUnified(g.cfg)),
		session.WithEventBus(g.bus))
	if err != nil {
		return err
	}
	g.result = result
	g.session = s
	g.setPhase(types.PhasePlaying)
	return nil
}

func (g *Game) tickPlaying() {
	g.session.Tick()
	g.checkEnded()
}

func (g *Game) checkEnded() {
	reason, err, done := g.session.Ended()
	if !done {
		return
	}
	if err != nil {
		g.finish(ExitError, fmt.Errorf("%s: %w", reason, err))
		return
	}
	g.finish(ExitOK, nil)
}

func (g *Game) finish(code int, err error) {
	if g.phase == types.PhaseFinished {
		return
	}
	g.exit = code
	g.err = err
	if err != nil {
		log.Warn("对局结束", "exit", code, "err", err)
	} else {
		log.Info("对局结束", "exit", code)
	}
	if g.session == nil && g.channel != nil {
		_ = g.channel.Close()
	}
	g.setPhase(types.PhaseFinished)
}

func (g *Game) setPhase(to types.Phase) {
	from := g.phase
	g.phase = to
	log.Debug("阶段切换", "from", from.String(), "to", to.String())
	g.publisher.Publish(types.EvtPhaseChanged{
		BaseEvent: types.NewBaseEvent(types.EventTypePhaseChanged),
		From:      from,
		To:        to,
	})
}

// ============================================================================
//                              操作
// ============================================================================

// Invite 邀请或接受候选
func (g *Game) Invite(id string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.phase != types.PhaseJoining || g.controller == nil {
		return ErrNotJoining
	}
	if err := g.controller.Invite(id); err != nil {
		return err
	}
	if ch, ok := g.controller.Selected(); ok {
		g.startArbitration(ch)
	}
	return nil
}

// Quit 本方主动退出
func (g *Game) Quit() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.quitLocked()
}

func (g *Game) quitLocked() {
	switch g.phase {
	case types.PhaseJoining:
		if g.controller != nil {
			g.controller.Cancel()
		}
		if g.joiner != nil {
			go g.joiner.Cancel()
		}
		g.finish(ExitNoChannel, ErrCancelled)
	case types.PhaseArbitrating:
		if err := g.channel.Send(&wire.Quit{}); err == nil {
			_ = g.channel.Pump()
		}
		g.finish(ExitOK, nil)
	case types.PhasePlaying:
		g.session.Quit()
		g.checkEnded()
	}
}

// ============================================================================
//                              查询
// ============================================================================

// Phase 返回当前阶段
func (g *Game) Phase() types.Phase {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.phase
}

// ExitCode 返回进程退出码
func (g *Game) ExitCode() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.exit
}

// Err 返回结束原因
func (g *Game) Err() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.err
}

// Board 返回本方棋盘
func (g *Game) Board() pkgif.Board {
	return g.board
}

// Arbitration 返回仲裁结果（开局后有效）
func (g *Game) Arbitration() types.Arbitration {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.result
}

// Turn 返回当前回合状态名与已落子数
func (g *Game) Turn() (string, int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.session == nil {
		return "", 0
	}
	return g.session.State().Name(), g.session.Moves()
}

// Candidates 返回候选快照
func (g *Game) Candidates() []rendezvous.CandidateView {
	if g.controller == nil {
		return nil
	}
	return g.controller.Candidates()
}

// Status 返回状态栏文本
func (g *Game) Status() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	switch g.phase {
	case types.PhaseJoining:
		if g.controller != nil {
			return g.controller.Status()
		}
		if g.cfg.Direct.Server {
			return "Waiting for a client..."
		}
		return "Connecting to " + g.cfg.Direct.Host + "..."
	case types.PhaseArbitrating:
		return "Deciding who goes first..."
	case types.PhasePlaying:
		if g.session.State().Name() == session.StateMyTurn {
			return fmt.Sprintf("Your move (%s)", g.result.Local)
		}
		return fmt.Sprintf("Waiting for opponent (%s)", g.result.Remote)
	default:
		if g.err != nil {
			return "Finished: " + g.err.Error()
		}
		return "Finished."
	}
}
