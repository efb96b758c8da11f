package metrics

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/benbjohnson/clock"
)

// meter 单个键的计数与速率
type meter struct {
	in      atomic.Int64
	out     atomic.Int64
	inRate  *RateMeter
	outRate *RateMeter
}

func (m *meter) stats() Stats {
	return Stats{
		TotalIn:  m.in.Load(),
		TotalOut: m.out.Load(),
		RateIn:   m.inRate.Rate(),
		RateOut:  m.outRate.Rate(),
	}
}

func (m *meter) lastUpdate() time.Time {
	in, out := m.inRate.LastUpdate(), m.outRate.LastUpdate()
	if in.After(out) {
		return in
	}
	return out
}

// meterSet 按字符串键分组的计数器
type meterSet struct {
	clock  clock.Clock
	mu     sync.RWMutex
	meters map[string]*meter
}

func newMeterSet(clk clock.Clock) *meterSet {
	return &meterSet{clock: clk, meters: make(map[string]*meter)}
}

func (s *meterSet) get(key string) *meter {
	s.mu.RLock()
	m := s.meters[key]
	s.mu.RUnlock()
	if m != nil {
		return m
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if m = s.meters[key]; m == nil {
		m = &meter{inRate: NewRateMeter(s.clock), outRate: NewRateMeter(s.clock)}
		s.meters[key] = m
	}
	return m
}

func (s *meterSet) lookup(key string) Stats {
	s.mu.RLock()
	m := s.meters[key]
	s.mu.RUnlock()
	if m == nil {
		return Stats{}
	}
	return m.stats()
}

func (s *meterSet) all() map[string]Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]Stats, len(s.meters))
	for key, m := range s.meters {
		out[key] = m.stats()
	}
	return out
}

func (s *meterSet) reset() {
	s.mu.Lock()
	s.meters = make(map[string]*meter)
	s.mu.Unlock()
}

func (s *meterSet) trim(since time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, m := range s.meters {
		if m.lastUpdate().Before(since) {
			delete(s.meters, key)
		}
	}
}

// BandwidthCounter 带宽计数器
//
// 并发安全：信道的读协程和轮询线程会同时记录。
type BandwidthCounter struct {
	total  *meter
	remote *meterSet
	kind   *meterSet
	clock  clock.Clock
}

// NewBandwidthCounter 创建带宽计数器
func NewBandwidthCounter() *BandwidthCounter {
	return NewBandwidthCounterWithClock(clock.New())
}

// NewBandwidthCounterWithClock 使用指定时钟创建带宽计数器
func NewBandwidthCounterWithClock(clk clock.Clock) *BandwidthCounter {
	return &BandwidthCounter{
		total:  &meter{inRate: NewRateMeter(clk), outRate: NewRateMeter(clk)},
		remote: newMeterSet(clk),
		kind:   newMeterSet(clk),
		clock:  clk,
	}
}

// LogSent 记录出站帧
func (bwc *BandwidthCounter) LogSent(size int64, kind string, remote string) {
	bwc.total.out.Add(size)
	bwc.total.outRate.Add(size)

	r := bwc.remote.get(remote)
	r.out.Add(size)
	r.outRate.Add(size)

	k := bwc.kind.get(kind)
	k.out.Add(size)
	k.outRate.Add(size)
}

// LogRecv 记录入站帧
func (bwc *BandwidthCounter) LogRecv(size int64, kind string, remote string) {
	bwc.total.in.Add(size)
	bwc.total.inRate.Add(size)

	r := bwc.remote.get(remote)
	r.in.Add(size)
	r.inRate.Add(size)

	k := bwc.kind.get(kind)
	k.in.Add(size)
	k.inRate.Add(size)
}

// GetBandwidthForRemote 返回对端带宽统计
func (bwc *BandwidthCounter) GetBandwidthForRemote(remote string) Stats {
	return bwc.remote.lookup(remote)
}

// GetBandwidthForKind 返回消息种类带宽统计
func (bwc *BandwidthCounter) GetBandwidthForKind(kind string) Stats {
	return bwc.kind.lookup(kind)
}

// GetBandwidthTotals 返回总带宽统计
func (bwc *BandwidthCounter) GetBandwidthTotals() Stats {
	return bwc.total.stats()
}

// GetBandwidthByRemote 返回所有对端带宽统计
func (bwc *BandwidthCounter) GetBandwidthByRemote() map[string]Stats {
	return bwc.remote.all()
}

// GetBandwidthByKind 返回所有消息种类带宽统计
func (bwc *BandwidthCounter) GetBandwidthByKind() map[string]Stats {
	return bwc.kind.all()
}

// Reset 清除所有统计
func (bwc *BandwidthCounter) Reset() {
	bwc.total.in.Store(0)
	bwc.total.out.Store(0)
	bwc.total.inRate.Reset()
	bwc.total.outRate.Reset()
	bwc.remote.reset()
	bwc.kind.reset()
}

// TrimIdle 清理空闲统计
func (bwc *BandwidthCounter) TrimIdle(since time.Time) {
	bwc.remote.trim(since)
	bwc.kind.trim(since)
}
