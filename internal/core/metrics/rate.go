package metrics

import (
	"sync"
	"time"

	"github.com/benbjohnson/clock"
)

// windowSeconds 速率窗口（秒）
const windowSeconds = 60

// RateMeter 速率计算器（60 个 1 秒桶的滑动窗口）
type RateMeter struct {
	clock clock.Clock

	mu       sync.Mutex
	buckets  [windowSeconds]int64
	lastIdx  int
	lastTime time.Time
}

// NewRateMeter 创建速率计算器
func NewRateMeter(clk clock.Clock) *RateMeter {
	if clk == nil {
		clk = clock.New()
	}
	return &RateMeter{
		clock:    clk,
		lastTime: clk.Now(),
	}
}

// Add 添加字节数到当前桶
func (r *RateMeter) Add(bytes int64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.advance(r.clock.Now())
	r.buckets[r.lastIdx] += bytes
}

// Rate 返回窗口内平均速率（字节/秒）
func (r *RateMeter) Rate() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.advance(r.clock.Now())
	var total int64
	for _, v := range r.buckets {
		total += v
	}
	return float64(total) / windowSeconds
}

// Reset 清空窗口
func (r *RateMeter) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.buckets = [windowSeconds]int64{}
	r.lastIdx = 0
	r.lastTime = r.clock.Now()
}

// LastUpdate 返回最后一次移动窗口的时间
func (r *RateMeter) LastUpdate() time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastTime
}

// advance 把窗口推进到 now，清空经过的桶
func (r *RateMeter) advance(now time.Time) {
	seconds := int(now.Sub(r.lastTime) / time.Second)
	if seconds <= 0 {
		return
	}
	if seconds >= windowSeconds {
		r.buckets = [windowSeconds]int64{}
		r.lastIdx = 0
	} else {
		for i := 0; i < seconds; i++ {
			r.lastIdx = (r.lastIdx + 1) % windowSeconds
			r.buckets[r.lastIdx] = 0
		}
	}
	r.lastTime = r.lastTime.Add(time.Duration(seconds) * time.Second)
}
