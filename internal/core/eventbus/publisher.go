package eventbus

import (
	"reflect"
	"sync"

	"go.uber.org/multierr"

	pkgif "github.com/dep2p/go-duet/pkg/interfaces"
)

// Publisher 按事件类型懒创建发射器
//
// 零值和 nil 总线都可用，此时 Publish 什么都不做。
type Publisher struct {
	bus pkgif.EventBus

	mu       sync.Mutex
	emitters map[reflect.Type]pkgif.Emitter
}

// NewPublisher 创建 Publisher，bus 可以为 nil
func NewPublisher(bus pkgif.EventBus) *Publisher {
	return &Publisher{
		bus:      bus,
		emitters: make(map[reflect.Type]pkgif.Emitter),
	}
}

// Publish 发射事件，event 必须是结构体值
func (p *Publisher) Publish(event interface{}) {
	if p == nil || p.bus == nil || event == nil {
		return
	}

	typ := reflect.TypeOf(event)

	p.mu.Lock()
	em, ok := p.emitters[typ]
	if !ok {
		var err error
		em, err = p.bus.Emitter(reflect.New(typ).Interface())
		if err != nil {
			p.mu.Unlock()
			log.Debug("创建发射器失败", "type", typ.String(), "err", err)
			return
		}
		p.emitters[typ] = em
	}
	p.mu.Unlock()

	if err := em.Emit(event); err != nil {
		log.Debug("发射事件失败", "type", typ.String(), "err", err)
	}
}

// Close 关闭所有发射器
func (p *Publisher) Close() error {
	if p == nil {
		return nil
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	var err error
	for typ, em := range p.emitters {
		err = multierr.Append(err, em.Close())
		delete(p.emitters, typ)
	}
	return err
}
