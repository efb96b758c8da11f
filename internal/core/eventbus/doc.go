// Package eventbus 实现进程内事件总线
//
// 事件以具体结构体类型区分，订阅与发射都传入该类型的指针：
//
//	sub, _ := bus.Subscribe(new(types.EvtSelected))
//	em, _ := bus.Emitter(new(types.EvtSelected))
//	em.Emit(types.EvtSelected{...})
//
// 发射永不阻塞：订阅者缓冲区满时事件被丢弃并计数，
// 因此可以安全地在轮询线程（rendezvous、session 的 Tick）中调用。
//
// 领域代码通常不直接持有 Emitter，而是使用 Publisher：
// 它按事件类型懒创建发射器，且在总线为 nil 时什么都不做。
package eventbus
