// Package rendezvous 在多个候选连接中选出唯一的对局信道
//
// Controller 组合发现服务的轮询接口（Drain/Stop/Join/Faults），
// 每次 Tick 把新连接纳入候选、交换 Identify、处理邀请与接受。
// 某个候选进入选中状态时（本方邀请后收到 Join，或接受对方邀请），
// 停止发现并关闭其余候选。
//
// 选中恰好发生一次；同一 tick 内多个候选就绪时，
// 按连接两端地址排序后的键取最小者，两端得到相同结果。
//
//	ctl := rendezvous.NewController(svc, rendezvous.LocalIdentify())
//	for {
//	    ctl.Tick()
//	    if ch, ok := ctl.Selected(); ok {
//	        // 进入仲裁
//	    }
//	}
package rendezvous
