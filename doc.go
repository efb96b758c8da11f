// Package duet 提供两台机器之间的回合制对局连接
//
// duet 在局域网上找到一个对手，双方无主地决定身份和先手，
// 然后交替落子直到一方退出。
//
// # 核心概念
//
//   - Player: 用户交互的主入口，封装发现、会合、仲裁和回合同步
//   - Candidate: 会合阶段的一条候选连接
//   - Arbitration: 双方各自得出、彼此互补的身份与先手结果
//
// # 快速开始
//
//	import "github.com/dep2p/go-duet"
//
//	p, err := duet.Start(ctx, duet.WithPreset(duet.PresetLAN), duet.WithHeadless(true))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer p.Close()
//
//	code, err := p.Run(ctx)
//
// # 连接方式
//
//   - PresetLAN: UDP 广播发现（默认）
//   - PresetMDNS: mDNS 服务发现
//   - WithDirectServer / WithDirectClient: 跳过发现直接连接
//   - PresetLocal: 与进程内对手对局
package duet
