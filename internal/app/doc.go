// Package app 把发现、会合、仲裁和回合同步串成一局完整的对局
//
// Game 按阶段推进：Joining → Arbitrating → Playing → Finished。
// 宿主循环以 XferInterval 为间隔调用 Tick，Tick 从不阻塞。
//
// New 用 fx 组装所有模块：
//
//	a, err := app.New(cfg)
//	if err := a.Start(ctx); err != nil { ... }
//	defer a.Stop(ctx)
//	for a.Game.Phase() != types.PhaseFinished {
//	    a.Game.Tick()
//	    time.Sleep(cfg.Transport.XferInterval.Duration())
//	}
//	os.Exit(a.Game.ExitCode())
package app
