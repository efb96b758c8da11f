// Package tui 终端界面
//
// Model 以 bubbletea 驱动对局：每个 tick 调用一次 Game.Tick，
// 会合阶段用数字键邀请候选，对局阶段用方向键选点、回车落子，q/esc 退出。
package tui
