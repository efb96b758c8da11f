// Package demo 提供最小的棋盘与走子策略，供命令行和测试使用
//
// Board 是基于占用表的内存棋盘；FirstEmpty 按列优先扫描第一个空格。
package demo
