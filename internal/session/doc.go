// Package session 维护两个对等方之间严格交替的回合
//
// Session 是显式的上下文对象，持有链路、仲裁结果、棋盘、走子来源和时钟；
// 当前状态由 State 接口的三个实现表示：
//   - myTurn：等待 MoveDelay 后向 MoveSource 要一步，落子并发送 Move
//   - waitingForOpponent：收到 Move 后旋转 180° 落子
//   - ended：终态，不再读写链路
//
// 发送的坐标总是本方视角，接收方恰好旋转一次。
package session
