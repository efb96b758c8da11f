// Package types 定义 duet 的公共数据结构
//
// 这是整个系统的最底层包，不依赖任何其他内部包。
// 所有类型都是纯值类型，用于在各模块间传递数据。
//
// # 文件组织
//
//   - cell.go        - Cell, Grid（坐标、旋转）
//   - identity.go    - Identity, PickValue
//   - arbitration.go - Side, Arbitration
//   - enums.go       - CandidateState, EndReason, Phase
//   - events.go      - 事件类型（候选、选中、回合、结束、发现故障）
//   - errors.go      - 公共错误定义
//
// # 坐标约定
//
// 跨线传输的坐标总是发送方视角，接收方调用 Grid.Rotate 恰好一次：
//
//	grid := types.Grid{Columns: 7, Rows: 9}
//	grid.Rotate(types.Cell{Column: 2, Row: 3}) // (4,5)
package types
