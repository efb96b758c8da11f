package types

import "fmt"

// ============================================================================
//                              Cell - 棋盘格
// ============================================================================

// Cell 棋盘格坐标（列, 行）
type Cell struct {
	Column int
	Row    int
}

// String 返回 "(列,行)" 形式
func (c Cell) String() string {
	return fmt.Sprintf("(%d,%d)", c.Column, c.Row)
}

// ============================================================================
//                              Grid - 棋盘尺寸
// ============================================================================

// Grid 棋盘尺寸
//
// 双方使用相反的视角观察同一棋盘，跨线传输的坐标总是发送方视角，
// 接收方通过 Rotate 恰好旋转一次。
type Grid struct {
	Columns int
	Rows    int
}

// MaxColumn 最大列号
func (g Grid) MaxColumn() int {
	return g.Columns - 1
}

// MaxRow 最大行号
func (g Grid) MaxRow() int {
	return g.Rows - 1
}

// Valid 尺寸是否有效
func (g Grid) Valid() bool {
	return g.Columns > 0 && g.Rows > 0
}

// Contains 坐标是否在棋盘内
func (g Grid) Contains(c Cell) bool {
	return c.Column >= 0 && c.Column < g.Columns && c.Row >= 0 && c.Row < g.Rows
}

// Rotate 返回旋转 180° 后的坐标
//
// Rotate 是对合映射：Rotate(Rotate(c)) == c。
func (g Grid) Rotate(c Cell) Cell {
	return Cell{Column: g.MaxColumn() - c.Column, Row: g.MaxRow() - c.Row}
}

// Center 返回旋转不动点
//
// 只有行列数都为奇数时才存在不动点。
func (g Grid) Center() (Cell, bool) {
	if g.Columns%2 == 0 || g.Rows%2 == 0 {
		return Cell{}, false
	}
	return Cell{Column: g.MaxColumn() / 2, Row: g.MaxRow() / 2}, true
}

// Cells 按列优先顺序返回所有格子
func (g Grid) Cells() []Cell {
	cells := make([]Cell, 0, g.Columns*g.Rows)
	for col := 0; col < g.Columns; col++ {
		for row := 0; row < g.Rows; row++ {
			cells = append(cells, Cell{Column: col, Row: row})
		}
	}
	return cells
}

// String 返回 "列x行"
func (g Grid) String() string {
	return fmt.Sprintf("%dx%d", g.Columns, g.Rows)
}
