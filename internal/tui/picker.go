package tui

import (
	"sync"

	pkgif "github.com/dep2p/go-duet/pkg/interfaces"
	"github.com/dep2p/go-duet/pkg/types"
)

// ownerReader 能报告格子占用的棋盘
type ownerReader interface {
	Owner(cell types.Cell) (types.Identity, bool)
}

// Picker 键盘选点的走子来源
//
// 光标移动和确认来自界面，NextMove 由会话在同一循环中调用。
type Picker struct {
	mu      sync.Mutex
	cursor  types.Cell
	pending *types.Cell
}

var _ pkgif.MoveSource = (*Picker)(nil)

// NewPicker 创建选点器，光标在原点
func NewPicker() *Picker {
	return &Picker{}
}

// Cursor 返回光标位置
func (p *Picker) Cursor() types.Cell {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cursor
}

// Move 移动光标并限制在棋盘内
func (p *Picker) Move(dc, dr int, grid types.Grid) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.cursor.Column = clamp(p.cursor.Column+dc, 0, grid.Columns-1)
	p.cursor.Row = clamp(p.cursor.Row+dr, 0, grid.Rows-1)
}

// Confirm 在光标处落子，下一次 NextMove 生效
func (p *Picker) Confirm() {
	p.mu.Lock()
	defer p.mu.Unlock()
	cell := p.cursor
	p.pending = &cell
}

// NextMove 返回已确认的格子；被占用的格子会被忽略
//
// 棋盘已满时返回 ErrNoMoveAvailable。
func (p *Picker) NextMove(board pkgif.Board) (types.Cell, bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if full(board) {
		p.pending = nil
		return types.Cell{}, false, pkgif.ErrNoMoveAvailable
	}
	if p.pending == nil {
		return types.Cell{}, false, nil
	}
	cell := *p.pending
	p.pending = nil

	if !board.Grid().Contains(cell) {
		return types.Cell{}, false, nil
	}
	if r, ok := board.(ownerReader); ok {
		if _, taken := r.Owner(cell); taken {
			return types.Cell{}, false, nil
		}
	}
	return cell, true, nil
}

// full 棋盘无空格；无法读取占用时视为未满
func full(board pkgif.Board) bool {
	r, ok := board.(ownerReader)
	if !ok {
		return false
	}
	for _, cell := range board.Grid().Cells() {
		if _, taken := r.Owner(cell); !taken {
			return false
		}
	}
	return true
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
