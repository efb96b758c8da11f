package demo

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	pkgif "github.com/dep2p/go-duet/pkg/interfaces"
	"github.com/dep2p/go-duet/pkg/types"
)

var (
	// ErrOutOfGrid 坐标不在棋盘内
	ErrOutOfGrid = errors.New("demo: cell out of grid")

	// ErrOccupied 格子已被占用
	ErrOccupied = errors.New("demo: cell occupied")
)

// Reader 可查询占用情况的棋盘
type Reader interface {
	pkgif.Board

	// Owner 返回格子的占有者
	Owner(cell types.Cell) (types.Identity, bool)
}

var _ Reader = (*Board)(nil)

// Board 内存棋盘
type Board struct {
	grid types.Grid

	mu    sync.RWMutex
	cells map[types.Cell]types.Identity
}

// NewBoard 创建空棋盘
func NewBoard(grid types.Grid) (*Board, error) {
	if !grid.Valid() {
		return nil, fmt.Errorf("%w: %s", types.ErrInvalidGrid, grid)
	}
	return &Board{
		grid:  grid,
		cells: make(map[types.Cell]types.Identity),
	}, nil
}

// Grid 返回棋盘尺寸
func (b *Board) Grid() types.Grid {
	return b.grid
}

// Place 落子
func (b *Board) Place(cell types.Cell, owner types.Identity) error {
	if !b.grid.Contains(cell) {
		return fmt.Errorf("%w: %s", ErrOutOfGrid, cell)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if prev, ok := b.cells[cell]; ok {
		return fmt.Errorf("%w: %s by %s", ErrOccupied, cell, prev)
	}
	b.cells[cell] = owner
	return nil
}

// Owner 返回格子的占有者
func (b *Board) Owner(cell types.Cell) (types.Identity, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	id, ok := b.cells[cell]
	return id, ok
}

// Count 返回已落子数
func (b *Board) Count() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.cells)
}

// Full 棋盘是否已满
func (b *Board) Full() bool {
	return b.Count() == b.grid.Columns*b.grid.Rows
}

// String 逐行渲染，空格为 '.'
func (b *Board) String() string {
	b.mu.RLock()
	defer b.mu.RUnlock()

	var sb strings.Builder
	for r := 0; r < b.grid.Rows; r++ {
		for c := 0; c < b.grid.Columns; c++ {
			if id, ok := b.cells[types.Cell{Column: c, Row: r}]; ok {
				sb.WriteByte(byte(id))
			} else {
				sb.WriteByte('.')
			}
		}
		if r < b.grid.Rows-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}
