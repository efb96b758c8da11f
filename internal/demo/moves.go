package demo

import (
	"errors"

	pkgif "github.com/dep2p/go-duet/pkg/interfaces"
	"github.com/dep2p/go-duet/pkg/types"
)

// ErrUnreadableBoard 棋盘不支持查询占用
var ErrUnreadableBoard = errors.New("demo: board does not expose occupancy")

// FirstEmpty 选择第一个空格（先列后行）；棋盘已满时放弃
type FirstEmpty struct{}

var _ pkgif.MoveSource = FirstEmpty{}

// NextMove 实现 MoveSource
func (FirstEmpty) NextMove(board pkgif.Board) (types.Cell, bool, error) {
	r, ok := board.(Reader)
	if !ok {
		return types.Cell{}, false, ErrUnreadableBoard
	}
	for _, cell := range r.Grid().Cells() {
		if _, taken := r.Owner(cell); !taken {
			return cell, true, nil
		}
	}
	return types.Cell{}, false, pkgif.ErrNoMoveAvailable
}

// Queue 依次返回预设的走法，队列为空时放弃（用于测试和脚本）
type Queue struct {
	cells []types.Cell
}

// NewQueue 创建走法队列
func NewQueue(cells ...types.Cell) *Queue {
	return &Queue{cells: cells}
}

// NextMove 实现 MoveSource
func (q *Queue) NextMove(pkgif.Board) (types.Cell, bool, error) {
	if len(q.cells) == 0 {
		return types.Cell{}, false, pkgif.ErrNoMoveAvailable
	}
	cell := q.cells[0]
	q.cells = q.cells[1:]
	return cell, true, nil
}
