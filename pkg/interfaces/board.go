package interfaces

//go:generate mockgen -source=board.go -destination=mocks/board_mock.go -package=mocks

import (
	"errors"

	"github.com/dep2p/go-duet/pkg/types"
)

// ErrNoMoveAvailable 走子来源无棋可走，视为主动退出
var ErrNoMoveAvailable = errors.New("no move available")

// Board 定义棋盘接口
//
// 棋盘由宿主应用拥有，对局协调器只做落子。
type Board interface {
	// Grid 返回棋盘尺寸
	Grid() types.Grid

	// Place 在本方视角坐标落子
	Place(cell types.Cell, owner types.Identity) error
}

// MoveSource 定义走子来源
type MoveSource interface {
	// NextMove 返回下一步（本方视角）
	//
	// ready 为 false 表示尚未决定，下一个 tick 再问；
	// 返回 ErrNoMoveAvailable 表示放弃对局。
	NextMove(board Board) (cell types.Cell, ready bool, err error)
}
