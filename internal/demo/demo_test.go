package demo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgif "github.com/dep2p/go-duet/pkg/interfaces"
	"github.com/dep2p/go-duet/pkg/types"
)

// TestBoard_Place 测试落子
func TestBoard_Place(t *testing.T) {
	b, err := NewBoard(types.Grid{Columns: 3, Rows: 2})
	require.NoError(t, err)

	require.NoError(t, b.Place(types.Cell{Column: 2, Row: 1}, types.IdentityRed))
	assert.ErrorIs(t, b.Place(types.Cell{Column: 2, Row: 1}, types.IdentityBlue), ErrOccupied)
	assert.ErrorIs(t, b.Place(types.Cell{Column: 3, Row: 0}, types.IdentityBlue), ErrOutOfGrid)

	owner, ok := b.Owner(types.Cell{Column: 2, Row: 1})
	assert.True(t, ok)
	assert.Equal(t, types.IdentityRed, owner)
	assert.Equal(t, 1, b.Count())
	assert.Equal(t, "...\n..r", b.String())

	_, err = NewBoard(types.Grid{})
	assert.ErrorIs(t, err, types.ErrInvalidGrid)
}

// TestFirstEmpty 测试先列后行扫描
func TestFirstEmpty(t *testing.T) {
	b, err := NewBoard(types.Grid{Columns: 2, Rows: 2})
	require.NoError(t, err)

	var order []types.Cell
	for {
		cell, ready, err := FirstEmpty{}.NextMove(b)
		if err != nil {
			assert.ErrorIs(t, err, pkgif.ErrNoMoveAvailable)
			break
		}
		require.True(t, ready)
		require.NoError(t, b.Place(cell, types.IdentityGreen))
		order = append(order, cell)
	}

	assert.Equal(t, []types.Cell{
		{Column: 0, Row: 0}, {Column: 0, Row: 1}, {Column: 1, Row: 0}, {Column: 1, Row: 1},
	}, order)
	assert.True(t, b.Full())
}

// TestFirstEmpty_Unreadable 测试不可查询的棋盘
func TestFirstEmpty_Unreadable(t *testing.T) {
	var board pkgif.Board = struct{ pkgif.Board }{}
	_, _, err := FirstEmpty{}.NextMove(board)
	assert.ErrorIs(t, err, ErrUnreadableBoard)
}

// TestQueue 测试预设走法
func TestQueue(t *testing.T) {
	q := NewQueue(types.Cell{Column: 1, Row: 1})
	cell, ready, err := q.NextMove(nil)
	require.NoError(t, err)
	assert.True(t, ready)
	assert.Equal(t, types.Cell{Column: 1, Row: 1}, cell)

	_, _, err = q.NextMove(nil)
	assert.ErrorIs(t, err, pkgif.ErrNoMoveAvailable)
}
