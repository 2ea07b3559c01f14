package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/colorwargame/colorwar/internal/common"
	"github.com/colorwargame/colorwar/internal/game/core"
)

// BoardWithCells builds a board holding exactly the given cells
func BoardWithCells(t *testing.T, cells map[core.Coordinate]core.Cell) *core.Board {
	t.Helper()
	board := core.NewBoard()
	for at, cell := range cells {
		require.NoError(t, board.Set(at, cell))
	}
	return board
}

// SeatColors returns the first n palette colors for seating test matches
func SeatColors(n int) []common.Color {
	return append([]common.Color(nil), common.AllColors[:n]...)
}
