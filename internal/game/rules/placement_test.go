package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colorwargame/colorwar/internal/game/core"
	"github.com/colorwargame/colorwar/internal/testutil"
)

type fakePlayer struct {
	id    int
	alive bool
	moved bool
}

func (p fakePlayer) GetID() int         { return p.id }
func (p fakePlayer) IsAlive() bool      { return p.alive }
func (p fakePlayer) HasMovedOnce() bool { return p.moved }

func TestValidatePlacement(t *testing.T) {
	board := testutil.BoardWithCells(t, map[core.Coordinate]core.Cell{
		{Row: 0, Col: 0}: {Owner: 0, Power: 3},
		{Row: 7, Col: 7}: {Owner: 1, Power: 2},
	})

	tests := []struct {
		name    string
		player  fakePlayer
		at      core.Coordinate
		wantErr error
	}{
		{
			name:   "first move on empty cell",
			player: fakePlayer{id: 2, alive: true, moved: false},
			at:     core.Coordinate{Row: 4, Col: 4},
		},
		{
			name:    "first move on occupied cell",
			player:  fakePlayer{id: 2, alive: true, moved: false},
			at:      core.Coordinate{Row: 0, Col: 0},
			wantErr: core.ErrCellOccupied,
		},
		{
			name:   "reinforce own cell",
			player: fakePlayer{id: 0, alive: true, moved: true},
			at:     core.Coordinate{Row: 0, Col: 0},
		},
		{
			name:    "reinforce opponent cell",
			player:  fakePlayer{id: 0, alive: true, moved: true},
			at:      core.Coordinate{Row: 7, Col: 7},
			wantErr: core.ErrNotOwned,
		},
		{
			name:    "reinforce empty cell",
			player:  fakePlayer{id: 0, alive: true, moved: true},
			at:      core.Coordinate{Row: 3, Col: 3},
			wantErr: core.ErrNotOwned,
		},
		{
			name:    "out of bounds",
			player:  fakePlayer{id: 0, alive: true, moved: true},
			at:      core.Coordinate{Row: 8, Col: 0},
			wantErr: core.ErrOutOfBounds,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePlacement(board, tt.player, tt.at)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLegalPlacements(t *testing.T) {
	board := testutil.BoardWithCells(t, map[core.Coordinate]core.Cell{
		{Row: 0, Col: 0}: {Owner: 0, Power: 3},
		{Row: 0, Col: 1}: {Owner: 0, Power: 1},
		{Row: 7, Col: 7}: {Owner: 1, Power: 2},
	})

	t.Run("before first move every empty cell is legal", func(t *testing.T) {
		legal := LegalPlacements(board, fakePlayer{id: 2, alive: true, moved: false})
		assert.Len(t, legal, core.Rows*core.Cols-3)
		assert.NotContains(t, legal, core.Coordinate{Row: 0, Col: 0})
		assert.NotContains(t, legal, core.Coordinate{Row: 7, Col: 7})
	})

	t.Run("after first move only owned cells are legal", func(t *testing.T) {
		legal := LegalPlacements(board, fakePlayer{id: 0, alive: true, moved: true})
		assert.Equal(t, []core.Coordinate{{Row: 0, Col: 0}, {Row: 0, Col: 1}}, legal)
	})

	t.Run("eliminated player has no legal placement", func(t *testing.T) {
		legal := LegalPlacements(board, fakePlayer{id: 1, alive: false, moved: true})
		assert.Empty(t, legal)
	})
}

func TestLegalPlacementMask(t *testing.T) {
	board := testutil.BoardWithCells(t, map[core.Coordinate]core.Cell{
		{Row: 2, Col: 3}: {Owner: 1, Power: 2},
	})

	mask := LegalPlacementMask(board, fakePlayer{id: 1, alive: true, moved: true})
	require.Len(t, mask, core.Rows*core.Cols)

	for i, legal := range mask {
		if i == (core.Coordinate{Row: 2, Col: 3}).Index() {
			assert.True(t, legal, "owned cell should be legal")
		} else {
			assert.False(t, legal, "index %d should be illegal", i)
		}
	}
}
