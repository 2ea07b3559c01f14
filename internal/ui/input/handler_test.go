package input

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colorwargame/colorwar/internal/game/core"
)

func TestScreenToCellWithBannerOffset(t *testing.T) {
	h := NewHandler(80)
	h.SetBoardOffset(0, 80)

	tests := []struct {
		name   string
		x, y   int
		want   core.Coordinate
		inside bool
	}{
		{"top left cell", 0, 80, core.NewCoordinate(0, 0), true},
		{"last pixel of top left cell", 79, 159, core.NewCoordinate(0, 0), true},
		{"second row and column", 80, 160, core.NewCoordinate(1, 1), true},
		{"bottom right cell", 639, 719, core.NewCoordinate(7, 7), true},
		{"inside the banner strip", 300, 40, core.Coordinate{}, false},
		{"left of the window", -1, 200, core.Coordinate{}, false},
		{"right of the board", 640, 200, core.Coordinate{}, false},
		{"below the board", 100, 720, core.Coordinate{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := h.screenToCell(tt.x, tt.y)
			require.Equal(t, tt.inside, ok)
			if tt.inside {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestScreenToCellZeroOffset(t *testing.T) {
	h := NewHandler(64)

	got, ok := h.screenToCell(65, 0)
	require.True(t, ok)
	assert.Equal(t, core.NewCoordinate(0, 1), got)
}

func TestClickedCellRequiresClick(t *testing.T) {
	h := NewHandler(80)

	_, ok := h.ClickedCell()
	assert.False(t, ok)
}
