package input

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/colorwargame/colorwar/internal/game/core"
)

// Handler polls the mouse once per frame and translates clicks into board
// coordinates.
type Handler struct {
	// Mouse state
	mouseX, mouseY int
	clicked        bool

	// UI state
	cellSize     int
	boardOffsetX int
	boardOffsetY int
}

func NewHandler(cellSize int) *Handler {
	return &Handler{cellSize: cellSize}
}

// Update refreshes the mouse state. Call once at the top of every frame,
// before reading clicks.
func (h *Handler) Update() {
	h.mouseX, h.mouseY = CursorPosition()
	h.clicked = IsLeftClickJustPressed()
}

// SetBoardOffset positions the board inside the window. Pixels above or
// left of the offset are outside the grid.
func (h *Handler) SetBoardOffset(x, y int) {
	h.boardOffsetX = x
	h.boardOffsetY = y
}

// ClickedCell returns the cell under a left click that started this frame.
func (h *Handler) ClickedCell() (core.Coordinate, bool) {
	if !h.clicked {
		return core.Coordinate{}, false
	}
	return h.screenToCell(h.mouseX, h.mouseY)
}

// HoveredCell returns the cell currently under the cursor.
func (h *Handler) HoveredCell() (core.Coordinate, bool) {
	return h.screenToCell(h.mouseX, h.mouseY)
}

// screenToCell maps a pixel position to a board coordinate. Integer
// division rounds toward zero, so pixels left of or above the board must be
// rejected before dividing or they would land on row/column zero.
func (h *Handler) screenToCell(x, y int) (core.Coordinate, bool) {
	x -= h.boardOffsetX
	y -= h.boardOffsetY
	if x < 0 || y < 0 {
		return core.Coordinate{}, false
	}
	at := core.NewCoordinate(y/h.cellSize, x/h.cellSize)
	if !at.InBounds() {
		return core.Coordinate{}, false
	}
	return at, true
}

// RestartPressed reports whether R was pressed this frame.
func (h *Handler) RestartPressed() bool {
	return inpututil.IsKeyJustPressed(ebiten.KeyR)
}

// QuitPressed reports whether Escape was pressed this frame.
func (h *Handler) QuitPressed() bool {
	return inpututil.IsKeyJustPressed(ebiten.KeyEscape)
}
