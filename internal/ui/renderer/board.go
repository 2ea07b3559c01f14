package renderer

import (
	"image/color"
	"strconv"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font"

	"github.com/colorwargame/colorwar/internal/common"
	"github.com/colorwargame/colorwar/internal/game"
	"github.com/colorwargame/colorwar/internal/game/core"
)

const (
	gridLineWidth = 2
	// Disc radius as a fraction of the cell size.
	discScale = 0.36
)

// BoardRenderer draws the grid, the owned discs and their power digits.
type BoardRenderer struct {
	cellSize    int
	defaultFont font.Face

	offsetX int
	offsetY int
}

// NewBoardRenderer returns a renderer ready to use.
func NewBoardRenderer(cellSize int, f font.Face) *BoardRenderer {
	return &BoardRenderer{cellSize: cellSize, defaultFont: f}
}

// SetOffset positions the board inside the window.
func (br *BoardRenderer) SetOffset(x, y int) {
	br.offsetX = x
	br.offsetY = y
}

// CellCenter returns the screen position of the middle of a cell.
func (br *BoardRenderer) CellCenter(at core.Coordinate) (float32, float32) {
	x := br.offsetX + at.Col*br.cellSize + br.cellSize/2
	y := br.offsetY + at.Row*br.cellSize + br.cellSize/2
	return float32(x), float32(y)
}

// Draw renders the board on the supplied Ebiten screen.
func (br *BoardRenderer) Draw(screen *ebiten.Image, board *core.Board, players []game.Player) {
	if board == nil {
		return
	}

	// The grid lines are the seams between cell backgrounds.
	vector.DrawFilledRect(screen,
		float32(br.offsetX), float32(br.offsetY),
		float32(core.Cols*br.cellSize), float32(core.Rows*br.cellSize),
		common.GridLineColor, false)

	for i, cell := range board.Cells() {
		at := core.FromIndex(i)

		screenX := float64(br.offsetX + at.Col*br.cellSize)
		screenY := float64(br.offsetY + at.Row*br.cellSize)

		bg := ebiten.NewImage(br.cellSize-gridLineWidth, br.cellSize-gridLineWidth)
		bg.Fill(common.EmptyCellColor)
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Translate(screenX+gridLineWidth/2, screenY+gridLineWidth/2)
		screen.DrawImage(bg, op)

		if cell.IsEmpty() {
			continue
		}

		cx, cy := br.CellCenter(at)
		vector.DrawFilledCircle(screen, cx, cy,
			float32(br.cellSize)*discScale, seatColor(players, cell.Owner), true)

		if br.defaultFont != nil {
			powerStr := strconv.Itoa(cell.Power)

			// text bounds in pixels
			b := text.BoundString(br.defaultFont, powerStr)
			textW := b.Max.X - b.Min.X
			textH := b.Max.Y - b.Min.Y

			x := int(screenX) + (br.cellSize-textW)/2
			y := int(screenY) + (br.cellSize+textH)/2

			text.Draw(screen, powerStr, br.defaultFont, x, y, common.PowerTextColor)
		}
	}
}

// CenteredText draws msg horizontally centered within width at the given
// baseline.
func (br *BoardRenderer) CenteredText(screen *ebiten.Image, msg string, width, baseline int, clr color.Color) {
	if br.defaultFont == nil || msg == "" {
		return
	}
	b := text.BoundString(br.defaultFont, msg)
	textW := b.Max.X - b.Min.X
	x := (width - textW) / 2
	text.Draw(screen, msg, br.defaultFont, x, baseline, clr)
}

// seatColor resolves a cell owner to the seat's display color.
func seatColor(players []game.Player, owner int) color.Color {
	for _, p := range players {
		if p.ID == owner {
			return p.Color.RGBA()
		}
	}
	return common.EmptyCellColor
}
