package core

import (
	"fmt"
	"strings"
)

// Board geometry and rule constants. The grid is fixed at 8x8 and every cell
// shares the same capacity regardless of how many neighbors it has.
const (
	Rows           = 8
	Cols           = 8
	Capacity       = 4
	FirstMovePower = 3
	NoOwner        = -1
)

// Cell is a single board cell.
// Owner: NoOwner means empty; 0..N-1 are player IDs.
// Power: accumulated charge; an empty cell always holds zero.
type Cell struct {
	Owner int `json:"owner"`
	Power int `json:"power"`
}

// IsEmpty reports whether the cell has no owner.
func (c Cell) IsEmpty() bool { return c.Owner == NoOwner }

// Board holds the grid of cells in row-major order.
type Board struct {
	cells []Cell
}

// NewBoard creates a board with every cell empty.
func NewBoard() *Board {
	b := &Board{cells: make([]Cell, Rows*Cols)}
	for i := range b.cells {
		b.cells[i].Owner = NoOwner
	}
	return b
}

// Get returns the cell at c, or ErrOutOfBounds.
func (b *Board) Get(c Coordinate) (Cell, error) {
	if !c.InBounds() {
		return Cell{}, fmt.Errorf("%w: %s", ErrOutOfBounds, c)
	}
	return b.cells[c.Index()], nil
}

// Set overwrites the cell at c. Only bounds are checked; ownership
// semantics are the caller's responsibility.
func (b *Board) Set(c Coordinate, cell Cell) error {
	if !c.InBounds() {
		return fmt.Errorf("%w: %s", ErrOutOfBounds, c)
	}
	b.cells[c.Index()] = cell
	return nil
}

// at returns the cell pointer for a coordinate already known to be in bounds.
func (b *Board) at(c Coordinate) *Cell {
	return &b.cells[c.Index()]
}

// CountOwned returns the number of cells owned by player, derived by a full
// scan on every call.
func (b *Board) CountOwned(player int) int {
	count := 0
	for i := range b.cells {
		if b.cells[i].Owner == player {
			count++
		}
	}
	return count
}

// OwnedCells returns the coordinates owned by player in row-major order.
func (b *Board) OwnedCells(player int) []Coordinate {
	var owned []Coordinate
	for i := range b.cells {
		if b.cells[i].Owner == player {
			owned = append(owned, FromIndex(i))
		}
	}
	return owned
}

// Occupied returns the number of cells with any owner.
func (b *Board) Occupied() int {
	count := 0
	for i := range b.cells {
		if !b.cells[i].IsEmpty() {
			count++
		}
	}
	return count
}

// Cells returns a copy of the grid in row-major order for read-only use.
func (b *Board) Cells() []Cell {
	out := make([]Cell, len(b.cells))
	copy(out, b.cells)
	return out
}

// String renders the board for logs and the headless demo. Owned cells show
// the owner letter (A..D) and power, empty cells a dot.
func (b *Board) String() string {
	var sb strings.Builder
	for r := 0; r < Rows; r++ {
		for c := 0; c < Cols; c++ {
			if c > 0 {
				sb.WriteByte(' ')
			}
			cell := b.cells[r*Cols+c]
			if cell.IsEmpty() {
				sb.WriteString(" .")
			} else {
				fmt.Fprintf(&sb, "%c%d", 'A'+cell.Owner, cell.Power)
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
