package core

import "fmt"

// Coordinate addresses a board cell by row and column.
type Coordinate struct {
	Row, Col int
}

// NewCoordinate creates a coordinate from row and column values.
func NewCoordinate(row, col int) Coordinate {
	return Coordinate{Row: row, Col: col}
}

// FromIndex creates a coordinate from a row-major cell index.
func FromIndex(idx int) Coordinate {
	return Coordinate{
		Row: idx / Cols,
		Col: idx % Cols,
	}
}

// InBounds reports whether the coordinate lies on the board.
func (c Coordinate) InBounds() bool {
	return c.Row >= 0 && c.Row < Rows && c.Col >= 0 && c.Col < Cols
}

// Index converts the coordinate to a row-major cell index.
func (c Coordinate) Index() int {
	return c.Row*Cols + c.Col
}

// IsAdjacentTo checks if this coordinate is orthogonally adjacent to another.
func (c Coordinate) IsAdjacentTo(other Coordinate) bool {
	dr := c.Row - other.Row
	dc := c.Col - other.Col
	return (dr == 0 && (dc == 1 || dc == -1)) || (dc == 0 && (dr == 1 || dr == -1))
}

// Neighbors returns the in-bounds orthogonal neighbors in the fixed order
// up, down, left, right. Corner cells get 2 entries, edges 3, interior 4.
// The order is identical on every call; cascade logs and tests rely on it.
func (c Coordinate) Neighbors() []Coordinate {
	candidates := [4]Coordinate{
		{Row: c.Row - 1, Col: c.Col}, // up
		{Row: c.Row + 1, Col: c.Col}, // down
		{Row: c.Row, Col: c.Col - 1}, // left
		{Row: c.Row, Col: c.Col + 1}, // right
	}

	neighbors := make([]Coordinate, 0, 4)
	for _, n := range candidates {
		if n.InBounds() {
			neighbors = append(neighbors, n)
		}
	}
	return neighbors
}

// String returns a string representation of the coordinate.
func (c Coordinate) String() string {
	return fmt.Sprintf("(%d,%d)", c.Row, c.Col)
}
