package rules

import (
	"fmt"

	"github.com/colorwargame/colorwar/internal/game/core"
)

// Player is the minimal player view the rules need. Defined here to avoid
// a circular import with the game package.
type Player interface {
	GetID() int
	IsAlive() bool
	HasMovedOnce() bool
}

// ValidatePlacement checks whether player may place on the cell at `at`.
// A first move must land on an empty cell; every later move reinforces a
// cell the player already owns. Turn order is the engine's concern and is
// not checked here.
func ValidatePlacement(board *core.Board, player Player, at core.Coordinate) error {
	cell, err := board.Get(at)
	if err != nil {
		return err
	}

	if !player.HasMovedOnce() {
		if !cell.IsEmpty() {
			return fmt.Errorf("%w: %s", core.ErrCellOccupied, at)
		}
		return nil
	}

	if cell.Owner != player.GetID() {
		return fmt.Errorf("%w: %s", core.ErrNotOwned, at)
	}
	return nil
}

// LegalPlacements returns every coordinate player may place on, in
// row-major order: every empty cell before the first move, every owned cell
// afterwards. Eliminated players have none.
func LegalPlacements(board *core.Board, player Player) []core.Coordinate {
	if !player.IsAlive() {
		return nil
	}

	var legal []core.Coordinate
	for i, cell := range board.Cells() {
		if player.HasMovedOnce() {
			if cell.Owner == player.GetID() {
				legal = append(legal, core.FromIndex(i))
			}
		} else if cell.IsEmpty() {
			legal = append(legal, core.FromIndex(i))
		}
	}
	return legal
}

// LegalPlacementMask returns a Rows*Cols boolean mask of legal placements,
// indexed row-major.
func LegalPlacementMask(board *core.Board, player Player) []bool {
	mask := make([]bool, core.Rows*core.Cols)
	for _, at := range LegalPlacements(board, player) {
		mask[at.Index()] = true
	}
	return mask
}
