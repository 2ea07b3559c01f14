package game

import "github.com/colorwargame/colorwar/internal/game/rules"

// Derived player bookkeeping. Tile counts are never stored; every answer
// comes from a fresh board scan so counts cannot drift from the cells.

// TileCount returns the number of cells the seat owns right now.
func (e *Engine) TileCount(player int) int {
	return e.board.CountOwned(player)
}

// AlivePlayers returns the ids of alive seats in seat order.
func (e *Engine) AlivePlayers() []int {
	alive := make([]int, 0, len(e.players))
	for _, p := range e.players {
		if p.Alive {
			alive = append(alive, p.ID)
		}
	}
	return alive
}

// refreshEliminations rescans every seat, including the one that just
// moved, and marks those that have made a move but hold no cells. Returns
// the ids newly eliminated by this pass, in seat order.
func (e *Engine) refreshEliminations() []int {
	var eliminated []int
	for i := range e.players {
		p := &e.players[i]
		if !p.Alive || !p.HasMoved {
			continue
		}
		if e.board.CountOwned(p.ID) == 0 {
			p.Alive = false
			eliminated = append(eliminated, p.ID)
			e.logger.Info().
				Int("player_id", p.ID).
				Stringer("color", p.Color).
				Int("turn", e.turn).
				Msg("Player eliminated")
		}
	}
	return eliminated
}

func (e *Engine) isAlive(id int) bool {
	return e.players[id].Alive
}

func (e *Engine) rulesPlayers() []rules.Player {
	out := make([]rules.Player, len(e.players))
	for i, p := range e.players {
		out[i] = p
	}
	return out
}
