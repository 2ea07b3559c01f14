package core

import "fmt"

// maxCascadeSteps bounds the number of explosions processed in one cascade.
// Every explosion removes at least Capacity+1 power from its origin and adds
// at most 4 across its neighbors, so total board power strictly decreases
// with each step and a legitimate cascade settles well inside this cap.
// Tripping it means a logic bug, not a long game.
const maxCascadeSteps = Rows * Cols * (Capacity + 1)

// Explosion records one cell detonation inside a cascade. Wave is the
// queue generation counted from the triggering cell; renderers pace the
// animation by it. Captured lists the in-bounds neighbors that received
// power and ownership, in the fixed neighbor order.
type Explosion struct {
	Origin   Coordinate   `json:"origin"`
	Player   int          `json:"player"`
	Wave     int          `json:"wave"`
	Captured []Coordinate `json:"captured"`
}

type overflowEntry struct {
	at   Coordinate
	wave int
}

// Resolve drives the board to a settled state after the cell at start was
// pushed over capacity, returning the ordered explosion log. Each explosion
// empties its cell and pushes one power onto every in-bounds neighbor,
// capturing it for the exploding player regardless of prior owner; neighbors
// pushed over capacity join a FIFO queue. Entries are re-checked at dequeue
// time and skipped once drained, so duplicate entries are tolerated rather
// than prevented.
//
// Returns ErrEngineStalled if the cascade exceeds maxCascadeSteps; callers
// must treat that as fatal to the match.
func Resolve(b *Board, start Coordinate) ([]Explosion, error) {
	if !start.InBounds() {
		return nil, fmt.Errorf("%w: %s", ErrOutOfBounds, start)
	}

	queue := []overflowEntry{{at: start, wave: 0}}
	var log []Explosion

	for len(queue) > 0 {
		entry := queue[0]
		queue = queue[1:]

		cell := b.at(entry.at)
		if cell.Power <= Capacity {
			// Drained by an earlier explosion in this cascade.
			continue
		}
		if len(log) >= maxCascadeSteps {
			return log, fmt.Errorf("%w: %d explosions without settling", ErrEngineStalled, len(log))
		}

		exploder := cell.Owner
		cell.Owner = NoOwner
		cell.Power = 0

		neighbors := entry.at.Neighbors()
		for _, n := range neighbors {
			target := b.at(n)
			target.Owner = exploder
			target.Power++
			if target.Power > Capacity {
				queue = append(queue, overflowEntry{at: n, wave: entry.wave + 1})
			}
		}

		log = append(log, Explosion{
			Origin:   entry.at,
			Player:   exploder,
			Wave:     entry.wave,
			Captured: neighbors,
		})
	}

	return log, nil
}
