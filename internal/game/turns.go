package game

import "math/rand"

// TurnOrder is the fixed seating sequence for one match plus a cursor.
// The permutation is drawn once at match start and never changes;
// eliminated players are skipped on advance, not removed.
type TurnOrder struct {
	order  []int
	cursor int
}

// NewTurnOrder draws a uniform random permutation of n seat ids.
func NewTurnOrder(n int, rng *rand.Rand) *TurnOrder {
	return &TurnOrder{order: rng.Perm(n)}
}

// Current returns the seat whose move it is.
func (t *TurnOrder) Current() int {
	return t.order[t.cursor]
}

// Order returns a copy of the permutation.
func (t *TurnOrder) Order() []int {
	out := make([]int, len(t.order))
	copy(out, t.order)
	return out
}

// Advance moves the cursor to the next alive seat, wrapping around the
// permutation. With one or zero alive seats it is a no-op; the engine is
// expected to have declared the result instead of asking for another turn.
func (t *TurnOrder) Advance(alive func(id int) bool) {
	count := 0
	for _, id := range t.order {
		if alive(id) {
			count++
		}
	}
	if count <= 1 {
		return
	}
	for {
		t.cursor = (t.cursor + 1) % len(t.order)
		if alive(t.order[t.cursor]) {
			return
		}
	}
}
