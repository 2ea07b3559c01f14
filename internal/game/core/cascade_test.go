package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// assertSettled checks the post-cascade invariant: every cell within
// capacity and every empty cell at zero power.
func assertSettled(t *testing.T, b *Board) {
	t.Helper()
	for i, cell := range b.Cells() {
		assert.GreaterOrEqual(t, cell.Power, 0, "cell %d", i)
		assert.LessOrEqual(t, cell.Power, Capacity, "cell %d", i)
		if cell.IsEmpty() {
			assert.Equal(t, 0, cell.Power, "empty cell %d must hold no power", i)
		}
	}
}

func mustSet(t *testing.T, b *Board, at Coordinate, owner, power int) {
	t.Helper()
	require.NoError(t, b.Set(at, Cell{Owner: owner, Power: power}))
}

func TestResolve_CornerExplosion(t *testing.T) {
	b := NewBoard()
	mustSet(t, b, Coordinate{0, 0}, 0, 5)

	log, err := Resolve(b, Coordinate{0, 0})
	require.NoError(t, err)

	require.Len(t, log, 1)
	assert.Equal(t, Coordinate{0, 0}, log[0].Origin)
	assert.Equal(t, 0, log[0].Player)
	assert.Equal(t, 0, log[0].Wave)
	assert.Equal(t, []Coordinate{{1, 0}, {0, 1}}, log[0].Captured,
		"corner cells push onto exactly two neighbors, in fixed order")

	origin, err := b.Get(Coordinate{0, 0})
	require.NoError(t, err)
	assert.True(t, origin.IsEmpty(), "exploded cell ends up empty")
	assert.Equal(t, 0, origin.Power)

	for _, at := range []Coordinate{{1, 0}, {0, 1}} {
		cell, err := b.Get(at)
		require.NoError(t, err)
		assert.Equal(t, 0, cell.Owner)
		assert.Equal(t, 1, cell.Power)
	}
	assertSettled(t, b)
}

func TestResolve_SeedWithinCapacityIsNoOp(t *testing.T) {
	b := NewBoard()
	mustSet(t, b, Coordinate{0, 0}, 0, 4)

	log, err := Resolve(b, Coordinate{0, 0})
	require.NoError(t, err)
	assert.Empty(t, log, "power 4 sits exactly at capacity and must not explode")

	cell, err := b.Get(Coordinate{0, 0})
	require.NoError(t, err)
	assert.Equal(t, Cell{Owner: 0, Power: 4}, cell)
}

func TestResolve_OutOfBoundsSeed(t *testing.T) {
	b := NewBoard()
	_, err := Resolve(b, Coordinate{-1, 3})
	assert.ErrorIs(t, err, ErrOutOfBounds)
}

func TestResolve_CrossPlayerChain(t *testing.T) {
	// A full blue cell is captured by a red explosion, goes over capacity,
	// and explodes in the same cascade, capturing its own neighbors for red.
	b := NewBoard()
	mustSet(t, b, Coordinate{0, 0}, 0, 5)
	mustSet(t, b, Coordinate{0, 1}, 1, 4)

	log, err := Resolve(b, Coordinate{0, 0})
	require.NoError(t, err)

	require.Len(t, log, 2)
	assert.Equal(t, Coordinate{0, 0}, log[0].Origin)
	assert.Equal(t, 0, log[0].Player)
	assert.Equal(t, 0, log[0].Wave)
	assert.Equal(t, Coordinate{0, 1}, log[1].Origin)
	assert.Equal(t, 0, log[1].Player, "captured cell explodes for its captor")
	assert.Equal(t, 1, log[1].Wave)

	// The chained explosion recaptures the first origin and reaches (0,2)
	// and (1,1), all for player 0.
	expectations := map[Coordinate]Cell{
		{0, 0}: {Owner: 0, Power: 1},
		{0, 1}: {Owner: NoOwner, Power: 0},
		{0, 2}: {Owner: 0, Power: 1},
		{1, 0}: {Owner: 0, Power: 1},
		{1, 1}: {Owner: 0, Power: 1},
	}
	for at, want := range expectations {
		cell, err := b.Get(at)
		require.NoError(t, err)
		assert.Equal(t, want, cell, "cell %s", at)
	}
	assert.Equal(t, 0, b.CountOwned(1), "blue lost its only cell")
	assertSettled(t, b)
}

func TestResolve_WaveNumbering(t *testing.T) {
	// Three cells in a row detonate one wave apart.
	b := NewBoard()
	mustSet(t, b, Coordinate{0, 0}, 0, 5)
	mustSet(t, b, Coordinate{0, 1}, 1, 4)
	mustSet(t, b, Coordinate{0, 2}, 1, 4)

	log, err := Resolve(b, Coordinate{0, 0})
	require.NoError(t, err)

	require.Len(t, log, 3)
	waves := []int{log[0].Wave, log[1].Wave, log[2].Wave}
	assert.Equal(t, []int{0, 1, 2}, waves)
	origins := []Coordinate{log[0].Origin, log[1].Origin, log[2].Origin}
	assert.Equal(t, []Coordinate{{0, 0}, {0, 1}, {0, 2}}, origins)
	for _, e := range log {
		assert.Equal(t, 0, e.Player, "the whole chain belongs to the triggering player")
	}
	assertSettled(t, b)
}

func TestResolve_DuplicateQueueEntriesAreSkipped(t *testing.T) {
	// Two wave-1 explosions both push the same wave-2 cell over capacity,
	// queueing it twice. It must detonate exactly once; the re-check at
	// dequeue time drops the stale entry.
	b := NewBoard()
	mustSet(t, b, Coordinate{2, 2}, 0, 5) // seed
	mustSet(t, b, Coordinate{1, 2}, 1, 4) // goes to 5 in wave 0
	mustSet(t, b, Coordinate{2, 1}, 1, 4) // goes to 5 in wave 0
	mustSet(t, b, Coordinate{1, 1}, 2, 4) // pushed by both wave-1 explosions

	log, err := Resolve(b, Coordinate{2, 2})
	require.NoError(t, err)

	require.Len(t, log, 4, "four detonations despite the duplicate entry")
	detonations := map[Coordinate]int{}
	for _, e := range log {
		detonations[e.Origin]++
	}
	assert.Equal(t, 1, detonations[Coordinate{1, 1}], "doubly queued cell detonates once")
	assertSettled(t, b)
}

func TestResolve_SaturatedBoardSettles(t *testing.T) {
	// Even a board loaded far beyond any reachable state settles. Once a
	// cell has detonated it can collect at most one bump per neighbor,
	// never enough to lift it back over capacity, so each cell detonates
	// at most once and the cascade stays far below the stall cap.
	b := NewBoard()
	for i := 0; i < Rows*Cols; i++ {
		mustSet(t, b, FromIndex(i), 0, 50)
	}

	log, err := Resolve(b, Coordinate{0, 0})
	require.NoError(t, err)
	require.Len(t, log, Rows*Cols, "every cell detonates exactly once")

	detonations := map[Coordinate]int{}
	for _, e := range log {
		detonations[e.Origin]++
	}
	for at, n := range detonations {
		assert.Equal(t, 1, n, "cell %s", at)
	}
	assertSettled(t, b)
}

func TestResolve_PowerStrictlyDecreases(t *testing.T) {
	// Each explosion removes at least five power and returns at most four,
	// so the cascade always reduces the board total.
	b := NewBoard()
	mustSet(t, b, Coordinate{3, 3}, 0, 5)
	mustSet(t, b, Coordinate{3, 4}, 1, 4)
	mustSet(t, b, Coordinate{2, 3}, 1, 4)
	mustSet(t, b, Coordinate{4, 3}, 1, 3)

	before := totalPower(b)
	log, err := Resolve(b, Coordinate{3, 3})
	require.NoError(t, err)
	require.NotEmpty(t, log)

	after := totalPower(b)
	assert.Less(t, after, before)
	assert.GreaterOrEqual(t, before-after, len(log),
		"every detonation costs at least one net power")
	assertSettled(t, b)
}

func totalPower(b *Board) int {
	total := 0
	for _, cell := range b.Cells() {
		total += cell.Power
	}
	return total
}
