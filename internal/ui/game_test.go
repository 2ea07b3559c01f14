package ui

import (
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colorwargame/colorwar/internal/audio"
	"github.com/colorwargame/colorwar/internal/common"
	"github.com/colorwargame/colorwar/internal/config"
	"github.com/colorwargame/colorwar/internal/game"
	"github.com/colorwargame/colorwar/internal/game/core"
)

func newTestGame(t *testing.T, seed int64) *UIGame {
	t.Helper()
	engine, err := game.NewEngine(game.Config{
		Colors: []common.Color{common.Red, common.Green},
		Rng:    rand.New(rand.NewSource(seed)),
		Logger: zerolog.Nop(),
	})
	require.NoError(t, err)

	sounds := audio.NewManager(config.AudioConfig{}, zerolog.Nop())
	g, err := NewUIGame(engine, sounds, zerolog.Nop())
	require.NoError(t, err)
	return g
}

func TestNewUIGameRequiresDependencies(t *testing.T) {
	sounds := audio.NewManager(config.AudioConfig{}, zerolog.Nop())

	_, err := NewUIGame(nil, sounds, zerolog.Nop())
	require.Error(t, err)

	engine, err := game.NewEngine(game.Config{
		Colors: []common.Color{common.Red, common.Green},
		Logger: zerolog.Nop(),
	})
	require.NoError(t, err)

	_, err = NewUIGame(engine, nil, zerolog.Nop())
	require.Error(t, err)
}

func TestApplyMovePlaysCurrentSeat(t *testing.T) {
	g := newTestGame(t, 3)
	first := g.engine.CurrentPlayer()

	g.applyMove(core.NewCoordinate(4, 4))

	require.Equal(t, 1, g.engine.Turn())
	cell, err := g.engine.Board().Get(core.NewCoordinate(4, 4))
	require.NoError(t, err)
	assert.Equal(t, first, cell.Owner)
	assert.Equal(t, core.FirstMovePower, cell.Power)
	assert.NotEqual(t, first, g.engine.CurrentPlayer())
	assert.Empty(t, g.statusMessage)
}

func TestApplyMoveRejectionShowsNote(t *testing.T) {
	g := newTestGame(t, 3)

	g.applyMove(core.NewCoordinate(4, 4))
	// The next seat clicks the same cell; its first move needs an empty one.
	g.applyMove(core.NewCoordinate(4, 4))

	assert.Equal(t, "First move must be an empty cell", g.statusMessage)
	assert.Equal(t, messageFrames, g.messageTimer)
	assert.Equal(t, 1, g.engine.Turn())
}

func TestSpawnFlashesStaggersWaves(t *testing.T) {
	g := newTestGame(t, 3)

	g.spawnFlashes(&game.MoveResult{
		Color: common.Red,
		Explosions: []core.Explosion{
			{Origin: core.NewCoordinate(0, 0), Wave: 0},
			{Origin: core.NewCoordinate(0, 1), Wave: 1},
			{Origin: core.NewCoordinate(1, 0), Wave: 1},
			{Origin: core.NewCoordinate(0, 2), Wave: 2},
		},
	})

	assert.Len(t, g.flashes, 4)
	// One burst per wave, not per detonation.
	assert.Len(t, g.pendingBooms, 3)
}

func TestSpawnFlashesCapsBurstSounds(t *testing.T) {
	g := newTestGame(t, 3)

	var explosions []core.Explosion
	for wave := 0; wave < 6; wave++ {
		explosions = append(explosions, core.Explosion{
			Origin: core.NewCoordinate(wave, 0),
			Wave:   wave,
		})
	}
	g.spawnFlashes(&game.MoveResult{Color: common.Green, Explosions: explosions})

	assert.Len(t, g.flashes, 6)
	assert.Len(t, g.pendingBooms, maxBurstWaves)
}

func TestUpdateBoomsDrainsDueEntries(t *testing.T) {
	g := newTestGame(t, 3)
	g.pendingBooms = []float32{0.01, 0.5}

	g.updateBooms()

	require.Len(t, g.pendingBooms, 1)
	assert.InDelta(t, 0.5-frameSeconds, g.pendingBooms[0], 1e-6)
}

func TestRestartOpensFreshMatch(t *testing.T) {
	g := newTestGame(t, 3)
	oldID := g.engine.MatchID()

	g.applyMove(core.NewCoordinate(2, 2))
	g.spawnFlashes(&game.MoveResult{
		Color:      common.Red,
		Explosions: []core.Explosion{{Origin: core.NewCoordinate(2, 2), Wave: 0}},
	})
	g.showMessage("stale note")

	require.NoError(t, g.restart())

	assert.NotEqual(t, oldID, g.engine.MatchID())
	assert.Equal(t, 0, g.engine.Turn())
	assert.Empty(t, g.flashes)
	assert.Empty(t, g.pendingBooms)
	assert.Empty(t, g.statusMessage)
	assert.Zero(t, g.messageTimer)
}

func TestRejectionNotes(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"not your turn", core.ErrNotYourTurn, "Not your turn"},
		{"occupied first move", fmt.Errorf("%w: (1,1)", core.ErrCellOccupied), "First move must be an empty cell"},
		{"not owned", fmt.Errorf("%w: (0,0)", core.ErrNotOwned), "Pick one of your own cells"},
		{"out of bounds", core.ErrOutOfBounds, "Outside the board"},
		{"game over", core.ErrGameOver, "The match is over"},
		{"unknown", fmt.Errorf("boom"), "Move rejected"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, rejectionNote(tt.err))
		})
	}
}

func TestWindowGeometryDefaults(t *testing.T) {
	assert.Equal(t, 640, ScreenWidth())
	assert.Equal(t, 720, ScreenHeight())
	assert.Equal(t, 80, CellSize())
	assert.Equal(t, 80, BannerHeight())
	assert.Equal(t, 100*time.Millisecond, WaveDelay())
}

func TestCapitalize(t *testing.T) {
	assert.Equal(t, "Red", capitalize("red"))
	assert.Equal(t, "Green", capitalize("green"))
	assert.Equal(t, "", capitalize(""))
}
