// Package sim plays whole matches without a human, for demo runs, soak
// testing and the server's automated matches.
package sim

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/rs/zerolog"

	"github.com/colorwargame/colorwar/internal/game"
	"github.com/colorwargame/colorwar/internal/game/core"
	"github.com/colorwargame/colorwar/internal/game/events"
	"github.com/colorwargame/colorwar/internal/game/rules"
)

// DefaultMaxMoves bounds a playout that refuses to end. Uniformly random
// matches often cycle forever, so the budget is the guaranteed stop: a
// playout that reaches it is abandoned undecided.
const DefaultMaxMoves = 10000

// ErrNoLegalMove means the seat to move has nowhere to place. Only
// possible for a seat that has never moved while the board is full.
var ErrNoLegalMove = errors.New("no legal placement available")

// Agent picks the next placement for a seat.
type Agent interface {
	PickMove(e *game.Engine, player int) (core.Coordinate, error)
}

// RandomAgent picks uniformly among the seat's legal placements.
type RandomAgent struct {
	rng *rand.Rand
}

// NewRandomAgent creates an agent around rng; nil falls back to a
// time-seeded source.
func NewRandomAgent(rng *rand.Rand) *RandomAgent {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &RandomAgent{rng: rng}
}

// PickMove implements Agent.
func (a *RandomAgent) PickMove(e *game.Engine, player int) (core.Coordinate, error) {
	seat, ok := e.PlayerByID(player)
	if !ok {
		return core.Coordinate{}, fmt.Errorf("no seat %d in match %s", player, e.MatchID())
	}
	legal := rules.LegalPlacements(e.Board(), seat)
	if len(legal) == 0 {
		return core.Coordinate{}, fmt.Errorf("seat %d: %w", player, ErrNoLegalMove)
	}
	return legal[a.rng.Intn(len(legal))], nil
}

// Result summarizes one playout.
type Result struct {
	MatchID     string
	Moves       int
	Winner      int // game.NoWinner when the match ended undecided
	WinnerColor string
	Reason      string // events.EndReasonWon or events.EndReasonUndecided
	Explosions  int
	Eliminated  []int // elimination order
}

// Driver repeatedly asks an agent for moves and applies them.
type Driver struct {
	agent  Agent
	logger zerolog.Logger
}

// NewDriver creates a driver that plays with the given agent.
func NewDriver(agent Agent, logger zerolog.Logger) *Driver {
	return &Driver{
		agent:  agent,
		logger: logger.With().Str("component", "sim").Logger(),
	}
}

// Playout drives the match until it concludes or the context is cancelled.
// A match that is still undecided after maxMoves is abandoned: the engine
// publishes its ended event and the Result reports no winner. maxMoves <= 0
// means DefaultMaxMoves. The partial Result is returned alongside any error.
func (d *Driver) Playout(ctx context.Context, e *game.Engine, maxMoves int) (*Result, error) {
	if maxMoves <= 0 {
		maxMoves = DefaultMaxMoves
	}
	res := &Result{MatchID: e.MatchID(), Winner: game.NoWinner}

	for !e.Status().Over {
		if res.Moves >= maxMoves {
			e.Abandon(events.EndReasonUndecided)
			res.Reason = events.EndReasonUndecided
			d.logger.Warn().
				Str("match_id", res.MatchID).
				Int("moves", res.Moves).
				Msg("Move budget exhausted, match abandoned")
			return res, nil
		}
		select {
		case <-ctx.Done():
			return res, ctx.Err()
		default:
		}

		player := e.CurrentPlayer()
		at, err := d.agent.PickMove(e, player)
		if err != nil {
			return res, fmt.Errorf("pick move for seat %d: %w", player, err)
		}
		moveRes, err := e.ApplyMove(player, at)
		if err != nil {
			return res, fmt.Errorf("apply move for seat %d at %s: %w", player, at, err)
		}
		res.Moves++
		res.Explosions += len(moveRes.Explosions)
		res.Eliminated = append(res.Eliminated, moveRes.Eliminated...)

		d.logger.Debug().
			Int("player_id", player).
			Stringer("at", at).
			Int("explosions", len(moveRes.Explosions)).
			Int("move", res.Moves).
			Msg("Applied move")
	}

	res.Winner = e.Status().Winner
	res.Reason = events.EndReasonUndecided
	if seat, ok := e.PlayerByID(res.Winner); ok {
		res.WinnerColor = seat.Color.String()
		res.Reason = events.EndReasonWon
	}
	d.logger.Info().
		Str("match_id", res.MatchID).
		Int("moves", res.Moves).
		Int("winner", res.Winner).
		Str("winner_color", res.WinnerColor).
		Str("reason", res.Reason).
		Int("explosions", res.Explosions).
		Msg("Playout finished")
	return res, nil
}
