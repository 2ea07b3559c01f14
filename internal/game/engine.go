package game

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/colorwargame/colorwar/internal/common"
	"github.com/colorwargame/colorwar/internal/game/core"
	"github.com/colorwargame/colorwar/internal/game/events"
	"github.com/colorwargame/colorwar/internal/game/rules"
)

// Config carries everything needed to seat a new match.
type Config struct {
	// MatchID identifies the match in logs, events and the archive. A
	// fresh uuid is assigned when empty.
	MatchID string
	// Colors lists the seats in creation order, 2 to 4 distinct colors.
	Colors []common.Color
	// Rng drives the turn order shuffle. Nil falls back to a time-seeded
	// source; pass a fixed seed for reproducible matches.
	Rng *rand.Rand
	// EventBus receives match events. Created internally when nil, but
	// callers that want the game.started event must subscribe first and
	// pass the bus in.
	EventBus *events.EventBus
	Logger   zerolog.Logger
}

// Engine owns one match: the board, the seats, the turn order and the
// outcome. It is not safe for concurrent use; one goroutine drives one
// match and everyone else reads snapshots.
type Engine struct {
	matchID  string
	board    *core.Board
	players  []Player
	turns    *TurnOrder
	winCheck *rules.WinChecker
	eventBus *events.EventBus
	logger   zerolog.Logger
	status   Status
	turn     int
	started  time.Time
}

// NewEngine validates the seats, shuffles the turn order and opens a match
// on an empty board.
func NewEngine(cfg Config) (*Engine, error) {
	if len(cfg.Colors) < 2 || len(cfg.Colors) > 4 {
		return nil, fmt.Errorf("%w: got %d", core.ErrInvalidPlayerCount, len(cfg.Colors))
	}
	seen := make(map[common.Color]bool, len(cfg.Colors))
	for _, c := range cfg.Colors {
		if seen[c] {
			return nil, fmt.Errorf("%w: %s", core.ErrDuplicateColor, c)
		}
		seen[c] = true
	}

	rng := cfg.Rng
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	matchID := cfg.MatchID
	if matchID == "" {
		matchID = uuid.NewString()
	}
	bus := cfg.EventBus
	if bus == nil {
		bus = events.NewEventBus()
	}
	logger := cfg.Logger.With().
		Str("component", "engine").
		Str("match_id", matchID).
		Logger()

	players := make([]Player, len(cfg.Colors))
	for i, color := range cfg.Colors {
		players[i] = Player{ID: i, Color: color, Alive: true}
	}

	e := &Engine{
		matchID:  matchID,
		board:    core.NewBoard(),
		players:  players,
		turns:    NewTurnOrder(len(players), rng),
		winCheck: rules.NewWinChecker(logger),
		eventBus: bus,
		logger:   logger,
		status:   Status{Winner: NoWinner},
		started:  time.Now(),
	}

	colors := append([]common.Color(nil), cfg.Colors...)
	bus.Publish(events.NewGameStartedEvent(matchID, colors, e.turns.Order()))
	logger.Info().
		Int("players", len(players)).
		Ints("turn_order", e.turns.Order()).
		Msg("Match created")
	return e, nil
}

// ApplyMove plays one move for the given seat: places power at the cell,
// resolves any cascade, rescans eliminations, checks for a winner and
// advances the turn. All validation happens before the first mutation, so
// a rejected move leaves the match exactly as it was.
func (e *Engine) ApplyMove(player int, at core.Coordinate) (*MoveResult, error) {
	if e.status.Over {
		return nil, fmt.Errorf("turn %d: %w", e.turn, core.ErrGameOver)
	}
	if current := e.turns.Current(); current != player {
		return nil, fmt.Errorf("%w: player %d moved, player %d expected",
			core.ErrNotYourTurn, player, current)
	}
	seat := &e.players[player]
	if err := rules.ValidatePlacement(e.board, *seat, at); err != nil {
		return nil, err
	}

	cell, err := e.board.Get(at)
	if err != nil {
		return nil, err
	}
	firstMove := !seat.HasMoved
	if firstMove {
		cell = core.Cell{Owner: player, Power: core.FirstMovePower}
		seat.HasMoved = true
	} else {
		cell.Power++
	}
	if err := e.board.Set(at, cell); err != nil {
		return nil, err
	}
	e.turn++

	var explosions []core.Explosion
	if cell.Power > core.Capacity {
		explosions, err = core.Resolve(e.board, at)
		if err != nil {
			// The board is stuck mid-cascade; nothing sensible is left to
			// play. Abort the match with no winner.
			e.status = Status{Over: true, Winner: NoWinner}
			e.logger.Error().Err(err).
				Stringer("at", at).
				Int("turn", e.turn).
				Msg("Cascade did not settle, match aborted")
			e.eventBus.Publish(events.NewGameEndedEvent(
				e.matchID, NoWinner, "", events.EndReasonStalled, e.turn, time.Since(e.started)))
			return nil, err
		}
	}

	e.eventBus.Publish(events.NewMoveAppliedEvent(
		e.matchID, player, seat.Color, at, firstMove, e.turn, len(explosions)))
	if len(explosions) > 0 {
		e.eventBus.Publish(events.NewCascadeResolvedEvent(e.matchID, player, e.turn, explosions))
	}

	eliminated := e.refreshEliminations()
	for _, id := range eliminated {
		e.eventBus.Publish(events.NewPlayerEliminatedEvent(e.matchID, id, e.players[id].Color, e.turn))
	}

	winner := NoWinner
	if over, w := e.winCheck.CheckGameOver(e.rulesPlayers()); over {
		winner = w
		e.status = Status{Over: true, Winner: w}
		winnerColor := ""
		if w != NoWinner {
			winnerColor = e.players[w].Color.String()
		}
		e.eventBus.Publish(events.NewGameEndedEvent(
			e.matchID, w, winnerColor, events.EndReasonWon, e.turn, time.Since(e.started)))
		e.logger.Info().
			Int("winner", w).
			Str("winner_color", winnerColor).
			Int("turns", e.turn).
			Msg("Match finished")
	} else {
		e.turns.Advance(e.isAlive)
	}

	return &MoveResult{
		Player:     player,
		Color:      seat.Color,
		At:         at,
		FirstMove:  firstMove,
		Turn:       e.turn,
		Explosions: explosions,
		Eliminated: eliminated,
		Winner:     winner,
	}, nil
}

// Abandon ends the match with no winner. Drivers call it when their move
// budget runs out on a match that will not converge; the ended event is
// published with the given reason so subscribers see the match close like
// any other. No-op on a match that is already over.
func (e *Engine) Abandon(reason string) {
	if e.status.Over {
		return
	}
	e.status = Status{Over: true, Winner: NoWinner}
	e.eventBus.Publish(events.NewGameEndedEvent(
		e.matchID, NoWinner, "", reason, e.turn, time.Since(e.started)))
	e.logger.Info().
		Str("reason", reason).
		Int("turns", e.turn).
		Msg("Match abandoned")
}

// MatchID returns the match identifier.
func (e *Engine) MatchID() string { return e.matchID }

// Status returns the match outcome so far.
func (e *Engine) Status() Status { return e.status }

// Turn returns the number of moves applied so far.
func (e *Engine) Turn() int { return e.turn }

// CurrentPlayer returns the seat whose move it is.
func (e *Engine) CurrentPlayer() int { return e.turns.Current() }

// TurnSequence returns a copy of the fixed seating permutation.
func (e *Engine) TurnSequence() []int { return e.turns.Order() }

// Board exposes the live board for rules helpers and renderers. Treat it
// as read-only; all writes go through ApplyMove.
func (e *Engine) Board() *core.Board { return e.board }

// Events returns the bus this match publishes on.
func (e *Engine) Events() *events.EventBus { return e.eventBus }

// Players returns a copy of the seats in seat order.
func (e *Engine) Players() []Player {
	out := make([]Player, len(e.players))
	copy(out, e.players)
	return out
}

// PlayerByID returns one seat.
func (e *Engine) PlayerByID(id int) (Player, bool) {
	if id < 0 || id >= len(e.players) {
		return Player{}, false
	}
	return e.players[id], true
}

// Snapshot copies the whole match state for rendering and the API.
func (e *Engine) Snapshot() Snapshot {
	players := make([]PlayerState, len(e.players))
	for i, p := range e.players {
		players[i] = PlayerState{
			ID:       p.ID,
			Color:    p.Color.String(),
			Alive:    p.Alive,
			HasMoved: p.HasMoved,
			Tiles:    e.board.CountOwned(p.ID),
		}
	}
	return Snapshot{
		MatchID: e.matchID,
		Cells:   e.board.Cells(),
		Players: players,
		Current: e.turns.Current(),
		Turn:    e.turn,
		Status:  e.status,
	}
}
