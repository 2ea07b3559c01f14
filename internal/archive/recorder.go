package archive

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/colorwargame/colorwar/internal/game/events"
)

const saveTimeout = 5 * time.Second

// pendingMatch accumulates what the events carry until the match ends.
type pendingMatch struct {
	seats      []PlayerRecord
	startedAt  time.Time
	explosions int
}

// Recorder subscribes to match events and writes one summary row when each
// match ends. A single recorder can watch any number of match buses.
type Recorder struct {
	store  *Store
	logger zerolog.Logger

	mu     sync.Mutex
	active map[string]*pendingMatch
}

// NewRecorder creates a recorder writing to store.
func NewRecorder(store *Store, logger zerolog.Logger) *Recorder {
	return &Recorder{
		store:  store,
		logger: logger.With().Str("component", "archive_recorder").Logger(),
		active: make(map[string]*pendingMatch),
	}
}

// ID implements events.Subscriber.
func (r *Recorder) ID() string { return "archive_recorder" }

// InterestedIn implements events.Subscriber.
func (r *Recorder) InterestedIn(eventType string) bool {
	switch eventType {
	case events.TypeGameStarted, events.TypeMoveApplied,
		events.TypePlayerEliminated, events.TypeGameEnded:
		return true
	}
	return false
}

// HandleEvent implements events.Subscriber.
func (r *Recorder) HandleEvent(event events.Event) {
	switch ev := event.(type) {
	case *events.GameStartedEvent:
		seats := make([]PlayerRecord, len(ev.Colors))
		for i, color := range ev.Colors {
			seats[i] = PlayerRecord{MatchID: ev.MatchID(), Seat: i, Color: color.String()}
		}
		r.mu.Lock()
		r.active[ev.MatchID()] = &pendingMatch{seats: seats, startedAt: ev.Timestamp()}
		r.mu.Unlock()

	case *events.MoveAppliedEvent:
		r.mu.Lock()
		if p := r.active[ev.MatchID()]; p != nil {
			p.explosions += ev.Explosions
		}
		r.mu.Unlock()

	case *events.PlayerEliminatedEvent:
		r.mu.Lock()
		if p := r.active[ev.MatchID()]; p != nil && ev.Player >= 0 && ev.Player < len(p.seats) {
			p.seats[ev.Player].EliminatedTurn = ev.Turn
		}
		r.mu.Unlock()

	case *events.GameEndedEvent:
		r.mu.Lock()
		p := r.active[ev.MatchID()]
		delete(r.active, ev.MatchID())
		r.mu.Unlock()
		if p == nil {
			r.logger.Warn().Str("match_id", ev.MatchID()).Msg("Match ended without a recorded start")
			return
		}
		r.persist(ev, p)
	}
}

func (r *Recorder) persist(ev *events.GameEndedEvent, p *pendingMatch) {
	match := MatchRecord{
		ID:          ev.MatchID(),
		Players:     len(p.seats),
		Winner:      ev.Winner,
		WinnerColor: ev.WinnerColor,
		Reason:      ev.Reason,
		Moves:       ev.FinalTurn,
		Explosions:  p.explosions,
		StartedAt:   p.startedAt,
		FinishedAt:  ev.Timestamp(),
	}

	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()
	if err := r.store.SaveMatch(ctx, match, p.seats); err != nil {
		r.logger.Error().Err(err).Str("match_id", match.ID).Msg("Failed to archive match")
		return
	}
	r.logger.Info().
		Str("match_id", match.ID).
		Str("winner_color", match.WinnerColor).
		Int("moves", match.Moves).
		Int("explosions", match.Explosions).
		Msg("Match archived")
}

var _ events.Subscriber = (*Recorder)(nil)
