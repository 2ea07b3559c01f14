package subscribers

import (
	"github.com/rs/zerolog"

	"github.com/colorwargame/colorwar/internal/game/events"
)

// LoggerSubscriber writes every match event to the structured log.
type LoggerSubscriber struct {
	id              string
	logger          zerolog.Logger
	eventTypeFilter map[string]bool // nil means log everything
}

// NewLoggerSubscriber creates a subscriber that logs events.
func NewLoggerSubscriber(id string, logger zerolog.Logger) *LoggerSubscriber {
	return &LoggerSubscriber{
		id:     id,
		logger: logger.With().Str("subscriber", "event_logger").Logger(),
	}
}

// ID returns the subscriber's unique identifier.
func (ls *LoggerSubscriber) ID() string {
	return ls.id
}

// SetEventFilter restricts logging to the given event types (nil/empty
// clears the filter).
func (ls *LoggerSubscriber) SetEventFilter(eventTypes []string) {
	if len(eventTypes) == 0 {
		ls.eventTypeFilter = nil
		return
	}
	ls.eventTypeFilter = make(map[string]bool, len(eventTypes))
	for _, eventType := range eventTypes {
		ls.eventTypeFilter[eventType] = true
	}
}

// InterestedIn reports whether this event type passes the filter.
func (ls *LoggerSubscriber) InterestedIn(eventType string) bool {
	if ls.eventTypeFilter == nil {
		return true
	}
	return ls.eventTypeFilter[eventType]
}

// HandleEvent logs one event with type-specific fields.
func (ls *LoggerSubscriber) HandleEvent(event events.Event) {
	logger := ls.logger.With().
		Str("event_type", event.Type()).
		Str("match_id", event.MatchID()).
		Logger()

	switch e := event.(type) {
	case *events.GameStartedEvent:
		logger.Info().
			Int("players", len(e.Colors)).
			Ints("turn_order", e.TurnOrder).
			Msg("Match started")
	case *events.MoveAppliedEvent:
		logger.Debug().
			Int("player", e.Player).
			Stringer("color", e.Color).
			Stringer("at", e.At).
			Bool("first_move", e.FirstMove).
			Int("turn", e.Turn).
			Int("explosions", e.Explosions).
			Msg("Move applied")
	case *events.CascadeResolvedEvent:
		logger.Debug().
			Int("player", e.Player).
			Int("turn", e.Turn).
			Int("explosions", len(e.Explosions)).
			Msg("Cascade resolved")
	case *events.PlayerEliminatedEvent:
		logger.Info().
			Int("player", e.Player).
			Stringer("color", e.Color).
			Int("turn", e.Turn).
			Msg("Player eliminated")
	case *events.GameEndedEvent:
		logger.Info().
			Int("winner", e.Winner).
			Str("winner_color", e.WinnerColor).
			Str("reason", e.Reason).
			Int("final_turn", e.FinalTurn).
			Dur("duration", e.Duration).
			Msg("Match ended")
	default:
		logger.Debug().Msg("Event received")
	}
}
