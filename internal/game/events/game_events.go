package events

import (
	"time"

	"github.com/colorwargame/colorwar/internal/common"
	"github.com/colorwargame/colorwar/internal/game/core"
)

// Event type constants
const (
	TypeGameStarted      = "game.started"
	TypeMoveApplied      = "game.move_applied"
	TypeCascadeResolved  = "game.cascade"
	TypePlayerEliminated = "player.eliminated"
	TypeGameEnded        = "game.ended"
)

// End reasons carried by GameEndedEvent.
const (
	EndReasonWon       = "won"
	EndReasonStalled   = "stalled"
	EndReasonUndecided = "undecided"
)

// GameStartedEvent is published once per match, after setup.
type GameStartedEvent struct {
	BaseEvent
	Colors    []common.Color `json:"colors"`
	TurnOrder []int          `json:"turn_order"`
}

// NewGameStartedEvent creates a new GameStartedEvent.
func NewGameStartedEvent(matchID string, colors []common.Color, turnOrder []int) *GameStartedEvent {
	return &GameStartedEvent{
		BaseEvent: BaseEvent{
			EventType: TypeGameStarted,
			Time:      time.Now(),
			Match:     matchID,
		},
		Colors:    colors,
		TurnOrder: turnOrder,
	}
}

// MoveAppliedEvent is published after every successful move, once the board
// has settled.
type MoveAppliedEvent struct {
	BaseEvent
	Player     int             `json:"player"`
	Color      common.Color    `json:"color"`
	At         core.Coordinate `json:"at"`
	FirstMove  bool            `json:"first_move"`
	Turn       int             `json:"turn"`
	Explosions int             `json:"explosions"`
}

// NewMoveAppliedEvent creates a new MoveAppliedEvent.
func NewMoveAppliedEvent(matchID string, player int, color common.Color, at core.Coordinate, firstMove bool, turn, explosions int) *MoveAppliedEvent {
	return &MoveAppliedEvent{
		BaseEvent: BaseEvent{
			EventType: TypeMoveApplied,
			Time:      time.Now(),
			Match:     matchID,
		},
		Player:     player,
		Color:      color,
		At:         at,
		FirstMove:  firstMove,
		Turn:       turn,
		Explosions: explosions,
	}
}

// CascadeResolvedEvent carries the ordered explosion log of one move.
// Published only for moves that set off at least one explosion.
type CascadeResolvedEvent struct {
	BaseEvent
	Player     int              `json:"player"`
	Turn       int              `json:"turn"`
	Explosions []core.Explosion `json:"explosions"`
}

// NewCascadeResolvedEvent creates a new CascadeResolvedEvent.
func NewCascadeResolvedEvent(matchID string, player, turn int, explosions []core.Explosion) *CascadeResolvedEvent {
	return &CascadeResolvedEvent{
		BaseEvent: BaseEvent{
			EventType: TypeCascadeResolved,
			Time:      time.Now(),
			Match:     matchID,
		},
		Player:     player,
		Turn:       turn,
		Explosions: explosions,
	}
}

// PlayerEliminatedEvent is published when a player loses their last cell.
type PlayerEliminatedEvent struct {
	BaseEvent
	Player int          `json:"player"`
	Color  common.Color `json:"color"`
	Turn   int          `json:"turn"`
}

// NewPlayerEliminatedEvent creates a new PlayerEliminatedEvent.
func NewPlayerEliminatedEvent(matchID string, player int, color common.Color, turn int) *PlayerEliminatedEvent {
	return &PlayerEliminatedEvent{
		BaseEvent: BaseEvent{
			EventType: TypePlayerEliminated,
			Time:      time.Now(),
			Match:     matchID,
		},
		Player: player,
		Color:  color,
		Turn:   turn,
	}
}

// GameEndedEvent is published once, when the match ends. Winner is -1 and
// WinnerColor empty when the match ended without one.
type GameEndedEvent struct {
	BaseEvent
	Winner      int           `json:"winner"`
	WinnerColor string        `json:"winner_color,omitempty"`
	Reason      string        `json:"reason"`
	FinalTurn   int           `json:"final_turn"`
	Duration    time.Duration `json:"duration"`
}

// NewGameEndedEvent creates a new GameEndedEvent.
func NewGameEndedEvent(matchID string, winner int, winnerColor, reason string, finalTurn int, duration time.Duration) *GameEndedEvent {
	return &GameEndedEvent{
		BaseEvent: BaseEvent{
			EventType: TypeGameEnded,
			Time:      time.Now(),
			Match:     matchID,
		},
		Winner:      winner,
		WinnerColor: winnerColor,
		Reason:      reason,
		FinalTurn:   finalTurn,
		Duration:    duration,
	}
}
