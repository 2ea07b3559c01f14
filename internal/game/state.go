package game

import (
	"github.com/colorwargame/colorwar/internal/common"
	"github.com/colorwargame/colorwar/internal/game/core"
)

// NoWinner is the winner value while a match is still running, or when it
// ended without a survivor (cascade abort).
const NoWinner = -1

// Player is one seat in a match. ID doubles as the owner value stored in
// board cells, so seats are always numbered 0..n-1 in creation order.
type Player struct {
	ID       int          `json:"id"`
	Color    common.Color `json:"color"`
	Alive    bool         `json:"alive"`
	HasMoved bool         `json:"has_moved"`
}

// GetID implements rules.Player.
func (p Player) GetID() int { return p.ID }

// IsAlive implements rules.Player.
func (p Player) IsAlive() bool { return p.Alive }

// HasMovedOnce implements rules.Player.
func (p Player) HasMovedOnce() bool { return p.HasMoved }

// Status is the match outcome so far.
type Status struct {
	Over   bool `json:"over"`
	Winner int  `json:"winner"` // NoWinner until somebody wins
}

// PlayerState is the per-seat view inside a Snapshot. Tiles is recomputed
// from the board when the snapshot is taken.
type PlayerState struct {
	ID       int    `json:"id"`
	Color    string `json:"color"`
	Alive    bool   `json:"alive"`
	HasMoved bool   `json:"has_moved"`
	Tiles    int    `json:"tiles"`
}

// Snapshot is a self-contained copy of a match, safe to hand to renderers
// and API handlers after the engine has moved on.
type Snapshot struct {
	MatchID string        `json:"match_id"`
	Cells   []core.Cell   `json:"cells"` // row-major, core.Rows*core.Cols entries
	Players []PlayerState `json:"players"`
	Current int           `json:"current"` // seat whose move it is
	Turn    int           `json:"turn"`
	Status  Status        `json:"status"`
}

// MoveResult reports everything a successful move changed.
type MoveResult struct {
	Player     int              `json:"player"`
	Color      common.Color     `json:"color"`
	At         core.Coordinate  `json:"at"`
	FirstMove  bool             `json:"first_move"`
	Turn       int              `json:"turn"`
	Explosions []core.Explosion `json:"explosions,omitempty"`
	Eliminated []int            `json:"eliminated,omitempty"`
	Winner     int              `json:"winner"`
}
