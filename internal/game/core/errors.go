package core

import "errors"

var (
	ErrOutOfBounds        = errors.New("coordinate out of bounds")
	ErrNotYourTurn        = errors.New("not this player's turn")
	ErrGameOver           = errors.New("game is already over")
	ErrNotOwned           = errors.New("cell not owned by player")
	ErrCellOccupied       = errors.New("cell is already occupied")
	ErrInvalidPlayerCount = errors.New("match needs between 2 and 4 players")
	ErrDuplicateColor     = errors.New("duplicate player color")
	ErrEngineStalled      = errors.New("cascade exceeded processing cap")
)
