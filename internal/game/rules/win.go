package rules

import "github.com/rs/zerolog"

// WinChecker handles match-over detection and winner determination.
type WinChecker struct {
	logger zerolog.Logger
}

// NewWinChecker creates a new win condition checker.
func NewWinChecker(logger zerolog.Logger) *WinChecker {
	return &WinChecker{
		logger: logger.With().Str("component", "WinChecker").Logger(),
	}
}

// CheckGameOver determines whether the match is over from the alive players.
// Returns (isOver, winnerID); winnerID is -1 when nobody survived.
func (wc *WinChecker) CheckGameOver(players []Player) (bool, int) {
	aliveCount := 0
	lastAliveID := -1

	for _, p := range players {
		if p.IsAlive() {
			aliveCount++
			lastAliveID = p.GetID()
		}
	}

	if aliveCount > 1 {
		return false, -1
	}

	if aliveCount == 1 {
		wc.logger.Info().Int("winner_player_id", lastAliveID).Msg("Winner determined")
		return true, lastAliveID
	}

	wc.logger.Info().Msg("Match ended with no survivor")
	return true, -1
}
