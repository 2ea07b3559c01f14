package rules

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestWinChecker_CheckGameOver(t *testing.T) {
	wc := NewWinChecker(zerolog.Nop())

	tests := []struct {
		name       string
		players    []Player
		wantOver   bool
		wantWinner int
	}{
		{
			name: "all alive",
			players: []Player{
				fakePlayer{id: 0, alive: true},
				fakePlayer{id: 1, alive: true},
			},
			wantOver:   false,
			wantWinner: -1,
		},
		{
			name: "one of three eliminated",
			players: []Player{
				fakePlayer{id: 0, alive: true},
				fakePlayer{id: 1, alive: false},
				fakePlayer{id: 2, alive: true},
			},
			wantOver:   false,
			wantWinner: -1,
		},
		{
			name: "single survivor wins",
			players: []Player{
				fakePlayer{id: 0, alive: false},
				fakePlayer{id: 1, alive: true},
			},
			wantOver:   true,
			wantWinner: 1,
		},
		{
			name: "no survivor",
			players: []Player{
				fakePlayer{id: 0, alive: false},
				fakePlayer{id: 1, alive: false},
			},
			wantOver:   true,
			wantWinner: -1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			over, winner := wc.CheckGameOver(tt.players)
			assert.Equal(t, tt.wantOver, over)
			assert.Equal(t, tt.wantWinner, winner)
		})
	}
}
