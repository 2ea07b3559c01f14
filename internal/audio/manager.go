// Package audio synthesizes the game's sound effects. There are no asset
// files; every effect is generated by oscillators at startup volume.
package audio

import (
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
	"github.com/rs/zerolog"

	"github.com/colorwargame/colorwar/internal/config"
)

// Manager owns the speaker and mixes effect streams into it. A disabled
// manager (config, or speaker init failure) accepts every Play call and does
// nothing.
type Manager struct {
	mu      sync.Mutex
	mixer   *beep.Mixer
	rate    beep.SampleRate
	volume  float64
	enabled bool
	logger  zerolog.Logger
}

// NewManager initializes the speaker once. Init failure logs a warning and
// returns a silent manager, so the UI can keep running without sound.
func NewManager(cfg config.AudioConfig, logger zerolog.Logger) *Manager {
	m := &Manager{
		mixer:  &beep.Mixer{},
		rate:   beep.SampleRate(cfg.SampleRate),
		volume: cfg.Volume,
		logger: logger.With().Str("component", "audio").Logger(),
	}
	if !cfg.Enabled {
		m.logger.Debug().Msg("Sound disabled by configuration")
		return m
	}

	if err := speaker.Init(m.rate, m.rate.N(time.Millisecond*100)); err != nil {
		m.logger.Warn().Err(err).Msg("Speaker init failed, continuing silent")
		return m
	}
	speaker.Play(m.mixer)
	m.enabled = true

	m.logger.Info().Int("sample_rate", cfg.SampleRate).Msg("Audio initialized")
	return m
}

// Enabled reports whether effects will actually sound.
func (m *Manager) Enabled() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.enabled
}

// Close silences the mixer. The speaker itself has no close; clearing the
// queued streams is enough to stop output.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.enabled {
		return
	}
	speaker.Clear()
	m.enabled = false
}

// play queues one effect stream on the mixer.
func (m *Manager) play(s beep.Streamer) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.enabled {
		return
	}
	speaker.Lock()
	m.mixer.Add(s)
	speaker.Unlock()
}

// PlayPlacement sounds a charged square.
func (m *Manager) PlayPlacement() {
	m.play(PlacementSound(m.rate, m.volume))
}

// PlayExplosion sounds one cascade wave.
func (m *Manager) PlayExplosion() {
	m.play(ExplosionSound(m.rate, m.volume))
}

// PlayElimination sounds a player being wiped from the board.
func (m *Manager) PlayElimination() {
	m.play(EliminationSound(m.rate, m.volume))
}

// PlayVictory sounds the end of the match.
func (m *Manager) PlayVictory() {
	m.play(VictorySound(m.rate, m.volume))
}
