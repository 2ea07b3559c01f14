package audio

import (
	"math"
	"testing"
	"time"

	"github.com/gopxl/beep"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colorwargame/colorwar/internal/config"
)

const testRate = beep.SampleRate(44100)

func drain(t *testing.T, s beep.Streamer, buf int) [][2]float64 {
	t.Helper()
	// Two seconds bounds every effect; a streamer still going after that is
	// broken, not long.
	limit := int(testRate) * 2

	var out [][2]float64
	for len(out) < limit {
		samples := make([][2]float64, buf)
		n, ok := s.Stream(samples)
		out = append(out, samples[:n]...)
		if !ok {
			return out
		}
	}
	t.Fatalf("streamer still producing after %d samples", limit)
	return nil
}

func TestOscillatorWaveShapes(t *testing.T) {
	tests := []struct {
		name string
		wave WaveType
		freq float64
	}{
		{"sine", WaveSine, 440},
		{"square", WaveSquare, 220},
		{"noise", WaveNoise, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			osc := NewOscillator(tt.freq, 50*time.Millisecond, tt.wave, testRate)

			samples := make([][2]float64, 100)
			n, ok := osc.Stream(samples)
			require.True(t, ok)
			require.Equal(t, 100, n)

			for i := 0; i < n; i++ {
				assert.GreaterOrEqual(t, samples[i][0], -1.0)
				assert.LessOrEqual(t, samples[i][0], 1.0)
				assert.Equal(t, samples[i][0], samples[i][1], "both channels carry the same signal")
			}
		})
	}
}

func TestOscillatorSquareIsBinary(t *testing.T) {
	osc := NewOscillator(220, 10*time.Millisecond, WaveSquare, testRate)

	samples := make([][2]float64, 64)
	n, _ := osc.Stream(samples)
	for i := 0; i < n; i++ {
		assert.Contains(t, []float64{-1.0, 1.0}, samples[i][0])
	}
}

func TestOscillatorNoiseVaries(t *testing.T) {
	osc := NewOscillator(0, 10*time.Millisecond, WaveNoise, testRate)

	samples := make([][2]float64, 64)
	n, _ := osc.Stream(samples)
	require.Greater(t, n, 1)

	varies := false
	for i := 1; i < n; i++ {
		if samples[i][0] != samples[0][0] {
			varies = true
			break
		}
	}
	assert.True(t, varies, "noise must not be constant")
}

func TestOscillatorRespectsDuration(t *testing.T) {
	duration := 10 * time.Millisecond
	expected := testRate.N(duration)
	osc := NewOscillator(440, duration, WaveSine, testRate)

	total := len(drain(t, osc, expected*2))
	assert.Equal(t, expected, total)

	n, ok := osc.Stream(make([][2]float64, 8))
	assert.Zero(t, n)
	assert.False(t, ok, "drained oscillator stays drained")
}

func TestEnvelopeAttackRampsUp(t *testing.T) {
	duration := 100 * time.Millisecond
	attack := 50 * time.Millisecond

	// Square input keeps the underlying amplitude constant, so any ramp in
	// the output comes from the envelope.
	osc := NewOscillator(100, duration, WaveSquare, testRate)
	env := NewEnvelope(osc, duration, attack, 10*time.Millisecond, testRate)

	samples := make([][2]float64, testRate.N(attack))
	n, ok := env.Stream(samples)
	require.True(t, ok)
	require.Greater(t, n, 2)

	assert.Less(t, math.Abs(samples[0][0]), math.Abs(samples[n-1][0]))
}

func TestEffectBuildersProduceSamples(t *testing.T) {
	tests := []struct {
		name  string
		build func(beep.SampleRate, float64) beep.Streamer
	}{
		{"placement", PlacementSound},
		{"explosion", ExplosionSound},
		{"elimination", EliminationSound},
		{"victory", VictorySound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := tt.build(testRate, 0.8)
			require.NotNil(t, s)

			out := drain(t, s, 512)
			assert.NotEmpty(t, out)
			for _, sample := range out {
				assert.LessOrEqual(t, math.Abs(sample[0]), 1.0)
			}
		})
	}
}

func TestZeroVolumeIsSilent(t *testing.T) {
	s := PlacementSound(testRate, 0)

	out := drain(t, s, 256)
	require.NotEmpty(t, out)

	for _, sample := range out {
		assert.Zero(t, sample[0])
		assert.Zero(t, sample[1])
	}
}

func TestDisabledManagerIsSafe(t *testing.T) {
	m := NewManager(config.AudioConfig{Enabled: false, Volume: 0.8, SampleRate: 44100}, zerolog.Nop())

	assert.False(t, m.Enabled())

	// Every trigger must be a no-op rather than a panic.
	m.PlayPlacement()
	m.PlayExplosion()
	m.PlayElimination()
	m.PlayVictory()
	m.Close()
}
