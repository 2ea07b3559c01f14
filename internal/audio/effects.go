package audio

import (
	"math"
	"math/rand"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
)

// WaveType selects the oscillator wave shape.
type WaveType int

const (
	WaveSine WaveType = iota
	WaveSquare
	WaveNoise
)

// oscillator generates a raw wave for a fixed duration.
type oscillator struct {
	freq     float64
	phase    float64
	duration int
	position int
	wave     WaveType
	rate     beep.SampleRate
}

// NewOscillator creates a streamer producing the given wave shape. freq is
// ignored for noise.
func NewOscillator(freq float64, duration time.Duration, wave WaveType, rate beep.SampleRate) beep.Streamer {
	return &oscillator{
		freq:     freq,
		duration: rate.N(duration),
		wave:     wave,
		rate:     rate,
	}
}

func (o *oscillator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if o.position >= o.duration {
			return i, i > 0
		}

		var val float64
		switch o.wave {
		case WaveSine:
			val = math.Sin(2 * math.Pi * o.phase)
		case WaveSquare:
			if o.phase < 0.5 {
				val = 1.0
			} else {
				val = -1.0
			}
		case WaveNoise:
			val = rand.Float64()*2 - 1
		}

		samples[i][0] = val
		samples[i][1] = val

		o.phase += o.freq / float64(o.rate)
		o.phase -= math.Floor(o.phase)
		o.position++
	}
	return len(samples), true
}

func (o *oscillator) Err() error { return nil }

// envelope shapes a streamer with linear attack and release ramps.
type envelope struct {
	streamer       beep.Streamer
	position       int
	attackSamples  int
	releaseSamples int
	totalSamples   int
}

// NewEnvelope wraps s with attack/release shaping over duration.
func NewEnvelope(s beep.Streamer, duration, attack, release time.Duration, rate beep.SampleRate) beep.Streamer {
	return &envelope{
		streamer:       s,
		attackSamples:  rate.N(attack),
		releaseSamples: rate.N(release),
		totalSamples:   rate.N(duration),
	}
}

func (e *envelope) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = e.streamer.Stream(samples)

	for i := 0; i < n; i++ {
		if e.position >= e.totalSamples {
			return i, i > 0
		}

		vol := 1.0
		if e.position < e.attackSamples && e.attackSamples > 0 {
			vol = float64(e.position) / float64(e.attackSamples)
		}
		releaseStart := e.totalSamples - e.releaseSamples
		if e.position >= releaseStart && e.releaseSamples > 0 {
			vol = float64(e.totalSamples-e.position) / float64(e.releaseSamples)
			if vol < 0 {
				vol = 0
			}
		}

		samples[i][0] *= vol
		samples[i][1] *= vol
		e.position++
	}
	return n, ok
}

func (e *envelope) Err() error { return e.streamer.Err() }

// newVolume scales a streamer. math.Log2(0) is -Inf, so zero volume switches
// to the silent path instead.
func newVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol), Silent: false}
}

// PlacementSound is the short blip played when a square is charged.
func PlacementSound(rate beep.SampleRate, volume float64) beep.Streamer {
	osc := NewOscillator(660.0, 70*time.Millisecond, WaveSine, rate)
	shaped := NewEnvelope(osc, 70*time.Millisecond, 5*time.Millisecond, 40*time.Millisecond, rate)
	return newVolume(shaped, volume)
}

// ExplosionSound is the burst played for each cascade wave: white noise over
// a low rumble.
func ExplosionSound(rate beep.SampleRate, volume float64) beep.Streamer {
	noise := NewOscillator(0, 180*time.Millisecond, WaveNoise, rate)
	noiseShaped := NewEnvelope(noise, 180*time.Millisecond, 2*time.Millisecond, 150*time.Millisecond, rate)

	rumble := NewOscillator(90.0, 180*time.Millisecond, WaveSine, rate)
	rumbleShaped := NewEnvelope(rumble, 180*time.Millisecond, 2*time.Millisecond, 150*time.Millisecond, rate)

	mixed := beep.Mix(
		newVolume(noiseShaped, 0.6),
		newVolume(rumbleShaped, 0.4),
	)
	return newVolume(mixed, volume)
}

// EliminationSound is the low thud played when a player falls.
func EliminationSound(rate beep.SampleRate, volume float64) beep.Streamer {
	osc := NewOscillator(110.0, 250*time.Millisecond, WaveSquare, rate)
	shaped := NewEnvelope(osc, 250*time.Millisecond, 5*time.Millisecond, 200*time.Millisecond, rate)
	return newVolume(shaped, volume*0.7)
}

// VictorySound is the three-note rising jingle played when the match ends.
func VictorySound(rate beep.SampleRate, volume float64) beep.Streamer {
	notes := []float64{523.25, 659.25, 783.99} // C5 E5 G5

	streams := make([]beep.Streamer, 0, len(notes))
	for _, freq := range notes {
		osc := NewOscillator(freq, 140*time.Millisecond, WaveSine, rate)
		streams = append(streams, NewEnvelope(osc, 140*time.Millisecond, 8*time.Millisecond, 60*time.Millisecond, rate))
	}
	return newVolume(beep.Seq(streams...), volume)
}
