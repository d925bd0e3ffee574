package audio

import (
	"math"
	"math/rand"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"

	"github.com/vovakirdan/tui-flappy/internal/flappy"
)

// Wave is an oscillator shape.
type Wave int

const (
	WaveSine Wave = iota
	WaveSquare
	WaveSaw
	WaveNoise
)

// Tone lengths and shaping.
const (
	flapDuration  = 70 * time.Millisecond
	pointNote     = 60 * time.Millisecond
	hitDuration   = 280 * time.Millisecond
	attack        = 5 * time.Millisecond
	shortRelease  = 40 * time.Millisecond
	longRelease   = 200 * time.Millisecond
	noiseSeedBase = 7
)

// oscillator produces a fixed-length wave, optionally sweeping in frequency.
type oscillator struct {
	freq     float64
	sweep    float64 // Hz added per second
	phase    float64
	duration int
	position int
	wave     Wave
	rate     beep.SampleRate
	rng      *rand.Rand
}

// NewOscillator creates a wave generator of the given length.
func NewOscillator(freq float64, duration time.Duration, wave Wave, rate beep.SampleRate) beep.Streamer {
	return newSweep(freq, 0, duration, wave, rate)
}

func newSweep(freq, sweep float64, duration time.Duration, wave Wave, rate beep.SampleRate) *oscillator {
	return &oscillator{
		freq:     freq,
		sweep:    sweep,
		duration: rate.N(duration),
		wave:     wave,
		rate:     rate,
		rng:      rand.New(rand.NewSource(noiseSeedBase)),
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
		case WaveSaw:
			val = 2.0 * (o.phase - 0.5)
		case WaveNoise:
			val = o.rng.Float64()*2 - 1
		}

		samples[i][0] = val
		samples[i][1] = val

		freq := o.freq + o.sweep*float64(o.position)/float64(o.rate)
		o.phase += freq / float64(o.rate)
		o.phase -= math.Floor(o.phase) // Keep in [0, 1)
		o.position++
	}
	return len(samples), true
}

func (o *oscillator) Err() error { return nil }

// envelope applies a linear attack and release to a stream.
type envelope struct {
	streamer beep.Streamer
	position int
	attack   int
	release  int
	total    int
}

// NewEnvelope shapes s with a linear attack and release over duration.
func NewEnvelope(s beep.Streamer, duration, att, rel time.Duration, rate beep.SampleRate) beep.Streamer {
	return &envelope{
		streamer: s,
		attack:   rate.N(att),
		release:  rate.N(rel),
		total:    rate.N(duration),
	}
}

func (e *envelope) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = e.streamer.Stream(samples)

	for i := 0; i < n; i++ {
		if e.position >= e.total {
			return i, i > 0
		}

		vol := 1.0
		if e.attack > 0 && e.position < e.attack {
			vol = float64(e.position) / float64(e.attack)
		}
		if remaining := e.total - e.position; e.release > 0 && remaining < e.release {
			vol = math.Min(vol, float64(remaining)/float64(e.release))
		}

		samples[i][0] *= vol
		samples[i][1] *= vol
		e.position++
	}
	return n, ok
}

func (e *envelope) Err() error { return e.streamer.Err() }

// newVolume scales s linearly. math.Log2(0) is -Inf, so zero means silent.
func newVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol)}
}

// flapTone is a short upward chirp.
func flapTone(rate beep.SampleRate) beep.Streamer {
	osc := newSweep(520, 4000, flapDuration, WaveSine, rate)
	return NewEnvelope(osc, flapDuration, attack, shortRelease, rate)
}

// pointTone is a two-note chime (B5 then E6).
func pointTone(rate beep.SampleRate) beep.Streamer {
	n1 := NewEnvelope(NewOscillator(987.77, pointNote, WaveSquare, rate), pointNote, attack, shortRelease, rate)
	n2 := NewEnvelope(NewOscillator(1318.51, 2*pointNote, WaveSquare, rate), 2*pointNote, attack, 2*shortRelease, rate)
	return newVolume(beep.Seq(n1, n2), 0.4)
}

// hitTone is a falling buzz over a burst of noise.
func hitTone(rate beep.SampleRate) beep.Streamer {
	buzz := NewEnvelope(newSweep(160, -300, hitDuration, WaveSaw, rate), hitDuration, attack, longRelease, rate)
	noise := NewEnvelope(NewOscillator(0, hitDuration/2, WaveNoise, rate), hitDuration/2, attack, shortRelease, rate)
	return beep.Mix(newVolume(buzz, 0.7), newVolume(noise, 0.3))
}

// Tone returns the sound for a simulation event, or nil for unknown events.
func Tone(e flappy.Event, rate beep.SampleRate) beep.Streamer {
	switch e {
	case flappy.EventFlap:
		return flapTone(rate)
	case flappy.EventPoint:
		return pointTone(rate)
	case flappy.EventHit:
		return hitTone(rate)
	default:
		return nil
	}
}
