package audio

import (
	"testing"
	"time"

	"github.com/gopxl/beep"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/tui-flappy/internal/flappy"
)

// drain streams s to the end, failing if it runs past limit samples.
func drain(t *testing.T, s beep.Streamer, limit int) [][2]float64 {
	t.Helper()
	var out [][2]float64
	buf := make([][2]float64, 512)
	for len(out) <= limit {
		n, ok := s.Stream(buf)
		out = append(out, buf[:n]...)
		if !ok {
			return out
		}
	}
	t.Fatalf("stream did not end within %d samples", limit)
	return nil
}

func TestOscillatorLength(t *testing.T) {
	rate := beep.SampleRate(44100)
	osc := NewOscillator(440, 100*time.Millisecond, WaveSine, rate)

	samples := drain(t, osc, rate.N(time.Second))
	assert.Len(t, samples, rate.N(100*time.Millisecond))
	assert.NoError(t, osc.Err())
}

func TestOscillatorWaves(t *testing.T) {
	rate := beep.SampleRate(44100)

	for _, wave := range []Wave{WaveSine, WaveSquare, WaveSaw, WaveNoise} {
		samples := drain(t, NewOscillator(220, 20*time.Millisecond, wave, rate), rate.N(time.Second))
		for i, s := range samples {
			require.True(t, s[0] >= -1 && s[0] <= 1, "wave %d sample %d out of range: %f", wave, i, s[0])
			require.Equal(t, s[0], s[1], "channels should match")
			if wave == WaveSquare {
				require.True(t, s[0] == 1 || s[0] == -1, "square sample %d = %f", i, s[0])
			}
		}
	}
}

func TestEnvelopeStartsAndEndsQuiet(t *testing.T) {
	rate := beep.SampleRate(44100)
	d := 50 * time.Millisecond
	src := NewOscillator(0, d, WaveSquare, rate) // constant 1.0

	samples := drain(t, NewEnvelope(src, d, 10*time.Millisecond, 10*time.Millisecond, rate), rate.N(time.Second))
	require.NotEmpty(t, samples)

	assert.Equal(t, 0.0, samples[0][0], "attack should start at zero")
	assert.Equal(t, 1.0, samples[len(samples)/2][0], "sustain should be full volume")
	assert.Less(t, samples[len(samples)-1][0], 0.01, "release should end near zero")
}

func TestTones(t *testing.T) {
	rate := beep.SampleRate(44100)

	for _, e := range []flappy.Event{flappy.EventFlap, flappy.EventPoint} {
		samples := drain(t, Tone(e, rate), rate.N(time.Second))
		assert.NotEmpty(t, samples, "event %s", e)
	}

	hit := Tone(flappy.EventHit, rate)
	require.NotNil(t, hit)
	buf := make([][2]float64, 1024)
	n, ok := hit.Stream(buf)
	assert.True(t, ok)
	assert.Equal(t, len(buf), n)

	assert.Nil(t, Tone(flappy.Event(99), rate))
}

func TestPlayerSilentUntilStarted(t *testing.T) {
	p := NewPlayer(0.5, nil)
	assert.False(t, p.Active())
	assert.NotPanics(t, func() { p.HandleEvent(flappy.EventFlap) })
}

func TestPlayerPlaysUnlessMuted(t *testing.T) {
	var played int
	p := NewPlayer(0.5, nil)
	p.play = func(beep.Streamer) { played++ }

	p.HandleEvent(flappy.EventFlap)
	p.HandleEvent(flappy.EventPoint)
	assert.Equal(t, 2, played)

	assert.True(t, p.ToggleMute())
	p.HandleEvent(flappy.EventHit)
	assert.Equal(t, 2, played, "muted player should not play")

	assert.False(t, p.ToggleMute())
	p.HandleEvent(flappy.EventHit)
	assert.Equal(t, 3, played)
}
