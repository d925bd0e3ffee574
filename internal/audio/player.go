// Package audio plays short procedural tones for simulation events.
package audio

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"github.com/vovakirdan/tui-flappy/internal/flappy"
)

const sampleRate = beep.SampleRate(44100)

// Player is an event sink that turns flap, point and hit events into sound.
// Until Start succeeds it is silent, so it can always be subscribed.
type Player struct {
	mu      sync.Mutex
	play    func(beep.Streamer)
	muted   bool
	volume  float64
	rate    beep.SampleRate
	started bool
	logger  *log.Logger
}

// NewPlayer creates a silent player. volume is linear in [0, 1].
func NewPlayer(volume float64, logger *log.Logger) *Player {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Player{
		volume: volume,
		rate:   sampleRate,
		logger: logger,
	}
}

// Start opens the speaker. On failure the player stays silent and the
// error is returned for the caller to report.
func (p *Player) Start() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.started {
		return nil
	}
	if err := speaker.Init(p.rate, p.rate.N(50*time.Millisecond)); err != nil {
		p.logger.Warn("audio unavailable; continuing without sound", "err", err)
		return fmt.Errorf("audio: cannot open speaker: %w", err)
	}
	p.play = func(s beep.Streamer) { speaker.Play(s) }
	p.started = true
	return nil
}

// Close stops the speaker.
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.started {
		speaker.Clear()
		speaker.Close()
		p.started = false
		p.play = nil
	}
}

// HandleEvent plays the tone for e unless muted.
func (p *Player) HandleEvent(e flappy.Event) {
	p.mu.Lock()
	play, muted, vol, rate := p.play, p.muted, p.volume, p.rate
	p.mu.Unlock()

	if play == nil || muted {
		return
	}
	tone := Tone(e, rate)
	if tone == nil {
		return
	}
	play(newVolume(tone, vol))
}

// ToggleMute flips the mute flag and returns the new value.
func (p *Player) ToggleMute() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.muted = !p.muted
	return p.muted
}

// Muted reports whether sound is muted.
func (p *Player) Muted() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.muted
}

// Active reports whether the speaker is open.
func (p *Player) Active() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.started
}

var _ flappy.EventSink = (*Player)(nil)
