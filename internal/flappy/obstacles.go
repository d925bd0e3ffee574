package flappy

import (
	"github.com/vovakirdan/tui-flappy/internal/config"
	"github.com/vovakirdan/tui-flappy/internal/core"
)

// Rand is the only source of nondeterminism in the simulation.
// *math/rand.Rand satisfies it.
type Rand interface {
	Float64() float64
}

// Gate represents a pair of barriers with a vertical opening the player must
// pass through.
type Gate struct {
	X        float64 `json:"x"`        // Left edge
	GapTop   float64 `json:"gapTop"`   // Y where the opening starts
	GapWidth float64 `json:"gapWidth"` // Horizontal thickness of the barriers
	GapSize  float64 `json:"gapSize"`  // Height of the opening
	Passed   bool    `json:"passed"`   // Whether the player has passed this gate (for scoring)
}

// Right returns the trailing edge of the gate.
func (g Gate) Right() float64 {
	return g.X + g.GapWidth
}

// GapBottom returns the y where the lower barrier starts.
func (g Gate) GapBottom() float64 {
	return g.GapTop + g.GapSize
}

// TopBox returns the collision box for the upper barrier.
func (g Gate) TopBox() core.Box {
	return core.NewBox(g.X, 0, g.GapWidth, g.GapTop)
}

// BottomBox returns the collision box for the lower barrier.
func (g Gate) BottomBox(height float64) core.Box {
	return core.NewBox(g.X, g.GapBottom(), g.GapWidth, height-g.GapBottom())
}

// Stream handles spawning, movement, and removal of gates.
// Gates are kept oldest first; since they all move at the same speed this is
// also ascending x order, so eviction only ever happens at the front.
type Stream struct {
	gates  []Gate
	rng    Rand
	width  float64
	height float64
	cfg    config.Gates
}

// NewStream creates an empty gate stream drawing gap heights from rng.
func NewStream(cfg config.FlappyConfig, rng Rand) *Stream {
	return &Stream{
		gates:  make([]Gate, 0, 8),
		rng:    rng,
		width:  cfg.Playfield.Width,
		height: cfg.Playfield.Height,
		cfg:    cfg.Gates,
	}
}

// Reset clears all gates. The random source keeps its position so the next
// round gets a fresh sequence.
func (s *Stream) Reset() {
	s.gates = s.gates[:0]
}

// Advance moves every gate left by distance and removes gates whose trailing
// edge has left the playfield. Returns the number of gates removed.
func (s *Stream) Advance(distance float64) int {
	for i := range s.gates {
		s.gates[i].X -= distance
	}

	evicted := 0
	for evicted < len(s.gates) && s.gates[evicted].Right() < 0 {
		evicted++
	}
	if evicted > 0 {
		s.gates = append(s.gates[:0], s.gates[evicted:]...)
	}
	return evicted
}

// MaybeSpawn appends a gate at the right edge when the stream is empty or the
// newest gate is at least MinSpacing away from it. The threshold is an
// inequality so variable step sizes can never skip a spawn.
func (s *Stream) MaybeSpawn() bool {
	if n := len(s.gates); n > 0 && s.gates[n-1].X > s.width-s.cfg.MinSpacing {
		return false
	}
	s.gates = append(s.gates, s.newGate())
	return true
}

// newGate creates a gate at the right edge with a random gap height.
func (s *Stream) newGate() Gate {
	minTop := s.cfg.TopMargin
	maxTop := s.height - s.cfg.GapSize - s.cfg.BottomMargin
	if maxTop < minTop {
		maxTop = minTop // Degenerate range: pin to the top margin
	}

	return Gate{
		X:        s.width,
		GapTop:   minTop + s.rng.Float64()*(maxTop-minTop),
		GapWidth: s.cfg.Width,
		GapSize:  s.cfg.GapSize,
	}
}

// MarkPassed flips the Passed flag of gate i. It returns false if the gate
// was already passed, so each gate is counted at most once.
func (s *Stream) MarkPassed(i int) bool {
	if i < 0 || i >= len(s.gates) || s.gates[i].Passed {
		return false
	}
	s.gates[i].Passed = true
	return true
}

// Gates returns the current list of gates. Callers must not modify it.
func (s *Stream) Gates() []Gate {
	return s.gates
}

// Len returns the number of active gates.
func (s *Stream) Len() int {
	return len(s.gates)
}
