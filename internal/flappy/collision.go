package flappy

import "github.com/vovakirdan/tui-flappy/internal/core"

// Result is the outcome of one collision check.
type Result struct {
	Collided bool  // Entity hit a gate or left the playfield
	Boundary bool  // The hit was the playfield edge
	Passed   []int // Indices of gates newly passed this check
}

// Detector evaluates entity-vs-gate and entity-vs-boundary overlap.
type Detector struct {
	Height float64 // Playfield height
}

// Check tests the entity against every active gate and the playfield edges.
// It does not mutate anything; the caller flips Passed flags.
func (d Detector) Check(e Entity, gates []Gate) Result {
	box := e.Box()
	res := Result{}

	// Exactly touching the top or bottom edge is still inside.
	if !box.Within(0, d.Height) {
		res.Collided = true
		res.Boundary = true
	}

	for i, g := range gates {
		if hitsGate(box, g) {
			res.Collided = true
		}
		if !g.Passed && g.Right() <= e.X {
			res.Passed = append(res.Passed, i)
		}
	}
	return res
}

// hitsGate reports whether box overlaps gate g horizontally while sticking
// out of its opening. Both conditions are evaluated against the same gate.
func hitsGate(box core.Box, g Gate) bool {
	if !box.OverlapsX(g.TopBox()) {
		return false
	}
	return box.Y < g.GapTop || box.Bottom() > g.GapBottom()
}
