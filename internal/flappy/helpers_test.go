package flappy

import (
	"errors"
	"sync"
	"testing"

	"github.com/vovakirdan/tui-flappy/internal/config"
)

// testConfig returns the reference constants: gravity 0.5, impulse -8,
// speed 2, gap 150 in a 400x600 playfield, entity at x=50 sized 34x24.
func testConfig() config.FlappyConfig {
	return config.DefaultFlappyConfig()
}

// newTestSim builds a sim with a fixed seed and fails the test on error.
func newTestSim(t *testing.T, cfg config.FlappyConfig, opts ...Option) *Sim {
	t.Helper()
	s, err := New(cfg, append([]Option{WithSeed(1)}, opts...)...)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	return s
}

// fixedRand always returns the same value.
type fixedRand float64

func (f fixedRand) Float64() float64 { return float64(f) }

// memStore is an in-memory ScoreStore with synchronous commits.
type memStore struct {
	mu      sync.Mutex
	best    int
	saves   []int
	loadErr error
	saveErr error
	panics  bool
}

func (m *memStore) LoadBestScore() (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loadErr != nil {
		return 0, m.loadErr
	}
	return m.best, nil
}

func (m *memStore) SaveBestScore(score int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.panics {
		panic("disk on fire")
	}
	m.saves = append(m.saves, score)
	if m.saveErr != nil {
		return m.saveErr
	}
	m.best = score
	return nil
}

var errBroken = errors.New("broken store")

// laterStore accepts every save and reports a failure afterwards, like a
// store that writes in the background.
type laterStore struct {
	memStore
	failed error
}

func (l *laterStore) Err() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.failed
}

func (l *laterStore) fail(err error) {
	l.mu.Lock()
	l.failed = err
	l.mu.Unlock()
}

// crash drives a playing sim into the floor so the round ends this tick.
func crash(s *Sim) []Event {
	s.mu.Lock()
	s.entity.Y = s.cfg.Playfield.Height
	s.mu.Unlock()
	return s.Tick(1)
}

// playRound starts a round, sets the score directly and crashes.
func playRound(t *testing.T, s *Sim, score int) {
	t.Helper()
	s.Activate()
	if st := s.Snapshot().State; st != StatePlaying {
		t.Fatalf("expected playing after activate, got %s", st)
	}
	s.mu.Lock()
	s.round.Score = score
	s.mu.Unlock()
	crash(s)
	if st := s.Snapshot().State; st != StateGameOver {
		t.Fatalf("expected game over after crash, got %s", st)
	}
}
