package tui

import (
	"context"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/tui-flappy/internal/config"
	"github.com/vovakirdan/tui-flappy/internal/core"
	"github.com/vovakirdan/tui-flappy/internal/flappy"
	"github.com/vovakirdan/tui-flappy/internal/storage"
)

// midRand puts every gap at the middle of its range.
type midRand struct{}

func (midRand) Float64() float64 { return 0.5 }

func newTestSim(t *testing.T) *flappy.Sim {
	t.Helper()
	sim, err := flappy.New(config.DefaultFlappyConfig(), flappy.WithRand(midRand{}))
	require.NoError(t, err)
	return sim
}

func newTestModel(t *testing.T, opts Options) Model {
	t.Helper()
	opts.Runtime = core.RuntimeConfig{ScreenW: 80, ScreenH: 25, TickRate: 60}
	return NewModel(newTestSim(t), opts)
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// update feeds msg to m and returns the concrete model.
func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(Model)
	require.True(t, ok, "Update returned %T", next)
	return nm, cmd
}

// autopilot flaps through the middle of the gaps until a point is scored,
// then lets the entity fall until the round ends. Returns the final score.
func autopilot(t *testing.T, sim *flappy.Sim) int {
	t.Helper()
	sim.Activate()
	for i := 0; i < 5000; i++ {
		snap := sim.Snapshot()
		if snap.State == flappy.StateGameOver {
			return snap.Score
		}
		if snap.Score == 0 && snap.Entity.Y > 330 {
			sim.Activate()
		}
		sim.Tick(1)
	}
	t.Fatal("round did not end")
	return 0
}

// fakeRecorder captures recorded rounds.
type fakeRecorder struct {
	mu     sync.Mutex
	rounds map[string]int
}

func (f *fakeRecorder) RecordRound(_ context.Context, id string, score int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.rounds == nil {
		f.rounds = make(map[string]int)
	}
	f.rounds[id] = score
	return nil
}

// fakeHistory serves a fixed set of rounds.
type fakeHistory struct {
	rounds []storage.Round
}

func (f fakeHistory) TopRounds(context.Context, string, int) ([]storage.Round, error) {
	return f.rounds, nil
}

// fakeSound is a Sound with a mute flag.
type fakeSound struct {
	muted bool
}

func (f *fakeSound) ToggleMute() bool { f.muted = !f.muted; return f.muted }
func (f *fakeSound) Muted() bool      { return f.muted }
func (f *fakeSound) Active() bool     { return true }

// fakePublisher counts published snapshots.
type fakePublisher struct {
	published int
	last      flappy.Snapshot
}

func (f *fakePublisher) Publish(s flappy.Snapshot) { f.published++; f.last = s }
func (f *fakePublisher) Spectators() int           { return 2 }
