package storage

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/tui-flappy/internal/config"
	"github.com/vovakirdan/tui-flappy/internal/flappy"
)

func TestPlayerStore(t *testing.T) {
	backend := NewMemory()
	alice := ForPlayer(backend, "alice")
	local := ForPlayer(backend, "")

	assert.Equal(t, LocalPlayer, local.Player())

	require.NoError(t, alice.SaveBestScore(9))
	best, err := alice.LoadBestScore()
	require.NoError(t, err)
	assert.Equal(t, 9, best)

	best, err = local.LoadBestScore()
	require.NoError(t, err)
	assert.Equal(t, 0, best, "players should not share a best score")

	require.NoError(t, alice.RecordRound(context.Background(), "round-1", 9))
	rounds, err := backend.TopRounds(context.Background(), "alice", 10)
	require.NoError(t, err)
	require.Len(t, rounds, 1)
	assert.Equal(t, "round-1", rounds[0].ID)
}

// slowStore records saves and can block or fail on demand.
type slowStore struct {
	mu      sync.Mutex
	saves   []int
	best    int
	gate    chan struct{}
	err     error
	panics  bool
	started chan struct{}
}

func (s *slowStore) LoadBestScore() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.best, nil
}

func (s *slowStore) SaveBestScore(score int) error {
	if s.started != nil {
		s.started <- struct{}{}
	}
	if s.gate != nil {
		<-s.gate
	}
	if s.panics {
		panic("disk on fire")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saves = append(s.saves, score)
	if s.err != nil {
		return s.err
	}
	s.best = score
	return nil
}

func TestAsyncReturnsImmediately(t *testing.T) {
	inner := &slowStore{gate: make(chan struct{})}
	a := NewAsync(inner, nil)

	done := make(chan struct{})
	go func() {
		_ = a.SaveBestScore(1)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("SaveBestScore blocked on the inner store")
	}

	close(inner.gate)
	require.NoError(t, a.Close())
	assert.Equal(t, []int{1}, inner.saves)
}

func TestAsyncCoalescesToLatest(t *testing.T) {
	inner := &slowStore{gate: make(chan struct{}), started: make(chan struct{}, 1)}
	a := NewAsync(inner, nil)

	require.NoError(t, a.SaveBestScore(1))
	<-inner.started // worker is now blocked writing 1

	require.NoError(t, a.SaveBestScore(2))
	require.NoError(t, a.SaveBestScore(3))
	close(inner.gate)

	a.Flush()
	<-inner.started // drain the second start signal
	assert.Equal(t, []int{1, 3}, inner.saves)

	best, err := a.LoadBestScore()
	require.NoError(t, err)
	assert.Equal(t, 3, best)
	require.NoError(t, a.Close())
}

func TestAsyncSurvivesFailures(t *testing.T) {
	tests := []struct {
		name  string
		inner *slowStore
	}{
		{"error", &slowStore{err: errors.New("disk full")}},
		{"panic", &slowStore{panics: true}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			a := NewAsync(tc.inner, nil)
			require.NoError(t, a.SaveBestScore(5))
			a.Flush()
			assert.Error(t, a.Err(), "the failed write should be reported")
			require.NoError(t, a.SaveBestScore(6), "worker should keep accepting saves")
			require.NoError(t, a.Close())
		})
	}
}

func TestAsyncClose(t *testing.T) {
	inner := &slowStore{}
	a := NewAsync(inner, nil)

	require.NoError(t, a.SaveBestScore(4))
	require.NoError(t, a.Close())
	assert.Equal(t, []int{4}, inner.saves, "close should drain the queue")
	assert.NoError(t, a.Err())

	assert.ErrorIs(t, a.SaveBestScore(5), ErrClosed)
	assert.NoError(t, a.Close())
}

// midRand puts every gap at the middle of its range.
type midRand struct{}

func (midRand) Float64() float64 { return 0.5 }

func TestAsyncFailureTurnsPersistenceOff(t *testing.T) {
	inner := &slowStore{err: errors.New("disk full")}
	a := NewAsync(inner, nil)
	defer a.Close()

	sim, err := flappy.New(config.DefaultFlappyConfig(), flappy.WithRand(midRand{}), flappy.WithStore(a))
	require.NoError(t, err)

	// Flap through the middle of the gaps until a point is scored, then fall.
	sim.Activate()
	for i := 0; i < 5000 && sim.Snapshot().State != flappy.StateGameOver; i++ {
		if snap := sim.Snapshot(); snap.Score == 0 && snap.Entity.Y > 330 {
			sim.Activate()
		}
		sim.Tick(1)
	}
	snap := sim.Snapshot()
	require.Equal(t, flappy.StateGameOver, snap.State)
	require.Positive(t, snap.BestScore)

	a.Flush()
	assert.Equal(t, []int{snap.BestScore}, inner.saves)
	assert.True(t, sim.Snapshot().PersistenceOff, "a failed background save should be reported")
}
