package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// backendFactories opens each backend that needs no external service.
func backendFactories() map[string]func(t *testing.T) Backend {
	return map[string]func(t *testing.T) Backend{
		"memory": func(t *testing.T) Backend {
			return NewMemory()
		},
		"file": func(t *testing.T) Backend {
			s, err := OpenFile(filepath.Join(t.TempDir(), "scores.yaml"))
			require.NoError(t, err)
			return s
		},
		"sqlite": func(t *testing.T) Backend {
			s, err := OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "scores.db"))
			require.NoError(t, err)
			return s
		},
	}
}

// runBackendSuite checks the behavior every backend shares.
func runBackendSuite(t *testing.T, open func(t *testing.T) Backend) {
	ctx := context.Background()

	t.Run("best score defaults to zero", func(t *testing.T) {
		b := open(t)
		defer b.Close()

		best, err := b.BestScore(ctx, "nobody")
		require.NoError(t, err)
		assert.Equal(t, 0, best)
	})

	t.Run("best score never goes down", func(t *testing.T) {
		b := open(t)
		defer b.Close()

		require.NoError(t, b.SaveBestScore(ctx, "alice", 12))
		require.NoError(t, b.SaveBestScore(ctx, "alice", 15))
		require.NoError(t, b.SaveBestScore(ctx, "alice", 5))

		best, err := b.BestScore(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, 15, best)
	})

	t.Run("best score is per player", func(t *testing.T) {
		b := open(t)
		defer b.Close()

		require.NoError(t, b.SaveBestScore(ctx, "alice", 7))
		require.NoError(t, b.SaveBestScore(ctx, "bob", 3))

		alice, err := b.BestScore(ctx, "alice")
		require.NoError(t, err)
		bob, err := b.BestScore(ctx, "bob")
		require.NoError(t, err)
		assert.Equal(t, 7, alice)
		assert.Equal(t, 3, bob)
	})

	t.Run("top rounds ordered best first", func(t *testing.T) {
		b := open(t)
		defer b.Close()

		base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
		rounds := []Round{
			{ID: "r1", Player: "alice", Score: 100, CreatedAt: base},
			{ID: "r2", Player: "alice", Score: 50, CreatedAt: base.Add(time.Minute)},
			{ID: "r3", Player: "bob", Score: 200, CreatedAt: base.Add(2 * time.Minute)},
			{ID: "r4", Player: "alice", Score: 100, CreatedAt: base.Add(3 * time.Minute)},
		}
		for _, r := range rounds {
			require.NoError(t, b.RecordRound(ctx, r))
		}

		all, err := b.TopRounds(ctx, "", 10)
		require.NoError(t, err)
		require.Len(t, all, 4)
		assert.Equal(t, []string{"r3", "r1", "r4", "r2"}, roundIDs(all))
		assert.True(t, all[0].CreatedAt.Equal(base.Add(2*time.Minute)), "created_at = %v", all[0].CreatedAt)

		alice, err := b.TopRounds(ctx, "alice", 2)
		require.NoError(t, err)
		assert.Equal(t, []string{"r1", "r4"}, roundIDs(alice))
	})

	t.Run("stats", func(t *testing.T) {
		b := open(t)
		defer b.Close()

		empty, err := b.Stats(ctx, "")
		require.NoError(t, err)
		assert.Equal(t, 0, empty.Rounds)
		assert.True(t, empty.LastPlayed.IsZero())

		last := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
		require.NoError(t, b.RecordRound(ctx, Round{ID: "a", Player: "alice", Score: 4, CreatedAt: last.Add(-time.Hour)}))
		require.NoError(t, b.RecordRound(ctx, Round{ID: "b", Player: "alice", Score: 8, CreatedAt: last}))
		require.NoError(t, b.RecordRound(ctx, Round{ID: "c", Player: "bob", Score: 30, CreatedAt: last.Add(-2 * time.Hour)}))

		st, err := b.Stats(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, 2, st.Rounds)
		assert.Equal(t, 8, st.Best)
		assert.InDelta(t, 6.0, st.Average, 1e-9)
		assert.True(t, st.LastPlayed.Equal(last), "last played = %v", st.LastPlayed)

		all, err := b.Stats(ctx, "")
		require.NoError(t, err)
		assert.Equal(t, 3, all.Rounds)
		assert.Equal(t, 30, all.Best)
	})
}

func roundIDs(rounds []Round) []string {
	ids := make([]string, len(rounds))
	for i, r := range rounds {
		ids[i] = r.ID
	}
	return ids
}

func TestBackends(t *testing.T) {
	for name, open := range backendFactories() {
		t.Run(name, func(t *testing.T) {
			runBackendSuite(t, open)
		})
	}
}

func TestRegistry(t *testing.T) {
	assert.Equal(t, []string{"file", "memory", "postgres", "sqlite"}, Backends())

	b, err := Open(context.Background(), "memory", "")
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, b)

	_, err = Open(context.Background(), "redis", "")
	assert.ErrorIs(t, err, ErrUnknownBackend)

	_, err = Open(context.Background(), "postgres", "")
	assert.Error(t, err, "postgres without a URL should fail")
}

func TestRegisterDuplicatePanics(t *testing.T) {
	assert.Panics(t, func() {
		Register("memory", func(context.Context, string) (Backend, error) { return NewMemory(), nil })
	})
}

func TestMemoryClosed(t *testing.T) {
	m := NewMemory()
	require.NoError(t, m.Close())
	ctx := context.Background()
	assert.ErrorIs(t, m.SaveBestScore(ctx, "alice", 1), ErrClosed)

	_, err := m.BestScore(ctx, "alice")
	assert.ErrorIs(t, err, ErrClosed)
	_, err = m.TopRounds(ctx, "", 10)
	assert.ErrorIs(t, err, ErrClosed)
}
