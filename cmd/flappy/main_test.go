package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/tui-flappy/internal/storage"
)

func TestScoresReport(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemory()
	defer store.Close()

	now := time.Now()
	require.NoError(t, store.RecordRound(ctx, storage.Round{ID: "r1", Player: "alice", Score: 9, CreatedAt: now}))
	require.NoError(t, store.RecordRound(ctx, storage.Round{ID: "r2", Player: "bob", Score: 14, CreatedAt: now}))

	out, err := scoresReport(ctx, store, "", 10)
	require.NoError(t, err)
	assert.Contains(t, out, "alice")
	assert.Contains(t, out, "bob")
	assert.Contains(t, out, "2 rounds, best 14")

	out, err = scoresReport(ctx, store, "alice", 10)
	require.NoError(t, err)
	assert.NotContains(t, out, "bob")
}

func TestScoresReportClosedStore(t *testing.T) {
	store := storage.NewMemory()
	require.NoError(t, store.Close())

	_, err := scoresReport(context.Background(), store, "", 10)
	assert.ErrorIs(t, err, storage.ErrClosed)
}

func TestFileLogger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "flappy.log")

	logger, closer, err := fileLogger(path, "debug")
	require.NoError(t, err)
	logger.Debug("hello", "k", 1)
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello")

	_, _, err = fileLogger(path, "loud")
	assert.Error(t, err)
}

func TestBackendNotesCoverRegistry(t *testing.T) {
	for _, name := range storage.Backends() {
		assert.NotEmpty(t, backendNotes[name], name)
	}
}
