// Package storage persists best scores and round history behind a small
// Backend interface. Backends register themselves by name in init functions,
// so the CLI can pick one with --store without importing drivers directly.
package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"
)

// LocalPlayer is the player name used for local, non-SSH play.
const LocalPlayer = "local"

var (
	// ErrUnknownBackend is returned by Open for an unregistered backend name.
	ErrUnknownBackend = errors.New("storage: unknown backend")
	// ErrClosed is returned when writing to a closed store.
	ErrClosed = errors.New("storage: store is closed")
)

// Round is one finished round in the score history.
type Round struct {
	ID        string    `yaml:"id"`
	Player    string    `yaml:"player"`
	Score     int       `yaml:"score"`
	CreatedAt time.Time `yaml:"created_at"`
}

// Stats aggregates a player's history.
type Stats struct {
	Rounds     int
	Best       int
	Average    float64
	LastPlayed time.Time
}

// Backend stores best scores per player and the history of finished rounds.
//
// SaveBestScore never lowers a stored best. An empty player in TopRounds and
// Stats means every player.
type Backend interface {
	BestScore(ctx context.Context, player string) (int, error)
	SaveBestScore(ctx context.Context, player string, score int) error
	RecordRound(ctx context.Context, r Round) error
	TopRounds(ctx context.Context, player string, limit int) ([]Round, error)
	Stats(ctx context.Context, player string) (Stats, error)
	Close() error
}

// Opener creates a backend from a backend-specific DSN. An empty DSN selects
// the backend's default location.
type Opener func(ctx context.Context, dsn string) (Backend, error)

var (
	openers = make(map[string]Opener)
	mu      sync.RWMutex
)

// Register adds a backend under name.
// Panics if a backend with the same name is already registered.
func Register(name string, open Opener) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := openers[name]; exists {
		panic(fmt.Sprintf("storage: backend %q already registered", name))
	}
	openers[name] = open
}

// Open creates the named backend.
func Open(ctx context.Context, name, dsn string) (Backend, error) {
	mu.RLock()
	open, ok := openers[name]
	mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %v)", ErrUnknownBackend, name, Backends())
	}
	return open(ctx, dsn)
}

// Backends returns the registered backend names, sorted.
func Backends() []string {
	mu.RLock()
	defer mu.RUnlock()

	names := make([]string, 0, len(openers))
	for name := range openers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// expandHome replaces a leading ~ with the user's home directory.
func expandHome(path string) (string, error) {
	if path == "" || path[0] != '~' {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("storage: cannot expand home directory: %w", err)
	}
	return filepath.Join(home, path[1:]), nil
}

// prepareFile expands path and creates its parent directories.
func prepareFile(path string) (string, error) {
	path, err := expandHome(path)
	if err != nil {
		return "", err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}
	return path, nil
}

// sortRounds orders rounds best first; ties go to the earlier round.
func sortRounds(rounds []Round) {
	sort.SliceStable(rounds, func(i, j int) bool {
		if rounds[i].Score != rounds[j].Score {
			return rounds[i].Score > rounds[j].Score
		}
		return rounds[i].CreatedAt.Before(rounds[j].CreatedAt)
	})
}

// summarize computes Stats over rounds in memory.
func summarize(rounds []Round, player string) Stats {
	var st Stats
	total := 0
	for _, r := range rounds {
		if player != "" && r.Player != player {
			continue
		}
		st.Rounds++
		total += r.Score
		if r.Score > st.Best {
			st.Best = r.Score
		}
		if r.CreatedAt.After(st.LastPlayed) {
			st.LastPlayed = r.CreatedAt
		}
	}
	if st.Rounds > 0 {
		st.Average = float64(total) / float64(st.Rounds)
	}
	return st
}

// filterTop returns the best limit rounds of player (all players if empty).
func filterTop(rounds []Round, player string, limit int) []Round {
	if limit <= 0 {
		limit = 10
	}
	out := make([]Round, 0, len(rounds))
	for _, r := range rounds {
		if player == "" || r.Player == player {
			out = append(out, r)
		}
	}
	sortRounds(out)
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}
