package storage

import (
	"context"
	"sync"
	"time"
)

func init() {
	Register("memory", func(context.Context, string) (Backend, error) {
		return NewMemory(), nil
	})
}

// MemoryStore keeps scores for the lifetime of the process only.
type MemoryStore struct {
	mu     sync.Mutex
	best   map[string]int
	rounds []Round
	closed bool
}

// NewMemory creates an empty in-memory store.
func NewMemory() *MemoryStore {
	return &MemoryStore{best: make(map[string]int)}
}

func (s *MemoryStore) BestScore(_ context.Context, player string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0, ErrClosed
	}
	return s.best[player], nil
}

func (s *MemoryStore) SaveBestScore(_ context.Context, player string, score int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	if score > s.best[player] {
		s.best[player] = score
	}
	return nil
}

func (s *MemoryStore) RecordRound(_ context.Context, r Round) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}
	s.rounds = append(s.rounds, r)
	return nil
}

func (s *MemoryStore) TopRounds(_ context.Context, player string, limit int) ([]Round, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrClosed
	}
	return filterTop(s.rounds, player, limit), nil
}

func (s *MemoryStore) Stats(_ context.Context, player string) (Stats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return Stats{}, ErrClosed
	}
	return summarize(s.rounds, player), nil
}

func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}
