package storage

import (
	"context"
	"time"
)

// BestScoreStore is the narrow view the simulation persists through.
type BestScoreStore interface {
	LoadBestScore() (int, error)
	SaveBestScore(score int) error
}

// DefaultTimeout bounds a single PlayerStore call.
const DefaultTimeout = 5 * time.Second

// PlayerStore binds a backend to one player.
type PlayerStore struct {
	backend Backend
	player  string
	timeout time.Duration
}

// ForPlayer returns a BestScoreStore for player on backend.
func ForPlayer(backend Backend, player string) *PlayerStore {
	if player == "" {
		player = LocalPlayer
	}
	return &PlayerStore{backend: backend, player: player, timeout: DefaultTimeout}
}

// Player returns the bound player name.
func (p *PlayerStore) Player() string {
	return p.player
}

// LoadBestScore reads the player's best score.
func (p *PlayerStore) LoadBestScore() (int, error) {
	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()
	return p.backend.BestScore(ctx, p.player)
}

// SaveBestScore writes the player's best score.
func (p *PlayerStore) SaveBestScore(score int) error {
	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()
	return p.backend.SaveBestScore(ctx, p.player, score)
}

// RecordRound appends a round for the bound player.
func (p *PlayerStore) RecordRound(ctx context.Context, id string, score int) error {
	return p.backend.RecordRound(ctx, Round{
		ID:        id,
		Player:    p.player,
		Score:     score,
		CreatedAt: time.Now(),
	})
}
