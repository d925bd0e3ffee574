package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS best_scores (
    player TEXT PRIMARY KEY,
    score INTEGER NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE TABLE IF NOT EXISTS scores (
    id BIGSERIAL PRIMARY KEY,
    round_id TEXT NOT NULL UNIQUE,
    player TEXT NOT NULL,
    score INTEGER NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_scores_player ON scores(player);
CREATE INDEX IF NOT EXISTS idx_scores_top ON scores(score DESC);
`

func init() {
	Register("postgres", func(ctx context.Context, dsn string) (Backend, error) {
		if dsn == "" {
			return nil, errors.New("storage: postgres backend needs --db with a database URL")
		}
		return OpenPostgres(ctx, dsn)
	})
}

// PostgresStore persists scores in PostgreSQL, for servers shared by many
// SSH players.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// OpenPostgres connects to PostgreSQL and initializes the schema.
func OpenPostgres(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open postgres pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("storage: cannot connect to postgres: %w", err)
	}

	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return &PostgresStore{pool: pool}, nil
}

// BestScore returns the player's best score, or 0 if none is stored.
func (s *PostgresStore) BestScore(ctx context.Context, player string) (int, error) {
	var score int
	err := s.pool.QueryRow(ctx,
		`SELECT score FROM best_scores WHERE player = $1`, player).Scan(&score)

	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("storage: cannot query best score: %w", err)
	}
	return score, nil
}

// SaveBestScore stores score unless a higher one is already stored.
func (s *PostgresStore) SaveBestScore(ctx context.Context, player string, score int) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO best_scores (player, score, updated_at) VALUES ($1, $2, NOW())
		 ON CONFLICT (player) DO UPDATE SET
		   score = GREATEST(best_scores.score, EXCLUDED.score),
		   updated_at = NOW()`,
		player, score)
	if err != nil {
		return fmt.Errorf("storage: cannot save best score: %w", err)
	}
	return nil
}

// RecordRound appends a finished round to the history.
func (s *PostgresStore) RecordRound(ctx context.Context, r Round) error {
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO scores (round_id, player, score, created_at) VALUES ($1, $2, $3, $4)`,
		r.ID, r.Player, r.Score, r.CreatedAt)
	if err != nil {
		return fmt.Errorf("storage: cannot record round: %w", err)
	}
	return nil
}

// TopRounds retrieves the top rounds, best first.
func (s *PostgresStore) TopRounds(ctx context.Context, player string, limit int) ([]Round, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.pool.Query(ctx,
		`SELECT round_id, player, score, created_at
		 FROM scores
		 WHERE $1 = '' OR player = $1
		 ORDER BY score DESC, created_at ASC, id ASC
		 LIMIT $2`,
		player, limit)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query scores: %w", err)
	}

	rounds, err := pgx.CollectRows(rows, scanRound)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot scan rows: %w", err)
	}
	return rounds, nil
}

// Stats retrieves aggregated statistics over the history.
func (s *PostgresStore) Stats(ctx context.Context, player string) (Stats, error) {
	var st Stats
	var lastPlayed *time.Time

	err := s.pool.QueryRow(ctx,
		`SELECT COUNT(*), COALESCE(MAX(score), 0), COALESCE(AVG(score), 0)::float8, MAX(created_at)
		 FROM scores WHERE $1 = '' OR player = $1`,
		player).Scan(&st.Rounds, &st.Best, &st.Average, &lastPlayed)
	if err != nil {
		return Stats{}, fmt.Errorf("storage: cannot get stats: %w", err)
	}
	if lastPlayed != nil {
		st.LastPlayed = *lastPlayed
	}
	return st, nil
}

// Close releases database resources.
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func scanRound(row pgx.CollectableRow) (Round, error) {
	var r Round
	err := row.Scan(&r.ID, &r.Player, &r.Score, &r.CreatedAt)
	return r, err
}
