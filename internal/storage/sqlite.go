package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// DefaultSQLitePath is where the sqlite backend keeps its database.
const DefaultSQLitePath = "~/.flappy/scores.db"

// sqliteTimeLayout matches CURRENT_TIMESTAMP so both parse the same way.
const sqliteTimeLayout = "2006-01-02 15:04:05"

func init() {
	Register("sqlite", func(ctx context.Context, dsn string) (Backend, error) {
		if dsn == "" {
			dsn = DefaultSQLitePath
		}
		return OpenSQLite(ctx, dsn)
	})
}

// SQLiteStore persists scores in a local SQLite database.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func OpenSQLite(ctx context.Context, dbPath string) (*SQLiteStore, error) {
	dbPath, err := prepareFile(dbPath)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}
	// One writer at a time; the async saver and the UI share this handle.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.migrate(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *SQLiteStore) migrate(ctx context.Context) error {
	schema := `
		CREATE TABLE IF NOT EXISTS best_scores (
			player TEXT PRIMARY KEY,
			score INTEGER NOT NULL,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS scores (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			round_id TEXT NOT NULL UNIQUE,
			player TEXT NOT NULL,
			score INTEGER NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_scores_player ON scores(player);
		CREATE INDEX IF NOT EXISTS idx_scores_top ON scores(score DESC);
	`

	_, err := s.db.ExecContext(ctx, schema)
	return err
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// BestScore returns the player's best score, or 0 if none is stored.
func (s *SQLiteStore) BestScore(ctx context.Context, player string) (int, error) {
	var score int
	err := s.db.QueryRowContext(ctx,
		"SELECT score FROM best_scores WHERE player = ?",
		player,
	).Scan(&score)

	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("storage: cannot query best score: %w", err)
	}
	return score, nil
}

// SaveBestScore stores score unless a higher one is already stored.
func (s *SQLiteStore) SaveBestScore(ctx context.Context, player string, score int) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO best_scores (player, score, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(player) DO UPDATE SET
		   score = MAX(best_scores.score, excluded.score),
		   updated_at = excluded.updated_at`,
		player, score, time.Now().UTC().Format(sqliteTimeLayout),
	)
	if err != nil {
		return fmt.Errorf("storage: cannot save best score: %w", err)
	}
	return nil
}

// RecordRound appends a finished round to the history.
func (s *SQLiteStore) RecordRound(ctx context.Context, r Round) error {
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO scores (round_id, player, score, created_at) VALUES (?, ?, ?, ?)",
		r.ID, r.Player, r.Score, r.CreatedAt.UTC().Format(sqliteTimeLayout),
	)
	if err != nil {
		return fmt.Errorf("storage: cannot record round: %w", err)
	}
	return nil
}

// TopRounds retrieves the top rounds, best first.
func (s *SQLiteStore) TopRounds(ctx context.Context, player string, limit int) ([]Round, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT round_id, player, score, created_at
		 FROM scores
		 WHERE ? = '' OR player = ?
		 ORDER BY score DESC, created_at ASC, id ASC
		 LIMIT ?`,
		player, player, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query scores: %w", err)
	}
	defer rows.Close()

	var rounds []Round
	for rows.Next() {
		var r Round
		var createdAt any
		if err := rows.Scan(&r.ID, &r.Player, &r.Score, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		r.CreatedAt = parseSQLiteTime(createdAt)
		rounds = append(rounds, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return rounds, nil
}

// Stats retrieves aggregated statistics over the history.
func (s *SQLiteStore) Stats(ctx context.Context, player string) (Stats, error) {
	var st Stats
	var lastPlayed any

	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(MAX(score), 0), COALESCE(AVG(score), 0), MAX(created_at)
		 FROM scores WHERE ? = '' OR player = ?`,
		player, player,
	).Scan(&st.Rounds, &st.Best, &st.Average, &lastPlayed)
	if err != nil {
		return Stats{}, fmt.Errorf("storage: cannot get stats: %w", err)
	}

	st.LastPlayed = parseSQLiteTime(lastPlayed)
	return st, nil
}

// parseSQLiteTime handles the datetime column as either time.Time or string.
func parseSQLiteTime(v any) time.Time {
	switch v := v.(type) {
	case time.Time:
		return v
	case string:
		if parsed, err := time.Parse(sqliteTimeLayout, v); err == nil {
			return parsed
		}
	case []byte:
		if parsed, err := time.Parse(sqliteTimeLayout, string(v)); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
