package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultFilePath is where the file backend keeps its scores.
const DefaultFilePath = "~/.flappy/scores.yaml"

func init() {
	Register("file", func(_ context.Context, dsn string) (Backend, error) {
		if dsn == "" {
			dsn = DefaultFilePath
		}
		return OpenFile(dsn)
	})
}

// fileData is the on-disk YAML document.
type fileData struct {
	Best   map[string]int `yaml:"best"`
	Rounds []Round        `yaml:"rounds"`
}

// FileStore keeps scores in a YAML file. The file is opened and closed for
// every operation, so no handle is held between calls; writes go to a
// temporary file that is renamed over the original.
type FileStore struct {
	mu   sync.Mutex
	path string
}

// OpenFile prepares a YAML score file at path. The file itself is created on
// the first write.
func OpenFile(path string) (*FileStore, error) {
	path, err := prepareFile(path)
	if err != nil {
		return nil, err
	}
	return &FileStore{path: path}, nil
}

// Path returns the resolved file location.
func (s *FileStore) Path() string {
	return s.path
}

// BestScore returns the player's best score, or 0 if none is stored.
func (s *FileStore) BestScore(_ context.Context, player string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.read()
	if err != nil {
		return 0, err
	}
	return data.Best[player], nil
}

// SaveBestScore stores score unless a higher one is already stored.
func (s *FileStore) SaveBestScore(_ context.Context, player string, score int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.read()
	if err != nil {
		return err
	}
	if data.Best[player] >= score {
		return nil
	}
	data.Best[player] = score
	return s.write(data)
}

// RecordRound appends a finished round to the history.
func (s *FileStore) RecordRound(_ context.Context, r Round) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}
	data, err := s.read()
	if err != nil {
		return err
	}
	data.Rounds = append(data.Rounds, r)
	return s.write(data)
}

// TopRounds retrieves the top rounds, best first.
func (s *FileStore) TopRounds(_ context.Context, player string, limit int) ([]Round, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.read()
	if err != nil {
		return nil, err
	}
	return filterTop(data.Rounds, player, limit), nil
}

// Stats retrieves aggregated statistics over the history.
func (s *FileStore) Stats(_ context.Context, player string) (Stats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.read()
	if err != nil {
		return Stats{}, err
	}
	return summarize(data.Rounds, player), nil
}

// Close is a no-op; no handle outlives an operation.
func (s *FileStore) Close() error {
	return nil
}

// read loads the document. A missing file is an empty document.
func (s *FileStore) read() (fileData, error) {
	data := fileData{Best: make(map[string]int)}

	raw, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return data, nil
	}
	if err != nil {
		return data, fmt.Errorf("storage: cannot read %s: %w", s.path, err)
	}

	if err := yaml.Unmarshal(raw, &data); err != nil {
		return data, fmt.Errorf("storage: cannot parse %s: %w", s.path, err)
	}
	if data.Best == nil {
		data.Best = make(map[string]int)
	}
	return data, nil
}

// write replaces the document atomically.
func (s *FileStore) write(data fileData) error {
	raw, err := yaml.Marshal(data)
	if err != nil {
		return fmt.Errorf("storage: cannot encode scores: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".scores-*.yaml")
	if err != nil {
		return fmt.Errorf("storage: cannot create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return fmt.Errorf("storage: cannot write scores: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("storage: cannot write scores: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("storage: cannot replace %s: %w", s.path, err)
	}
	return nil
}
