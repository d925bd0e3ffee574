package storage

import (
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/log"
)

// Async wraps a BestScoreStore so saves never block the caller. A single
// worker goroutine writes the most recent score; saves queued while a write
// is in flight collapse into one.
//
// Write failures are logged and the first one is kept for Err. Use Flush to
// wait for the queue to drain and Close to stop the worker.
type Async struct {
	inner  BestScoreStore
	logger *log.Logger

	mu      sync.Mutex
	cond    *sync.Cond
	pending *int
	writing bool
	closed  bool
	err     error // First failed write
	done    chan struct{}
}

// NewAsync starts the worker. A nil logger discards failure reports.
func NewAsync(inner BestScoreStore, logger *log.Logger) *Async {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	a := &Async{
		inner:  inner,
		logger: logger,
		done:   make(chan struct{}),
	}
	a.cond = sync.NewCond(&a.mu)
	go a.run()
	return a
}

// LoadBestScore waits for queued saves, then reads through.
func (a *Async) LoadBestScore() (int, error) {
	a.Flush()
	return a.inner.LoadBestScore()
}

// SaveBestScore queues score and returns immediately.
func (a *Async) SaveBestScore(score int) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed {
		return ErrClosed
	}
	a.pending = &score
	a.cond.Broadcast()
	return nil
}

// Err returns the first background write failure, or nil.
func (a *Async) Err() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.err
}

// Flush blocks until every queued save has been attempted.
func (a *Async) Flush() {
	a.mu.Lock()
	defer a.mu.Unlock()
	for a.pending != nil || a.writing {
		a.cond.Wait()
	}
}

// Close drains the queue and stops the worker. It is safe to call twice.
func (a *Async) Close() error {
	a.mu.Lock()
	a.closed = true
	a.cond.Broadcast()
	a.mu.Unlock()

	<-a.done
	return nil
}

func (a *Async) run() {
	defer close(a.done)

	for {
		a.mu.Lock()
		for a.pending == nil && !a.closed {
			a.cond.Wait()
		}
		if a.pending == nil {
			a.mu.Unlock()
			return
		}
		score := *a.pending
		a.pending = nil
		a.writing = true
		a.mu.Unlock()

		err := a.write(score)
		if err != nil {
			a.logger.Warn("best score not saved", "score", score, "err", err)
		}

		a.mu.Lock()
		if err != nil && a.err == nil {
			a.err = err
		}
		a.writing = false
		a.cond.Broadcast()
		a.mu.Unlock()
	}
}

// write performs one save, turning a panic into an error.
func (a *Async) write(score int) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("storage: save panicked: %v", r)
		}
	}()
	return a.inner.SaveBestScore(score)
}
