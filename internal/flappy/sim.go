// Package flappy implements the deterministic simulation behind a
// Flappy Bird-style game: a falling entity, a stream of gates, collisions,
// scoring and the round state machine.
//
// The package performs no rendering, audio or I/O. Collaborators drive it
// through Tick/Activate/Reset, read it through Snapshot, persist the best
// score through ScoreStore and listen to it through EventSink.
package flappy

import (
	"fmt"
	"io"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/vovakirdan/tui-flappy/internal/config"
)

// ScoreStore persists the best score. Implementations may fail; the
// simulation logs the failure and keeps the score in memory.
type ScoreStore interface {
	LoadBestScore() (int, error)
	SaveBestScore(score int) error
}

// FailureReporter is implemented by stores that save in the background and
// report a failed write after the fact.
type FailureReporter interface {
	Err() error
}

// Option configures a Sim.
type Option func(*Sim)

// WithStore sets the best score persistence collaborator.
func WithStore(store ScoreStore) Option {
	return func(s *Sim) {
		s.store = store
	}
}

// WithRand sets the random source used for gap heights.
func WithRand(rng Rand) Option {
	return func(s *Sim) {
		s.rng = rng
	}
}

// WithSeed seeds a private random source for gap heights.
func WithSeed(seed int64) Option {
	return func(s *Sim) {
		s.rng = rand.New(rand.NewSource(seed))
	}
}

// WithLogger sets the logger used for persistence warnings.
func WithLogger(logger *log.Logger) Option {
	return func(s *Sim) {
		s.logger = logger
	}
}

// WithEventSink subscribes sink before the first tick.
func WithEventSink(sink EventSink) Option {
	return func(s *Sim) {
		s.sinks = append(s.sinks, sink)
	}
}

// Sim is the simulation facade. It exclusively owns the entity, the gate
// stream and the round state.
//
// All methods are safe for concurrent use: ticks never overlap, and an
// Activate or Reset from an input goroutine lands atomically between ticks.
type Sim struct {
	mu sync.Mutex

	cfg      config.FlappyConfig
	entity   Entity
	stream   *Stream
	detector Detector
	scoring  Scoring
	round    RoundState
	tick     uint64

	// Events raised since the last Tick returned, in order.
	pending []Event
	sinks   []EventSink

	rng         Rand
	store       ScoreStore
	storeFailed bool
	logger      *log.Logger
}

// New validates cfg and creates a simulation in the Idle state. The best
// score is loaded from the store once, here.
func New(cfg config.FlappyConfig, opts ...Option) (*Sim, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("flappy: %w", err)
	}

	s := &Sim{
		cfg:      cfg,
		detector: Detector{Height: cfg.Playfield.Height},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = log.New(io.Discard)
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	s.stream = NewStream(cfg, s.rng)
	s.scoring = Scoring{
		best:    s.loadBest(),
		emit:    s.emit,
		persist: s.persist,
	}
	s.resetRound()
	return s, nil
}

// Subscribe adds an event sink. Sinks are called after each Tick, outside
// the simulation lock, so they may read Snapshot.
func (s *Sim) Subscribe(sink EventSink) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sinks = append(s.sinks, sink)
}

// Tick advances the simulation by dt reference ticks and returns the events
// raised since the previous Tick, which are also delivered to subscribers.
// Tick is total: a zero, negative or non-finite dt advances nothing.
func (s *Sim) Tick(dt float64) []Event {
	if !(dt > 0) || math.IsInf(dt, 0) {
		dt = 0
	}

	s.mu.Lock()
	s.tick++
	switch s.round.State {
	case StateCountdown:
		s.round.CountdownLeft -= dt
		if s.round.CountdownLeft <= 0 {
			s.apply(TriggerTimerExpired)
		}
	case StatePlaying:
		s.step(dt)
	}

	events := s.pending
	s.pending = nil
	sinks := append([]EventSink(nil), s.sinks...)
	s.mu.Unlock()

	for _, e := range events {
		for _, sink := range sinks {
			s.deliver(sink, e)
		}
	}
	return events
}

// Activate is the single user-intent signal: start from idle, flap while
// playing, clear the board after game over. Ignored during the countdown.
func (s *Sim) Activate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.apply(TriggerActivate)
}

// Reset forces the round back to Idle from any state. Events the discarded
// round raised but that were not yet delivered are dropped.
func (s *Sim) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.apply(TriggerReset)
}

// Snapshot returns a copy of everything a renderer needs.
func (s *Sim) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	gates := make([]Gate, len(s.stream.Gates()))
	copy(gates, s.stream.Gates())

	return Snapshot{
		Round: s.round.ID,
		State: s.round.State,
		Entity: EntityView{
			X:      s.entity.X,
			Y:      s.entity.Y,
			Width:  s.entity.Width,
			Height: s.entity.Height,
			Vel:    s.entity.Vel,
		},
		Gates:          gates,
		Score:          s.round.Score,
		BestScore:      s.scoring.Best(),
		CountdownLeft:  math.Max(s.round.CountdownLeft, 0),
		PlayfieldW:     s.cfg.Playfield.Width,
		PlayfieldH:     s.cfg.Playfield.Height,
		Tick:           s.tick,
		PersistenceOff: s.checkStore(),
	}
}

// Config returns the configuration the simulation was built with.
func (s *Sim) Config() config.FlappyConfig {
	return s.cfg
}

// step runs one Playing tick: physics, gates, then collisions and passes.
func (s *Sim) step(dt float64) {
	s.entity.Advance(dt)
	s.stream.Advance(s.cfg.Physics.Speed * dt)
	s.stream.MaybeSpawn()

	res := s.detector.Check(s.entity, s.stream.Gates())
	for _, i := range res.Passed {
		if s.stream.MarkPassed(i) {
			s.scoring.OnPass(&s.round)
		}
	}
	if res.Collided {
		s.apply(TriggerCollision)
	}
}

// apply feeds a trigger to the state machine and performs the effect.
// Callers hold s.mu.
func (s *Sim) apply(t Trigger) {
	next, effect := Transition(s.round.State, t, s.cfg.Round.CountdownTicks > 0)
	s.round.State = next

	switch effect {
	case EffectStartCountdown:
		s.round.CountdownLeft = s.cfg.Round.CountdownTicks
	case EffectStartPlaying:
		s.round.CountdownLeft = 0
	case EffectFlap:
		s.entity.Impulse()
		s.emit(EventFlap)
	case EffectEndRound:
		s.emit(EventHit)
		s.scoring.OnRoundEnd(&s.round)
	case EffectResetRound:
		s.resetRound()
	}
}

// resetRound restores entity, gates and round state to their creation-time
// values. The best score is untouched.
func (s *Sim) resetRound() {
	s.entity = newEntity(s.cfg)
	s.stream.Reset()
	s.round = RoundState{
		ID:    uuid.NewString(),
		State: StateIdle,
	}
	s.pending = nil
}

// emit queues an event for delivery at the end of the current tick.
func (s *Sim) emit(e Event) {
	s.pending = append(s.pending, e)
}

// deliver hands one event to one sink. A panicking sink is logged and skipped.
func (s *Sim) deliver(sink EventSink, e Event) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Warn("event sink panicked", "event", e, "panic", r)
		}
	}()
	sink.HandleEvent(e)
}

// loadBest reads the persisted best score. Any failure means 0 and no
// further writes this session.
func (s *Sim) loadBest() (best int) {
	if s.store == nil {
		return 0
	}
	defer func() {
		if r := recover(); r != nil {
			s.storeFailed = true
			s.logger.Warn("best score store panicked on load; keeping scores in memory", "panic", r)
			best = 0
		}
	}()

	best, err := s.store.LoadBestScore()
	if err != nil {
		s.storeFailed = true
		s.logger.Warn("cannot load best score; keeping scores in memory", "err", err)
		return 0
	}
	if best < 0 {
		return 0
	}
	return best
}

// checkStore reports whether persistence is off, picking up failures a
// background store reported since the last call. Callers hold s.mu.
func (s *Sim) checkStore() bool {
	if s.storeFailed || s.store == nil {
		return s.storeFailed
	}
	r, ok := s.store.(FailureReporter)
	if !ok {
		return false
	}
	if err := r.Err(); err != nil {
		s.storeFailed = true
		s.logger.Warn("best score store failed; keeping scores in memory", "err", err)
	}
	return s.storeFailed
}

// persist hands a new best score to the store. Failures never reach the
// tick loop; after the first one the session stays in memory only.
func (s *Sim) persist(score int) {
	if s.store == nil || s.checkStore() {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			s.storeFailed = true
			s.logger.Warn("best score store panicked on save; keeping scores in memory", "score", score, "panic", r)
		}
	}()

	if err := s.store.SaveBestScore(score); err != nil {
		s.storeFailed = true
		s.logger.Warn("cannot save best score; keeping scores in memory", "score", score, "err", err)
	}
}
