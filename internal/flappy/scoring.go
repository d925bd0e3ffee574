package flappy

// RoundState is everything that lives exactly one round.
type RoundState struct {
	ID            string  // Unique round identifier
	State         State   // Current phase
	Score         int     // Gates passed this round
	CountdownLeft float64 // Ticks until play starts (Countdown only)
}

// Scoring counts passed gates and keeps the best score. The best score is
// only changed by OnRoundEnd.
type Scoring struct {
	best    int
	emit    func(Event)
	persist func(score int)
}

// OnPass adds exactly one point to the round and signals it.
func (s *Scoring) OnPass(r *RoundState) {
	r.Score++
	s.emit(EventPoint)
}

// OnRoundEnd settles the final score. A new best is kept in memory and
// handed to the persistence collaborator. Returns whether it was a new best.
func (s *Scoring) OnRoundEnd(r *RoundState) bool {
	if r.Score <= s.best {
		return false
	}
	s.best = r.Score
	s.persist(s.best)
	return true
}

// Best returns the best score seen so far.
func (s *Scoring) Best() int {
	return s.best
}
