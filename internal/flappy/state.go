package flappy

import "fmt"

// State is the phase of the current round.
type State int

const (
	StateIdle      State = iota // Waiting for the first activate
	StateCountdown              // Optional delay before play starts
	StatePlaying                // Physics, gates and collisions run
	StateGameOver               // Round ended by a collision
)

// String returns a human-readable name for the state.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateCountdown:
		return "countdown"
	case StatePlaying:
		return "playing"
	case StateGameOver:
		return "game_over"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// MarshalText encodes the state by name, for snapshot consumers.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Trigger is an input to the state machine.
type Trigger int

const (
	TriggerActivate     Trigger = iota // The single user-intent signal
	TriggerTimerExpired                // Countdown reached zero
	TriggerCollision                   // Collision detector reported a hit
	TriggerReset                       // Forced return to idle
)

// Effect is the side action the facade performs after a transition.
type Effect int

const (
	EffectNone           Effect = iota
	EffectStartCountdown        // Arm the countdown timer
	EffectStartPlaying          // Begin simulating
	EffectFlap                  // Apply an impulse
	EffectEndRound              // Signal hit, settle the best score
	EffectResetRound            // Re-initialize entity, gates and round state
)

// Transition is the whole state machine as a pure function of
// (state, trigger). Pairs without a rule leave the state unchanged and have
// no effect, so every input is safe in every state.
//
// Activate is overloaded: it starts a round from idle, flaps while playing
// and clears the board after game over.
func Transition(s State, t Trigger, countdown bool) (State, Effect) {
	if t == TriggerReset {
		return StateIdle, EffectResetRound
	}

	switch s {
	case StateIdle:
		if t == TriggerActivate {
			if countdown {
				return StateCountdown, EffectStartCountdown
			}
			return StatePlaying, EffectStartPlaying
		}
	case StateCountdown:
		if t == TriggerTimerExpired {
			return StatePlaying, EffectStartPlaying
		}
	case StatePlaying:
		switch t {
		case TriggerActivate:
			return StatePlaying, EffectFlap
		case TriggerCollision:
			return StateGameOver, EffectEndRound
		}
	case StateGameOver:
		if t == TriggerActivate {
			return StateIdle, EffectResetRound
		}
	}
	return s, EffectNone
}
