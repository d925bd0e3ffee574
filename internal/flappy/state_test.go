package flappy

import "testing"

func TestTransition(t *testing.T) {
	tests := []struct {
		name      string
		from      State
		trigger   Trigger
		countdown bool
		to        State
		effect    Effect
	}{
		{"idle activate starts play", StateIdle, TriggerActivate, false, StatePlaying, EffectStartPlaying},
		{"idle activate arms countdown", StateIdle, TriggerActivate, true, StateCountdown, EffectStartCountdown},
		{"idle ignores collision", StateIdle, TriggerCollision, false, StateIdle, EffectNone},
		{"idle ignores timer", StateIdle, TriggerTimerExpired, false, StateIdle, EffectNone},
		{"countdown expires", StateCountdown, TriggerTimerExpired, true, StatePlaying, EffectStartPlaying},
		{"countdown ignores activate", StateCountdown, TriggerActivate, true, StateCountdown, EffectNone},
		{"playing activate flaps", StatePlaying, TriggerActivate, false, StatePlaying, EffectFlap},
		{"playing collision ends", StatePlaying, TriggerCollision, false, StateGameOver, EffectEndRound},
		{"playing ignores timer", StatePlaying, TriggerTimerExpired, false, StatePlaying, EffectNone},
		{"game over activate clears", StateGameOver, TriggerActivate, false, StateIdle, EffectResetRound},
		{"game over ignores collision", StateGameOver, TriggerCollision, false, StateGameOver, EffectNone},
		{"reset from idle", StateIdle, TriggerReset, false, StateIdle, EffectResetRound},
		{"reset from countdown", StateCountdown, TriggerReset, true, StateIdle, EffectResetRound},
		{"reset from playing", StatePlaying, TriggerReset, false, StateIdle, EffectResetRound},
		{"reset from game over", StateGameOver, TriggerReset, false, StateIdle, EffectResetRound},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			to, effect := Transition(tc.from, tc.trigger, tc.countdown)
			if to != tc.to {
				t.Errorf("state = %s, expected %s", to, tc.to)
			}
			if effect != tc.effect {
				t.Errorf("effect = %d, expected %d", effect, tc.effect)
			}
		})
	}
}

func TestStateString(t *testing.T) {
	if got := StateGameOver.String(); got != "game_over" {
		t.Errorf("StateGameOver.String() = %q", got)
	}
	if got := State(42).String(); got != "state(42)" {
		t.Errorf("State(42).String() = %q", got)
	}
	text, err := StatePlaying.MarshalText()
	if err != nil || string(text) != "playing" {
		t.Errorf("MarshalText() = %q, %v", text, err)
	}
}
