// Package tui provides the Bubble Tea integration for the game.
// It drives the simulation clock, maps input to actions and renders
// snapshots to the terminal.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// ReferenceRate is the tick rate the simulation's constants are tuned for.
// One simulation tick of dt=1 is one sixtieth of a second.
const ReferenceRate = 60

// maxStep caps dt after a stall (suspended terminal, slow SSH link) so the
// entity cannot tunnel through a gate in one step.
const maxStep = 3.0

// TickMsg is sent to trigger a game simulation tick.
type TickMsg time.Time

// tickCmd returns a Bubble Tea command that sends tick messages at the specified rate.
func tickCmd(tickRate int) tea.Cmd {
	if tickRate <= 0 {
		tickRate = ReferenceRate
	}
	interval := time.Second / time.Duration(tickRate)
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// stepSince converts the real time between two ticks into simulation ticks.
// The first tick (zero prev) counts as one reference tick.
func stepSince(prev, now time.Time) float64 {
	if prev.IsZero() {
		return 1
	}
	dt := now.Sub(prev).Seconds() * ReferenceRate
	switch {
	case dt < 0:
		return 0
	case dt > maxStep:
		return maxStep
	}
	return dt
}
