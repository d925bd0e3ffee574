package core

// Action represents a semantic user intent, abstracted from physical keys,
// mouse clicks or taps.
type Action int

const (
	ActionNone     Action = iota
	ActionActivate        // Space, Up, W, Enter, click - start / flap / restart
	ActionReset           // R - force the round back to idle
	ActionMute            // M - toggle sound
	ActionTheme           // T - toggle light/dark theme
	ActionScores          // S - open the scoreboard
	ActionBack            // B, Esc - leave the scoreboard
	ActionScreenshot      // Ctrl+S - save the current frame
	ActionQuit            // Q, Ctrl+C - exit
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionActivate:
		return "Activate"
	case ActionReset:
		return "Reset"
	case ActionMute:
		return "Mute"
	case ActionTheme:
		return "Theme"
	case ActionScores:
		return "Scores"
	case ActionBack:
		return "Back"
	case ActionScreenshot:
		return "Screenshot"
	case ActionQuit:
		return "Quit"
	default:
		return "Unknown"
	}
}
