package core

// Color represents a semantic foreground color for a screen cell.
// The platform maps each value to a concrete terminal color per theme.
type Color uint8

// Semantic colors for game elements.
const (
	ColorDefault Color = iota
	ColorSky
	ColorGate
	ColorGateCap
	ColorPlayer
	ColorGround
	ColorText
	ColorAccent
	ColorDanger
	ColorMuted
)
