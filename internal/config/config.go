// Package config provides YAML-based game configuration loading, difficulty
// presets and validation for the flappy simulation.
//
// All distances are abstract playfield units and all rates are per reference
// tick (one sixtieth of a second); the renderer owns the mapping to cells.
package config

// FlappyConfig contains all configuration for the game.
type FlappyConfig struct {
	Playfield Playfield `yaml:"playfield"`
	Physics   Physics   `yaml:"physics"`
	Gates     Gates     `yaml:"gates"`
	Player    Player    `yaml:"player"`
	Round     Round     `yaml:"round"`
}

// Playfield defines the size of the simulated area.
type Playfield struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// Physics defines the motion constants.
type Physics struct {
	Gravity float64 `yaml:"gravity"` // Downward acceleration per tick²
	Impulse float64 `yaml:"impulse"` // Velocity set by a flap (negative = up)
	Speed   float64 `yaml:"speed"`   // Gate speed per tick
}

// Gates defines obstacle geometry and spawning.
type Gates struct {
	Width        float64 `yaml:"width"`
	GapSize      float64 `yaml:"gap_size"`
	MinSpacing   float64 `yaml:"min_spacing"` // Minimum x distance between consecutive gates
	TopMargin    float64 `yaml:"top_margin"`
	BottomMargin float64 `yaml:"bottom_margin"`
}

// Player defines the controlled entity's hitbox.
type Player struct {
	X      float64 `yaml:"x"`
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// Round defines per-round behavior.
type Round struct {
	CountdownTicks float64 `yaml:"countdown_ticks"` // 0 disables the countdown
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
)

// ParsePreset converts a CLI string to a preset. Unknown or empty strings
// yield the empty preset, which leaves the config untouched.
func ParsePreset(s string) DifficultyPreset {
	switch DifficultyPreset(s) {
	case DifficultyEasy, DifficultyNormal, DifficultyHard:
		return DifficultyPreset(s)
	default:
		return ""
	}
}

// ApplyPreset modifies the config based on a difficulty preset.
// Normal and the empty preset keep the configured values.
func ApplyPreset(cfg *FlappyConfig, preset DifficultyPreset) {
	switch preset {
	case DifficultyEasy:
		cfg.Gates.GapSize *= 1.2
		cfg.Physics.Speed *= 0.8
		cfg.Gates.MinSpacing *= 1.15
	case DifficultyHard:
		cfg.Gates.GapSize *= 0.8
		cfg.Physics.Speed *= 1.25
		cfg.Gates.MinSpacing *= 0.85
	}
}
