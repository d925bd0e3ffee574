package config

import (
	_ "embed"
)

//go:embed defaults/flappy.yaml
var defaultFlappyYAML []byte

// DefaultFlappyConfig returns the default configuration.
// It mirrors defaults/flappy.yaml and is used when the embedded file cannot
// be parsed.
func DefaultFlappyConfig() FlappyConfig {
	return FlappyConfig{
		Playfield: Playfield{
			Width:  400,
			Height: 600,
		},
		Physics: Physics{
			Gravity: 0.5,
			Impulse: -8,
			Speed:   2,
		},
		Gates: Gates{
			Width:        60,
			GapSize:      150,
			MinSpacing:   180, // 1.5s between gates at 60 ticks/s
			TopMargin:    50,
			BottomMargin: 50,
		},
		Player: Player{
			X:      50,
			Width:  34,
			Height: 24,
		},
		Round: Round{
			CountdownTicks: 0,
		},
	}
}

// DefaultYAML returns the embedded default YAML.
func DefaultYAML() []byte {
	return defaultFlappyYAML
}
