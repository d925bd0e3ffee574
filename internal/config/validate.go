package config

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"
)

// ErrInvalid is returned (wrapped) by Validate for any unusable constant.
var ErrInvalid = errors.New("config: invalid configuration")

// Validate checks that the constants describe a playable game.
// All problems are reported at once.
func (c FlappyConfig) Validate() error {
	var problems []string
	check := func(ok bool, format string, args ...any) {
		if !ok {
			problems = append(problems, fmt.Sprintf(format, args...))
		}
	}

	for name, v := range map[string]float64{
		"playfield.width":       c.Playfield.Width,
		"playfield.height":      c.Playfield.Height,
		"physics.gravity":       c.Physics.Gravity,
		"physics.impulse":       c.Physics.Impulse,
		"physics.speed":         c.Physics.Speed,
		"gates.width":           c.Gates.Width,
		"gates.gap_size":        c.Gates.GapSize,
		"gates.min_spacing":     c.Gates.MinSpacing,
		"gates.top_margin":      c.Gates.TopMargin,
		"gates.bottom_margin":   c.Gates.BottomMargin,
		"player.x":              c.Player.X,
		"player.width":          c.Player.Width,
		"player.height":         c.Player.Height,
		"round.countdown_ticks": c.Round.CountdownTicks,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			problems = append(problems, name+" must be a finite number")
		}
	}
	if len(problems) > 0 {
		slices.Sort(problems) // map order is random
		return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(problems, "; "))
	}

	pf, ph, g, p := c.Playfield, c.Physics, c.Gates, c.Player

	check(pf.Width > 0, "playfield.width must be positive, got %g", pf.Width)
	check(pf.Height > 0, "playfield.height must be positive, got %g", pf.Height)

	check(ph.Gravity > 0, "physics.gravity must be positive, got %g", ph.Gravity)
	check(ph.Impulse < 0, "physics.impulse must be negative (upward), got %g", ph.Impulse)
	check(ph.Speed > 0, "physics.speed must be positive, got %g", ph.Speed)

	check(g.Width > 0, "gates.width must be positive, got %g", g.Width)
	check(g.GapSize > 0, "gates.gap_size must be positive, got %g", g.GapSize)
	check(g.TopMargin >= 0, "gates.top_margin must not be negative, got %g", g.TopMargin)
	check(g.BottomMargin >= 0, "gates.bottom_margin must not be negative, got %g", g.BottomMargin)
	check(g.GapSize < pf.Height, "gates.gap_size (%g) must be smaller than playfield.height (%g)", g.GapSize, pf.Height)
	check(g.TopMargin+g.GapSize+g.BottomMargin <= pf.Height,
		"gap plus margins (%g) must fit in playfield.height (%g)", g.TopMargin+g.GapSize+g.BottomMargin, pf.Height)
	check(g.MinSpacing >= g.Width, "gates.min_spacing (%g) must be at least gates.width (%g)", g.MinSpacing, g.Width)
	check(g.MinSpacing < pf.Width, "gates.min_spacing (%g) must be smaller than playfield.width (%g)", g.MinSpacing, pf.Width)

	check(p.Width > 0, "player.width must be positive, got %g", p.Width)
	check(p.Height > 0, "player.height must be positive, got %g", p.Height)
	check(p.X >= 0 && p.X+p.Width <= pf.Width, "player must fit horizontally in the playfield")
	check(p.Height < g.GapSize, "player.height (%g) must be smaller than gates.gap_size (%g)", p.Height, g.GapSize)

	check(c.Round.CountdownTicks >= 0, "round.countdown_ticks must not be negative, got %g", c.Round.CountdownTicks)

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(problems, "; "))
	}
	return nil
}
