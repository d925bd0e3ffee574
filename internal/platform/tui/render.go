package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-flappy/internal/core"
	"github.com/vovakirdan/tui-flappy/internal/flappy"
)

// Visual characters for rendering
const (
	PlayerChar    = '●'
	PlayerBeak    = '▶'
	GateChar      = '█'
	GateCapTop    = '▄'
	GateCapBottom = '▀'
	GroundChar    = '═'
)

// Theme maps semantic colors to terminal styles.
type Theme struct {
	Name   string
	styles map[core.Color]lipgloss.Style
}

func fg(c string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(c))
}

// DarkTheme is the default theme for dark terminals.
var DarkTheme = Theme{
	Name: "dark",
	styles: map[core.Color]lipgloss.Style{
		core.ColorDefault: lipgloss.NewStyle(),
		core.ColorSky:     fg("238"),
		core.ColorGate:    fg("2"),
		core.ColorGateCap: fg("10"),
		core.ColorPlayer:  fg("11"),
		core.ColorGround:  fg("208"),
		core.ColorText:    fg("15"),
		core.ColorAccent:  fg("14"),
		core.ColorDanger:  fg("9"),
		core.ColorMuted:   fg("245"),
	},
}

// LightTheme is for light terminal backgrounds.
var LightTheme = Theme{
	Name: "light",
	styles: map[core.Color]lipgloss.Style{
		core.ColorDefault: lipgloss.NewStyle(),
		core.ColorSky:     fg("252"),
		core.ColorGate:    fg("28"),
		core.ColorGateCap: fg("22"),
		core.ColorPlayer:  fg("166"),
		core.ColorGround:  fg("94"),
		core.ColorText:    fg("0"),
		core.ColorAccent:  fg("25"),
		core.ColorDanger:  fg("160"),
		core.ColorMuted:   fg("242"),
	},
}

// Next returns the other theme.
func (t Theme) Next() Theme {
	if t.Name == DarkTheme.Name {
		return LightTheme
	}
	return DarkTheme
}

// Style returns the style for c, falling back to the default style.
func (t Theme) Style(c core.Color) lipgloss.Style {
	if s, ok := t.styles[c]; ok {
		return s
	}
	return t.styles[core.ColorDefault]
}

// RenderScreen converts a Screen buffer to a styled string for display.
// Groups adjacent cells with the same color to minimize ANSI escape sequences.
func RenderScreen(s *core.Screen, theme Theme) string {
	var sb strings.Builder
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	for y := 0; y < s.Height(); y++ {
		if y > 0 {
			sb.WriteRune('\n')
		}

		x := 0
		for x < s.Width() {
			startColor := s.GetCell(x, y).Color

			var run strings.Builder
			for x < s.Width() {
				cell := s.GetCell(x, y)
				if cell.Color != startColor {
					break
				}
				run.WriteRune(cell.Rune)
				x++
			}
			sb.WriteString(theme.Style(startColor).Render(run.String()))
		}
	}
	return sb.String()
}

// HUD is the status the renderer shows beside the simulation.
type HUD struct {
	Status     string // Transient message
	Muted      bool
	AudioOff   bool // No audio device
	Spectators int
	Player     string
}

// viewport maps playfield units to screen cells. Row 0 is the HUD and the
// last row is the ground, so the playfield spans the rows in between.
type viewport struct {
	top    int
	width  int
	height int
	sx, sy float64
}

func newViewport(dst *core.Screen, snap flappy.Snapshot) viewport {
	v := viewport{top: 1, width: dst.Width(), height: dst.Height() - 2}
	if v.height < 1 {
		v.height = 1
	}
	if snap.PlayfieldW > 0 {
		v.sx = float64(v.width) / snap.PlayfieldW
	}
	if snap.PlayfieldH > 0 {
		v.sy = float64(v.height) / snap.PlayfieldH
	}
	return v
}

// col maps a playfield x to a screen column.
func (v viewport) col(x float64) int {
	return int(math.Floor(x * v.sx))
}

// row maps a playfield y to a screen row.
func (v viewport) row(y float64) int {
	return v.top + int(math.Floor(y*v.sy))
}

// Draw renders a snapshot into dst.
func Draw(dst *core.Screen, snap flappy.Snapshot, hud HUD) {
	dst.Clear()
	if dst.Width() == 0 || dst.Height() < 3 {
		return
	}
	v := newViewport(dst, snap)

	groundY := dst.Height() - 1
	dst.DrawHLine(0, groundY, dst.Width(), GroundChar, core.ColorGround)

	for _, g := range snap.Gates {
		drawGate(dst, v, g)
	}
	drawEntity(dst, v, snap.Entity)
	drawHUD(dst, snap, hud)

	switch snap.State {
	case flappy.StateIdle:
		drawPanel(dst, "FLAPPY", "Press SPACE to start", core.ColorAccent)
	case flappy.StateCountdown:
		secs := int(math.Ceil(snap.CountdownLeft / ReferenceRate))
		drawPanel(dst, "GET READY", fmt.Sprintf("%d", secs), core.ColorAccent)
	case flappy.StateGameOver:
		drawPanel(dst, "GAME OVER",
			fmt.Sprintf("Score: %d  Best: %d  |  SPACE to continue, S for scores", snap.Score, snap.BestScore),
			core.ColorDanger)
	}
}

// drawGate renders one gate's two barriers and their caps.
func drawGate(dst *core.Screen, v viewport, g flappy.Gate) {
	x0 := v.col(g.X)
	x1 := v.col(g.Right())
	if x1 <= x0 {
		x1 = x0 + 1
	}
	gapTop := v.row(g.GapTop)
	gapBottom := v.row(g.GapBottom())
	floor := v.top + v.height

	for x := x0; x < x1; x++ {
		for y := v.top; y < gapTop; y++ {
			dst.SetColor(x, y, GateChar, core.ColorGate)
		}
		if gapTop-1 >= v.top {
			dst.SetColor(x, gapTop-1, GateCapTop, core.ColorGateCap)
		}
		for y := gapBottom; y < floor; y++ {
			dst.SetColor(x, y, GateChar, core.ColorGate)
		}
		if gapBottom < floor {
			dst.SetColor(x, gapBottom, GateCapBottom, core.ColorGateCap)
		}
	}
}

// drawEntity renders the player as at least one cell, beak on the right.
func drawEntity(dst *core.Screen, v viewport, e flappy.EntityView) {
	x0, y0 := v.col(e.X), v.row(e.Y)
	w := core.Max(1, v.col(e.X+e.Width)-x0)
	h := core.Max(1, v.row(e.Y+e.Height)-y0)

	for dy := 0; dy < h; dy++ {
		for dx := 0; dx < w; dx++ {
			r := PlayerChar
			if dx == w-1 && dy == 0 && w > 1 {
				r = PlayerBeak
			}
			dst.SetColor(x0+dx, y0+dy, r, core.ColorPlayer)
		}
	}
}

// drawHUD renders the top status line.
func drawHUD(dst *core.Screen, snap flappy.Snapshot, hud HUD) {
	dst.DrawHLine(0, 0, dst.Width(), ' ', core.ColorText)
	dst.DrawText(1, 0, fmt.Sprintf("Score: %d  Best: %d", snap.Score, snap.BestScore), core.ColorText)

	var flags []string
	if hud.Status != "" {
		flags = append(flags, hud.Status)
	}
	switch {
	case hud.AudioOff:
		flags = append(flags, "no audio")
	case hud.Muted:
		flags = append(flags, "muted")
	}
	if snap.PersistenceOff {
		flags = append(flags, "scores not saved")
	}
	if hud.Spectators > 0 {
		flags = append(flags, fmt.Sprintf("%d watching", hud.Spectators))
	}
	if hud.Player != "" {
		flags = append(flags, hud.Player)
	}
	if len(flags) == 0 {
		return
	}
	text := strings.Join(flags, " | ")
	dst.DrawText(dst.Width()-len([]rune(text))-1, 0, text, core.ColorMuted)
}

// drawPanel draws a message box in the center of the screen.
func drawPanel(dst *core.Screen, title, subtitle string, c core.Color) {
	w, h := dst.Width(), dst.Height()
	titleLen, subLen := len([]rune(title)), len([]rune(subtitle))

	boxW := core.Max(titleLen, subLen) + 4
	boxH := 5
	boxX := (w - boxW) / 2
	boxY := (h - boxH) / 2

	dst.DrawRect(core.NewRect(boxX, boxY, boxW, boxH), ' ', core.ColorText)
	dst.DrawBox(core.NewRect(boxX, boxY, boxW, boxH), c)

	dst.DrawText(boxX+(boxW-titleLen)/2, boxY+1, title, c)
	dst.DrawText(boxX+(boxW-subLen)/2, boxY+3, subtitle, core.ColorText)
}
