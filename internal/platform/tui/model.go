package tui

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-flappy/internal/core"
	"github.com/vovakirdan/tui-flappy/internal/flappy"
)

// statusTTL is how long a transient status (screenshot saved) stays in the HUD.
const statusTTL = 2 * time.Second

// Recorder appends finished rounds to the score history.
type Recorder interface {
	RecordRound(ctx context.Context, id string, score int) error
}

// Sound is the audio collaborator's control surface.
type Sound interface {
	ToggleMute() bool
	Muted() bool
	Active() bool
}

// Publisher receives every rendered snapshot, e.g. for spectators.
type Publisher interface {
	Publish(snap flappy.Snapshot)
	Spectators() int
}

// Options wires the model's optional collaborators. Nil fields disable the
// matching feature.
type Options struct {
	Runtime       core.RuntimeConfig
	Player        string // Shown in the HUD for SSH sessions
	Recorder      Recorder
	History       History
	Sound         Sound
	Publisher     Publisher
	Logger        *log.Logger
	ScreenshotDir string
	Theme         Theme
}

// roundRecordedMsg reports the result of recordRoundCmd.
type roundRecordedMsg struct {
	round string
	err   error
}

// Model is the Bubble Tea model that drives one simulation.
type Model struct {
	sim      *flappy.Sim
	opts     Options
	screen   *core.Screen
	keys     KeyMap
	help     help.Model
	theme    Theme
	width    int
	height   int
	lastTick time.Time
	recorded string // Round already sent to the recorder
	board    *scoreboard
	status   string
	statusAt time.Time
	quitting bool
}

// NewModel creates a model driving sim.
func NewModel(sim *flappy.Sim, opts Options) Model {
	if opts.Runtime.TickRate <= 0 {
		opts.Runtime.TickRate = ReferenceRate
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if opts.Theme.Name == "" {
		opts.Theme = DarkTheme
	}

	w, h := opts.Runtime.ScreenW, opts.Runtime.ScreenH
	return Model{
		sim:    sim,
		opts:   opts,
		screen: core.NewScreen(w, max(h-1, 0)),
		keys:   DefaultKeyMap(),
		help:   help.New(),
		theme:  opts.Theme,
		width:  w,
		height: h,
	}
}

// Init starts the tick loop.
func (m Model) Init() tea.Cmd {
	return tickCmd(m.opts.Runtime.TickRate)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleAction(m.keys.MapKey(msg), msg)

	case tea.MouseMsg:
		if m.board != nil {
			return m, nil
		}
		return m.handleAction(MapMouse(msg), nil)

	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case TickMsg:
		return m.handleTick(time.Time(msg))

	case scoresLoadedMsg:
		if m.board != nil {
			m.board.setRounds(msg.rounds, msg.err)
		}
		if msg.err != nil {
			m.opts.Logger.Warn("cannot load scores", "err", msg.err)
		}
		return m, nil

	case roundRecordedMsg:
		if msg.err != nil {
			m.opts.Logger.Warn("cannot record round", "round", msg.round, "err", msg.err)
		}
		return m, nil
	}

	return m, nil
}

// handleAction applies one user action. msg is the originating key, if any,
// so the scoreboard table can scroll with it.
func (m Model) handleAction(action core.Action, msg tea.Msg) (tea.Model, tea.Cmd) {
	switch action {
	case core.ActionQuit:
		m.quitting = true
		return m, tea.Quit
	case core.ActionScreenshot:
		m.saveScreenshot()
		return m, nil
	}

	if m.board != nil {
		if action == core.ActionBack || action == core.ActionScores {
			m.board = nil
			return m, nil
		}
		if msg == nil {
			return m, nil
		}
		board, cmd := m.board.Update(msg)
		m.board = &board
		return m, cmd
	}

	switch action {
	case core.ActionActivate:
		m.sim.Activate()
	case core.ActionReset:
		m.sim.Reset()
	case core.ActionMute:
		if m.opts.Sound != nil {
			m.opts.Sound.ToggleMute()
		}
	case core.ActionTheme:
		m.theme = m.theme.Next()
	case core.ActionScores:
		return m.openScoreboard()
	}
	return m, nil
}

// openScoreboard shows the high score table. Not available mid-round.
func (m Model) openScoreboard() (tea.Model, tea.Cmd) {
	if m.opts.History == nil || m.sim.Snapshot().State == flappy.StatePlaying {
		return m, nil
	}
	board := newScoreboard(m.opts.Player, m.width, m.height)
	m.board = &board
	return m, loadScoresCmd(m.opts.History)
}

// handleResize processes window resize events. The playfield is rescaled;
// the simulation itself is untouched.
func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width, m.height = msg.Width, msg.Height
	m.screen.Resize(msg.Width, max(msg.Height-1, 0))
	m.help.Width = msg.Width
	if m.board != nil {
		board := m.board.resize(msg.Width, msg.Height)
		m.board = &board
	}
	return m, nil
}

// handleTick advances the simulation by the real time since the last tick.
func (m Model) handleTick(now time.Time) (tea.Model, tea.Cmd) {
	dt := stepSince(m.lastTick, now)
	m.lastTick = now
	m.sim.Tick(dt)

	snap := m.sim.Snapshot()
	if m.opts.Publisher != nil {
		m.opts.Publisher.Publish(snap)
	}

	cmds := []tea.Cmd{tickCmd(m.opts.Runtime.TickRate)}
	if snap.State == flappy.StateGameOver && snap.Round != m.recorded {
		m.recorded = snap.Round
		if snap.Score > 0 && m.opts.Recorder != nil {
			cmds = append(cmds, recordRoundCmd(m.opts.Recorder, snap.Round, snap.Score))
		}
	}

	if m.status != "" && now.Sub(m.statusAt) > statusTTL {
		m.status = ""
	}
	return m, tea.Batch(cmds...)
}

// recordRoundCmd appends a finished round to the history off the UI goroutine.
func recordRoundCmd(r Recorder, round string, score int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), historyWait)
		defer cancel()
		return roundRecordedMsg{round: round, err: r.RecordRound(ctx, round, score)}
	}
}

// hud collects the status shown beside the simulation.
func (m Model) hud() HUD {
	h := HUD{Player: m.opts.Player, Status: m.status}
	if m.opts.Sound != nil {
		h.Muted = m.opts.Sound.Muted()
		h.AudioOff = !m.opts.Sound.Active()
	}
	if m.opts.Publisher != nil {
		h.Spectators = m.opts.Publisher.Spectators()
	}
	return h
}

// saveScreenshot saves the current frame as plain text.
func (m *Model) saveScreenshot() {
	Draw(m.screen, m.sim.Snapshot(), m.hud())

	dir := m.opts.ScreenshotDir
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			m.opts.Logger.Warn("cannot save screenshot", "err", err)
			return
		}
		dir = filepath.Join(home, ".flappy", "screenshots")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		m.opts.Logger.Warn("cannot save screenshot", "err", err)
		return
	}

	filename := fmt.Sprintf("flappy_%s.txt", time.Now().Format("20060102_150405"))
	path := filepath.Join(dir, filename)
	if err := os.WriteFile(path, []byte(m.screen.String()), 0o600); err != nil {
		m.opts.Logger.Warn("cannot save screenshot", "err", err)
		return
	}

	m.opts.Logger.Info("screenshot saved", "path", path)
	m.status = "screenshot saved"
	m.statusAt = time.Now()
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.board != nil {
		return m.board.View() + "\n" + m.helpView()
	}

	Draw(m.screen, m.sim.Snapshot(), m.hud())
	return RenderScreen(m.screen, m.theme) + "\n" + m.helpView()
}

func (m Model) helpView() string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Render(m.help.View(m.keys))
}

// Quitting reports whether the user asked to exit.
func (m Model) Quitting() bool {
	return m.quitting
}

// Run starts the Bubble Tea program for sim and blocks until it exits.
func Run(sim *flappy.Sim, opts Options) error {
	p := tea.NewProgram(
		NewModel(sim, opts),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	_, err := p.Run()
	return err
}
