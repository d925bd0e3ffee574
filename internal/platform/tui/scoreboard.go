package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-flappy/internal/storage"
)

// Scoreboard layout constants
const (
	maxScores     = 10 // Rows shown in the scoreboard
	historyWait   = 5 * time.Second
	tableMinWidth = 40
)

// History reads finished rounds for the scoreboard.
type History interface {
	TopRounds(ctx context.Context, player string, limit int) ([]storage.Round, error)
}

// scoresLoadedMsg carries the result of loadScoresCmd.
type scoresLoadedMsg struct {
	rounds []storage.Round
	err    error
}

// loadScoresCmd reads the top rounds of every player off the UI goroutine.
func loadScoresCmd(h History) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), historyWait)
		defer cancel()
		rounds, err := h.TopRounds(ctx, "", maxScores)
		return scoresLoadedMsg{rounds: rounds, err: err}
	}
}

// scoreboard is the in-game high score overlay.
type scoreboard struct {
	table   table.Model
	rounds  []storage.Round
	player  string
	loading bool
	err     error
	width   int
	height  int
}

func newScoreboard(player string, width, height int) scoreboard {
	s := scoreboard{player: player, loading: true, width: width, height: height}
	s.table = s.createTable()
	return s
}

// createTable creates a new table with appropriate columns.
func (s *scoreboard) createTable() table.Model {
	columns := []table.Column{
		{Title: "Rank", Width: 6},
		{Title: "Player", Width: 12},
		{Title: "Score", Width: 8},
		{Title: "Date", Width: 14},
	}

	// Give spare width to the player column
	if spare := s.width - 4 - tableMinWidth; spare > 0 {
		columns[1].Width += min(spare, 12)
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(max(3, min(maxScores+1, s.height-8))),
	)

	st := table.DefaultStyles()
	st.Header = st.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	st.Selected = st.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(st)

	return t
}

// setRounds fills the table.
func (s *scoreboard) setRounds(rounds []storage.Round, err error) {
	s.loading = false
	s.rounds = rounds
	s.err = err
	s.table.SetRows(scoreRows(rounds))
	s.table.GotoTop()
}

// scoreRows formats rounds as table rows.
func scoreRows(rounds []storage.Round) []table.Row {
	rows := make([]table.Row, len(rounds))
	for i, r := range rounds {
		rows[i] = table.Row{
			fmt.Sprintf("#%d", i+1),
			r.Player,
			fmt.Sprintf("%d", r.Score),
			r.CreatedAt.Local().Format("Jan 02 15:04"),
		}
	}
	return rows
}

func (s scoreboard) resize(width, height int) scoreboard {
	s.width, s.height = width, height
	s.table = s.createTable()
	s.table.SetRows(scoreRows(s.rounds))
	return s
}

// Update scrolls the table.
func (s scoreboard) Update(msg tea.Msg) (scoreboard, tea.Cmd) {
	var cmd tea.Cmd
	s.table, cmd = s.table.Update(msg)
	return s, cmd
}

// View renders the scoreboard.
func (s scoreboard) View() string {
	var b strings.Builder

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229")).
		MarginBottom(1)
	b.WriteString(titleStyle.Render(centerText("HIGH SCORES", s.width)))
	b.WriteString("\n\n")

	tableStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)
	b.WriteString(centerText(tableStyle.Render(s.content()), s.width))

	return b.String()
}

// content renders the table or a placeholder.
func (s scoreboard) content() string {
	emptyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241")).
		Italic(true).
		Padding(2, 4)

	switch {
	case s.loading:
		return emptyStyle.Render("Loading...")
	case s.err != nil:
		return emptyStyle.Render("Scores unavailable:\n" + s.err.Error())
	case len(s.rounds) == 0:
		return emptyStyle.Render("No scores recorded yet.\nPlay a round to set a high score!")
	}
	return s.table.View()
}

// FormatScores renders rounds and stats as a static table for the CLI.
func FormatScores(rounds []storage.Round, stats storage.Stats) string {
	header := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	muted := lipgloss.NewStyle().Foreground(lipgloss.Color("245"))

	var b strings.Builder
	b.WriteString(header.Render("HIGH SCORES"))
	b.WriteString("\n\n")

	if len(rounds) == 0 {
		b.WriteString(muted.Render("No scores recorded yet."))
		b.WriteString("\n")
		return b.String()
	}

	fmt.Fprintf(&b, "%-6s %-16s %6s  %s\n", "Rank", "Player", "Score", "Date")
	for i, r := range rounds {
		fmt.Fprintf(&b, "%-6s %-16s %6d  %s\n",
			fmt.Sprintf("#%d", i+1), r.Player, r.Score, r.CreatedAt.Local().Format("2006-01-02 15:04"))
	}

	b.WriteString("\n")
	b.WriteString(muted.Render(fmt.Sprintf("%d rounds, best %d, average %.1f", stats.Rounds, stats.Best, stats.Average)))
	if !stats.LastPlayed.IsZero() {
		b.WriteString(muted.Render(", last played " + stats.LastPlayed.Local().Format("2006-01-02 15:04")))
	}
	b.WriteString("\n")
	return b.String()
}

// centerText centers text horizontally within the given width.
func centerText(text string, width int) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		pad := (width - lipgloss.Width(line)) / 2
		if pad > 0 {
			lines[i] = strings.Repeat(" ", pad) + line
		}
	}
	return strings.Join(lines, "\n")
}
