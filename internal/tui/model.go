package tui

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/moontasirabtahee/image-resizer-tool/internal/processor"
)

type Model struct {
	updates   <-chan processor.ProgressUpdate
	stop      func()
	started   time.Time
	width     int
	total     int
	completed int
	current   string
	stopping  bool
	quitting  bool
}

type doneMsg struct{}

type updateMsg processor.ProgressUpdate

// NewModel renders updates until the channel is closed. total may be 0 when
// the number of valid files is not known yet; the first update sets it. stop
// is called when the user presses q, esc or ctrl+c.
func NewModel(total int, updates <-chan processor.ProgressUpdate, stop func()) Model {
	return Model{updates: updates, stop: stop, total: total, started: time.Now()}
}

func (m Model) Init() tea.Cmd {
	return listenForUpdates(m.updates)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case updateMsg:
		m.completed = msg.Completed
		m.total = msg.Total
		m.current = msg.Name
		return m, listenForUpdates(m.updates)
	case doneMsg:
		m.quitting = true
		return m, tea.Quit
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			if !m.stopping && m.stop != nil {
				m.stop()
			}
			m.stopping = true
		}
		return m, nil
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil
	default:
		return m, nil
	}
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	barWidth := 40
	if m.width > 0 {
		barWidth = int(math.Min(60, float64(m.width-10)))
		if barWidth < 20 {
			barWidth = 20
		}
	}

	ratio := 0.0
	if m.total > 0 {
		ratio = float64(m.completed) / float64(m.total)
		if ratio > 1 {
			ratio = 1
		}
	}

	bar := renderBar(barWidth, ratio)
	elapsed := time.Since(m.started).Round(time.Millisecond)

	status := dimStyle.Render("q to stop")
	if m.stopping {
		status = warnStyle.Render("stopping after the current step...")
	}

	files := labelStyle.Render(fmt.Sprintf("Files: %d/%d", m.completed, m.total)) + dimStyle.Render(fmt.Sprintf("  %3.0f%%", ratio*100))
	if m.total == 0 {
		files = labelStyle.Render("Files: ") + dimStyle.Render("validating...")
	}

	lines := []string{
		titleStyle.Render("resizer"),
		files,
		labelStyle.Render("Last: ") + dimStyle.Render(m.current),
		dimStyle.Render(fmt.Sprintf("Elapsed: %s", elapsed)),
		barStyle.Render(bar),
		status,
	}

	return strings.Join(lines, "\n")
}

func listenForUpdates(updates <-chan processor.ProgressUpdate) tea.Cmd {
	return func() tea.Msg {
		update, ok := <-updates
		if !ok {
			return doneMsg{}
		}
		return updateMsg(update)
	}
}

func renderBar(width int, ratio float64) string {
	filled := int(math.Round(ratio * float64(width)))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	return "[" + strings.Repeat("=", filled) + strings.Repeat(" ", width-filled) + "]"
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorAccent)
	labelStyle = lipgloss.NewStyle().Foreground(ColorInk)
	barStyle   = lipgloss.NewStyle().Foreground(ColorSuccess)
	dimStyle   = lipgloss.NewStyle().Foreground(ColorDim)
	warnStyle  = lipgloss.NewStyle().Foreground(ColorWarn)
)
