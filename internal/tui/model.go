package tui

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"retroconv/internal/batch"
)

// Update is one progress event. TotalDelta grows the expected item count;
// Item, when set, is a finished item.
type Update struct {
	TotalDelta int
	Item       *batch.Item
}

type Model struct {
	title    string
	updates  <-chan Update
	started  time.Time
	width    int
	total    int
	done     int
	ok       int
	skipped  int
	failed   int
	bytes    int64
	quitting bool
}

type doneMsg struct{}

type updateMsg Update

func NewModel(title string, updates <-chan Update) Model {
	return Model{title: title, updates: updates, started: time.Now()}
}

func (m Model) Init() tea.Cmd {
	return listenForUpdates(m.updates)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case updateMsg:
		m.total += msg.TotalDelta
		if msg.Item == nil {
			return m, listenForUpdates(m.updates)
		}
		item := *msg.Item
		m.done++
		switch item.Outcome {
		case batch.OutcomeOK:
			m.ok++
			m.bytes += item.Bytes
		case batch.OutcomeSkipped:
			m.skipped++
		default:
			m.failed++
		}
		return m, tea.Sequence(tea.Println(ItemLine(item, true)), listenForUpdates(m.updates))
	case doneMsg:
		m.quitting = true
		return m, tea.Quit
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
		ratio = math.Min(1, float64(m.done)/float64(m.total))
	}

	elapsed := time.Since(m.started).Round(time.Second)

	lines := []string{
		titleStyle.Render(m.title),
		labelStyle.Render(fmt.Sprintf("Files: %d/%d", m.done, m.total)) +
			dimStyle.Render(fmt.Sprintf("  ok:%d skip:%d errors:%d", m.ok, m.skipped, m.failed)),
		labelStyle.Render("Written: " + humanize.Bytes(uint64(m.bytes))),
		dimStyle.Render(fmt.Sprintf("Elapsed: %s", elapsed)),
		barStyle.Render(renderBar(barWidth, ratio)),
	}

	return strings.Join(lines, "\n")
}

func listenForUpdates(updates <-chan Update) tea.Cmd {
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
	barStyle   = lipgloss.NewStyle().Foreground(ColorAccentAlt)
	dimStyle   = lipgloss.NewStyle().Foreground(ColorDim)
)
