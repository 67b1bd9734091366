package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"dashlint/internal/driver"
)

// maxListed bounds the per-file list; larger runs show only the bar and
// counters.
const maxListed = 20

const statusColumn = 12

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	statusStyles = map[driver.Status]lipgloss.Style{
		driver.StatusWorking: lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
		driver.StatusDone:    lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		driver.StatusCached:  lipgloss.NewStyle().Foreground(lipgloss.Color("4")),
		driver.StatusError:   lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
	}
	queuedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
)

// fileRow is one line of the per-file list.
type fileRow struct {
	path   string
	status driver.Status
	diags  int
}

func (r fileRow) settled() bool {
	switch r.status {
	case driver.StatusDone, driver.StatusCached, driver.StatusError:
		return true
	}
	return false
}

type progressModel struct {
	title  string
	events <-chan driver.Event
	spin   spinner.Model
	bar    progress.Model
	rows   []fileRow
	byPath map[string]int
	width  int
	done   bool

	finished int
	problems int
}

type eventMsg driver.Event
type doneMsg struct{}

// NewProgressModel returns a Bubble Tea model that renders check progress
// until events is closed.
func NewProgressModel(title string, files []string, events <-chan driver.Event) tea.Model {
	m := &progressModel{
		title:  title,
		events: events,
		spin:   spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(statusStyles[driver.StatusWorking])),
		bar:    progress.New(progress.WithDefaultGradient(), progress.WithWidth(76)),
		rows:   make([]fileRow, len(files)),
		byPath: make(map[string]int, len(files)),
		width:  80,
	}
	for i, path := range files {
		m.rows[i] = fileRow{path: path, status: driver.StatusQueued}
		m.byPath[path] = i
	}
	return m
}

func (m *progressModel) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, m.listenForEvent())
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case eventMsg:
		cmd = tea.Batch(m.record(driver.Event(msg)), m.listenForEvent())
	case doneMsg:
		m.done = true
		cmd = tea.Quit
	case spinner.TickMsg:
		if !m.done {
			m.spin, cmd = m.spin.Update(msg)
		}
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
			m.bar.Width = msg.Width - 4
		}
	case progress.FrameMsg:
		var next tea.Model
		next, cmd = m.bar.Update(msg)
		m.bar = next.(progress.Model)
	}
	return m, cmd
}

func (m *progressModel) View() string {
	if len(m.rows) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(headerStyle.Render(m.header()))
	b.WriteString("\n\n")
	if len(m.rows) <= maxListed {
		m.writeRows(&b)
		b.WriteString("\n")
	}
	if m.done {
		b.WriteString(m.bar.ViewAs(1))
	} else {
		b.WriteString(m.bar.View())
	}
	b.WriteString("\n")
	return b.String()
}

func (m *progressModel) header() string {
	counts := fmt.Sprintf("%s %d/%d files, %d problems", m.title, m.finished, len(m.rows), m.problems)
	if m.done {
		return "done: " + counts
	}
	return m.spin.View() + " " + counts
}

func (m *progressModel) writeRows(b *strings.Builder) {
	nameWidth := max(m.width-statusColumn-4, 20)
	for _, row := range m.rows {
		style, ok := statusStyles[row.status]
		if !ok {
			style = queuedStyle
		}
		status := style.Render(fmt.Sprintf("%*s", statusColumn, row.status))
		fmt.Fprintf(b, "  %s %s", status, truncate(row.path, nameWidth))
		if row.diags > 0 {
			fmt.Fprintf(b, " (%d)", row.diags)
		}
		b.WriteByte('\n')
	}
}

func (m *progressModel) listenForEvent() tea.Cmd {
	return func() tea.Msg {
		if ev, ok := <-m.events; ok {
			return eventMsg(ev)
		}
		return doneMsg{}
	}
}

// record applies one status change. A file is counted once, the first time
// it settles, however many events repeat that state.
func (m *progressModel) record(ev driver.Event) tea.Cmd {
	i, ok := m.byPath[ev.File]
	if !ok {
		return nil
	}
	row := &m.rows[i]
	already := row.settled()
	row.status, row.diags = ev.Status, ev.Diagnostics
	if row.settled() && !already {
		m.finished++
		m.problems += ev.Diagnostics
	}
	return m.bar.SetPercent(float64(m.finished) / float64(len(m.rows)))
}

// truncate shortens value to at most width display cells, the "..." tail
// included, when there is room for one.
func truncate(value string, width int) string {
	switch {
	case width <= 0, runewidth.StringWidth(value) <= width:
		return value
	case width <= 3:
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width, "...")
}
