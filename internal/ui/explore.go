// Package ui renders the interactive universe explorer.
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// ClassRow is one explorer line: a class and its propagated argument tuple,
// or the error propagation produced for it.
type ClassRow struct {
	Qualified string
	Args      string
	Err       string
	Detail    string
}

type rowMsg ClassRow
type loadedMsg struct{}

type explorerModel struct {
	title      string
	results    <-chan ClassRow
	spinner    spinner.Model
	prog       progress.Model
	rows       []ClassRow
	total      int
	cursor     int
	width      int
	height     int
	loading    bool
	showDetail bool
}

// NewExplorer returns a Bubble Tea model that lists classes as their
// propagation results arrive on results. total sizes the load progress bar.
func NewExplorer(title string, total int, results <-chan ClassRow) tea.Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 76

	return &explorerModel{
		title:   title,
		results: results,
		spinner: sp,
		prog:    prog,
		total:   total,
		width:   80,
		height:  24,
		loading: true,
	}
}

func (m *explorerModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.listenForRow())
}

func (m *explorerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case rowMsg:
		m.rows = append(m.rows, ClassRow(msg))
		var cmd tea.Cmd
		if m.total > 0 {
			cmd = m.prog.SetPercent(float64(len(m.rows)) / float64(m.total))
		}
		return m, tea.Batch(cmd, m.listenForRow())
	case loadedMsg:
		m.loading = false
		return m, nil
	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case progress.FrameMsg:
		progModel, cmd := m.prog.Update(msg)
		m.prog = progModel.(progress.Model)
		return m, cmd
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
			m.prog.Width = msg.Width - 4
		}
		if msg.Height > 0 {
			m.height = msg.Height
		}
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *explorerModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.rows)-1 {
			m.cursor++
		}
	case "enter", " ":
		m.showDetail = !m.showDetail
	}
	return m, nil
}

func (m *explorerModel) View() string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	header := m.title
	if m.loading {
		header = fmt.Sprintf("%s %s", m.spinner.View(), header)
	} else {
		header = fmt.Sprintf("%s (%d classes)", header, len(m.rows))
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(header))
	b.WriteString("\n\n")

	argsWidth := 32
	nameWidth := m.width - argsWidth - 6
	if nameWidth < 20 {
		nameWidth = 20
	}

	selStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
	errStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	okStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("2"))

	visible := m.height - 8
	if visible < 3 {
		visible = 3
	}
	start := 0
	if m.cursor >= visible {
		start = m.cursor - visible + 1
	}
	for i := start; i < len(m.rows) && i < start+visible; i++ {
		row := m.rows[i]
		marker := "  "
		if i == m.cursor {
			marker = "> "
		}
		name := truncate(row.Qualified, nameWidth)
		var tail string
		if row.Err != "" {
			tail = errStyle.Render(truncate(row.Err, argsWidth))
		} else {
			tail = okStyle.Render(truncate(row.Args, argsWidth))
		}
		line := fmt.Sprintf("%s%-*s %s", marker, nameWidth, name, tail)
		if i == m.cursor {
			line = selStyle.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	if m.showDetail && m.cursor < len(m.rows) {
		b.WriteString("\n")
		detailStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
		b.WriteString(detailStyle.Render(m.rows[m.cursor].Detail))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.loading {
		b.WriteString(m.prog.View())
	} else {
		b.WriteString(m.prog.ViewAs(1.0))
	}
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Faint(true).Render("up/down move, enter toggles detail, q quits"))
	b.WriteString("\n")
	return b.String()
}

func (m *explorerModel) listenForRow() tea.Cmd {
	return func() tea.Msg {
		row, ok := <-m.results
		if !ok {
			return loadedMsg{}
		}
		return rowMsg(row)
	}
}

func truncate(value string, width int) string {
	if width <= 0 {
		return value
	}
	if runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width-3, "...")
}
