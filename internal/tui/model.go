// Package tui is a terminal front end for the results form. The model draws the
// same regions as the HTML page: a URL input, a loading spinner, an error line and
// a results table. The form handler drives it through programUI.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/pfrederiksen/itra-results/internal/form"
	"github.com/pfrederiksen/itra-results/internal/runner"
)

// SubmitFunc starts a submission and reports its outcome as a message
type SubmitFunc func(rawURL string) tea.Cmd

// Model is the bubbletea model for the results form
type Model struct {
	layout runner.Layout
	submit SubmitFunc

	input   textinput.Model
	spinner spinner.Model
	table   table.Model

	loading     bool
	errText     string
	showResults bool
	rowCount    int
	notice      string

	width int
}

// NewModel creates an idle form
func NewModel(layout runner.Layout, submit SubmitFunc) Model {
	ti := textinput.New()
	ti.Placeholder = "https://itra.run/Races/RaceResults/..."
	ti.CharLimit = 2048
	ti.Width = 60
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = spinnerStyle

	t := table.New(
		table.WithColumns(columns(layout, 100)),
		table.WithFocused(false),
		table.WithHeight(6),
		table.WithWidth(100),
	)
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return Model{
		layout:  layout,
		submit:  submit,
		input:   ti,
		spinner: sp,
		table:   t,
	}
}

// columns sizes the layout's columns to fit width
func columns(layout runner.Layout, width int) []table.Column {
	titles := layout.Columns()
	cols := make([]table.Column, len(titles))
	for i, title := range titles {
		w := 10
		switch title {
		case "Name":
			w = 24
		case "Profile":
			w = 40
		case "Nationality", "Category":
			w = 12
		}
		cols[i] = table.Column{Title: title, Width: w}
	}

	total := 0
	for _, c := range cols {
		total += c.Width + 2
	}
	if width > 0 && total > width {
		// the profile link column gives up width first
		last := len(cols) - 1
		if layout.HasLinkColumn() && cols[last].Width > 12 {
			cols[last].Width = max(12, cols[last].Width-(total-width))
		}
	}
	return cols
}

// tableRows converts records to table rows in order
func tableRows(layout runner.Layout, rows runner.ResultSet) []table.Row {
	out := make([]table.Row, len(rows))
	for i, r := range rows {
		values := layout.Values(r)
		row := make(table.Row, len(values))
		for j, v := range values {
			row[j] = runner.OrNotAvailable(v)
		}
		out[i] = row
	}
	return out
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = max(20, msg.Width-8)
		m.table.SetColumns(columns(m.layout, msg.Width-4))
		m.table.SetWidth(msg.Width - 4)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "enter":
			m.notice = ""
			return m, m.submit(m.input.Value())
		}

	case loadingMsg:
		m.loading = bool(msg)
		if m.loading {
			m.errText = ""
			m.showResults = false
			return m, m.spinner.Tick
		}
		return m, nil

	case errorMsg:
		m.errText = string(msg)
		m.showResults = false
		return m, nil

	case rowsMsg:
		rows := runner.ResultSet(msg)
		m.table.SetRows(tableRows(m.layout, rows))
		m.rowCount = len(rows)
		m.showResults = true
		m.errText = ""
		return m, nil

	case submitDoneMsg:
		if errors.Is(msg.err, form.ErrSubmissionPending) {
			m.notice = "A submission is already in progress"
		}
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Trail Race Results"))
	b.WriteString("\n\n")
	b.WriteString(inputStyle.Render(m.input.View()))
	b.WriteString("\n\n")

	switch {
	case m.loading:
		b.WriteString(m.spinner.View() + " Fetching results...\n")
	case m.errText != "":
		b.WriteString(errorStyle.Render("Error: "+m.errText) + "\n")
	case m.showResults:
		b.WriteString(successStyle.Render(fmt.Sprintf("%d runners", m.rowCount)) + "\n")
		b.WriteString(boxStyle.Render(m.table.View()) + "\n")
	}

	if m.notice != "" {
		b.WriteString(subtleStyle.Render(m.notice) + "\n")
	}

	b.WriteString("\n" + subtleStyle.Render("enter: submit • esc: quit"))
	return b.String()
}

// Run starts the terminal form and blocks until the user quits
func Run(ctx context.Context, opts form.Options) error {
	ui := &programUI{}
	handler := form.NewHandler(ui, opts)

	m := NewModel(handler.Layout(), func(rawURL string) tea.Cmd {
		return func() tea.Msg {
			return submitDoneMsg{err: handler.Submit(ctx, rawURL)}
		}
	})

	p := tea.NewProgram(m, tea.WithContext(ctx), tea.WithAltScreen())
	ui.program = p

	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("running terminal ui: %w", err)
	}
	return nil
}
