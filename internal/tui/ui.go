package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/pfrederiksen/itra-results/internal/runner"
)

type loadingMsg bool

type errorMsg string

type rowsMsg runner.ResultSet

// submitDoneMsg is returned by the submit command once the handler finishes
type submitDoneMsg struct {
	err error
}

// sender is the part of *tea.Program the UI needs
type sender interface {
	Send(msg tea.Msg)
}

// programUI forwards form handler calls to the running program as messages.
// The program is attached after construction because the model, which owns the
// handler, must exist before the program does.
type programUI struct {
	program sender
}

func (u *programUI) SetLoading(loading bool) {
	u.program.Send(loadingMsg(loading))
}

func (u *programUI) ShowError(message string) {
	u.program.Send(errorMsg(message))
}

func (u *programUI) RenderRows(rows runner.ResultSet) {
	u.program.Send(rowsMsg(append(runner.ResultSet{}, rows...)))
}
