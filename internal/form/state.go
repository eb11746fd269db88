package form

import "github.com/pfrederiksen/itra-results/internal/runner"

// StateKind identifies which panel of the UI is visible
type StateKind int

const (
	Idle StateKind = iota
	Loading
	Failed
	Populated
)

func (k StateKind) String() string {
	switch k {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Failed:
		return "error"
	case Populated:
		return "results"
	default:
		return "unknown"
	}
}

// State is exactly one of Idle, Loading, Error(message) or Results(rows)
type State struct {
	Kind    StateKind
	Message string
	Rows    runner.ResultSet
}

// IdleState returns the initial state
func IdleState() State { return State{Kind: Idle} }

// LoadingState returns the state shown while a request is in flight
func LoadingState() State { return State{Kind: Loading} }

// ErrorState returns a state showing message as plain text
func ErrorState(message string) State { return State{Kind: Failed, Message: message} }

// ResultsState returns a state showing rows
func ResultsState(rows runner.ResultSet) State {
	if rows == nil {
		rows = runner.ResultSet{}
	}
	return State{Kind: Populated, Rows: rows}
}

// UI is the set of visible regions a Handler drives. Calls are serialized by the
// Handler, so implementations need not be safe for concurrent use.
type UI interface {
	SetLoading(loading bool)
	ShowError(message string)
	RenderRows(rows runner.ResultSet)
}

// apply pushes a state to the UI. Entering Loading hides the other panels through
// SetLoading(true); leaving it always ends with SetLoading(false).
func apply(ui UI, s State) {
	switch s.Kind {
	case Loading:
		ui.SetLoading(true)
	case Failed:
		ui.ShowError(s.Message)
		ui.SetLoading(false)
	case Populated:
		ui.RenderRows(s.Rows)
		ui.SetLoading(false)
	default:
		ui.SetLoading(false)
	}
}
