package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/pfrederiksen/itra-results/internal/render"
	"github.com/pfrederiksen/itra-results/internal/runner"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
	FormatHTML OutputFormat = "html"
)

// OutputResult contains data to be output
type OutputResult struct {
	SubmittedAt time.Time          `json:"submitted_at"`
	URL         string             `json:"url"`
	Layout      runner.Layout      `json:"layout"`
	Runners     runner.ResultSet   `json:"runners"`
	RunnerCount int                `json:"runner_count"`
	Filter      string             `json:"filter,omitempty"`
	Changes     *runner.DiffResult `json:"changes,omitempty"`
}

// WriteOutput writes the result in the specified format
func WriteOutput(w io.Writer, result *OutputResult, format OutputFormat, verbose bool) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, result)
	case FormatText:
		return writeText(w, result, verbose)
	case FormatHTML:
		return render.WriteTable(w, result.Layout, result.Runners)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// writeJSON outputs results as JSON
func writeJSON(w io.Writer, result *OutputResult) error {
	if result.Runners == nil {
		result.Runners = runner.ResultSet{}
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

// writeText outputs results as a human-readable table
func writeText(w io.Writer, result *OutputResult, verbose bool) error {
	if verbose {
		fmt.Fprintf(w, "Race: %s\n", result.URL)
		if result.Filter != "" {
			fmt.Fprintf(w, "Filter: %s\n", result.Filter)
		}
	}

	if result.RunnerCount == 0 {
		fmt.Fprintln(w, "No runners found.")
	} else {
		t := table.New().
			Border(lipgloss.NormalBorder()).
			Headers(result.Layout.Columns()...)
		for _, r := range result.Runners {
			values := result.Layout.Values(r)
			for i, v := range values {
				values[i] = runner.OrNotAvailable(v)
			}
			t.Row(values...)
		}
		fmt.Fprintln(w, t.String())
		fmt.Fprintf(w, "\nTotal: %d runners\n", result.RunnerCount)
	}

	if result.Changes != nil {
		writeChanges(w, result.Changes)
	}
	return nil
}

// writeChanges lists differences from the previously saved snapshot
func writeChanges(w io.Writer, diff *runner.DiffResult) {
	if !diff.HasChanges() {
		fmt.Fprintln(w, "\nNo changes since last save.")
		return
	}

	fmt.Fprintln(w, "\nChanges since last save:")
	for _, r := range diff.NewRunners {
		fmt.Fprintf(w, "  NEW: %s (%s)\n", r.Name, r.Position)
	}
	for _, r := range diff.DroppedRunners {
		fmt.Fprintf(w, "  DROPPED: %s (was %s)\n", r.Name, r.Position)
	}
	for _, m := range diff.Moved {
		fmt.Fprintf(w, "  MOVED: %s (%s -> %s)\n", m.Name, m.OldPosition, m.NewPosition)
	}
}
