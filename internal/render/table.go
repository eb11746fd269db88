package render

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/pfrederiksen/itra-results/internal/runner"
)

// Row renders one <tr> for a record. In layouts with a link column the last cell is
// an external "View" link, or plain "N/A" when the record has no profile link.
func Row(layout runner.Layout, r runner.Record) string {
	var b strings.Builder
	b.WriteString("<tr>")

	values := layout.Values(r)
	cells := values
	if layout.HasLinkColumn() {
		cells = values[:len(values)-1]
	}

	for _, v := range cells {
		b.WriteString("<td>")
		b.WriteString(EscapeCell(v))
		b.WriteString("</td>")
	}

	if layout.HasLinkColumn() {
		b.WriteString("<td>")
		b.WriteString(profileCell(r))
		b.WriteString("</td>")
	}

	b.WriteString("</tr>")
	return b.String()
}

func profileCell(r runner.Record) string {
	if !r.HasProfileLink() {
		return runner.NotAvailable
	}
	return fmt.Sprintf(`<a href="%s" target="_blank" rel="noopener noreferrer" class="btn btn-sm btn-outline-primary">View</a>`,
		EscapeHTML(r.ProfileLink))
}

// Rows renders every record in order, one row per line
func Rows(layout runner.Layout, rows runner.ResultSet) string {
	var b strings.Builder
	for _, r := range rows {
		b.WriteString(Row(layout, r))
		b.WriteString("\n")
	}
	return b.String()
}

// header renders the <thead> for a layout
func header(layout runner.Layout) string {
	var b strings.Builder
	b.WriteString("<thead><tr>")
	for _, col := range layout.Columns() {
		b.WriteString("<th>")
		b.WriteString(EscapeHTML(col))
		b.WriteString("</th>")
	}
	b.WriteString("</tr></thead>")
	return b.String()
}

// WriteTable writes a standalone results table
func WriteTable(w io.Writer, layout runner.Layout, rows runner.ResultSet) error {
	return resultsTable(layout, rows).Render(context.Background(), w)
}
