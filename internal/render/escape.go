package render

import (
	"strings"

	"github.com/pfrederiksen/itra-results/internal/runner"
)

// EscapeHTML replaces the five HTML-significant characters with named entities.
// Ampersands are replaced first so entities introduced by later substitutions are
// not escaped again. The transform is not idempotent: apply it exactly once.
func EscapeHTML(value string) string {
	value = strings.ReplaceAll(value, "&", "&amp;")
	value = strings.ReplaceAll(value, "<", "&lt;")
	value = strings.ReplaceAll(value, ">", "&gt;")
	value = strings.ReplaceAll(value, `"`, "&quot;")
	value = strings.ReplaceAll(value, "'", "&#039;")
	return value
}

// EscapeCell escapes a table cell value, rendering blank values as "N/A"
func EscapeCell(value string) string {
	return EscapeHTML(runner.OrNotAvailable(value))
}
