// Package filter narrows a result set down for CLI output.
//
// Criteria are case-insensitive substring matches on gender, nationality and
// category. Within one criterion any value may match; across criteria every
// criterion must match. Records whose field is "N/A" never match an active
// criterion for that field.
//
// Example usage:
//
//	f := filter.NewFilter()
//	f.Nationalities = []string{"FRA", "ESP"}
//	filtered := f.Apply(results)
package filter

import (
	"fmt"
	"strings"

	"github.com/pfrederiksen/itra-results/internal/runner"
)

// Filter represents record filtering criteria
type Filter struct {
	Genders       []string `json:"genders,omitempty"`
	Nationalities []string `json:"nationalities,omitempty"`
	Categories    []string `json:"categories,omitempty"`
}

// NewFilter creates a new empty filter with no active criteria.
// The filter will match all records until criteria are added.
func NewFilter() *Filter {
	return &Filter{
		Genders:       []string{},
		Nationalities: []string{},
		Categories:    []string{},
	}
}

// IsEmpty checks if the filter has any active criteria
func (f *Filter) IsEmpty() bool {
	return len(f.Genders) == 0 &&
		len(f.Nationalities) == 0 &&
		len(f.Categories) == 0
}

// Matches checks if a record matches all active filter criteria
func (f *Filter) Matches(r runner.Record) bool {
	if f.IsEmpty() {
		return true
	}

	return matchesAny(r.Gender, f.Genders) &&
		matchesAny(r.Nationality, f.Nationalities) &&
		matchesAny(r.Category, f.Categories)
}

// matchesAny reports whether value contains one of the wanted substrings.
// An empty wanted list matches everything.
func matchesAny(value string, wanted []string) bool {
	if len(wanted) == 0 {
		return true
	}
	if value == "" || value == runner.NotAvailable {
		return false
	}

	value = strings.ToLower(value)
	for _, w := range wanted {
		if strings.Contains(value, strings.ToLower(w)) {
			return true
		}
	}
	return false
}

// Apply returns the records that match, preserving order
func (f *Filter) Apply(records runner.ResultSet) runner.ResultSet {
	if f == nil || f.IsEmpty() {
		return records
	}

	filtered := make(runner.ResultSet, 0, len(records))
	for _, r := range records {
		if f.Matches(r) {
			filtered = append(filtered, r)
		}
	}
	return filtered
}

// String returns a human-readable description of the filter
func (f *Filter) String() string {
	if f.IsEmpty() {
		return "No filters active"
	}

	var parts []string
	if len(f.Genders) > 0 {
		parts = append(parts, fmt.Sprintf("Gender: %s", strings.Join(f.Genders, ", ")))
	}
	if len(f.Nationalities) > 0 {
		parts = append(parts, fmt.Sprintf("Nationality: %s", strings.Join(f.Nationalities, ", ")))
	}
	if len(f.Categories) > 0 {
		parts = append(parts, fmt.Sprintf("Category: %s", strings.Join(f.Categories, ", ")))
	}
	return strings.Join(parts, " | ")
}
