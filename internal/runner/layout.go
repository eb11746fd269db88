package runner

import (
	"fmt"
	"strings"
)

// Layout selects which columns a results table carries
type Layout string

const (
	// LayoutProfile pages list age, gender, nationality and a profile link.
	LayoutProfile Layout = "profile"
	// LayoutCategory pages list a single category column.
	LayoutCategory Layout = "category"
)

// ParseLayout validates a layout name. An empty name selects LayoutProfile.
func ParseLayout(name string) (Layout, error) {
	switch Layout(strings.ToLower(strings.TrimSpace(name))) {
	case "", LayoutProfile:
		return LayoutProfile, nil
	case LayoutCategory:
		return LayoutCategory, nil
	default:
		return "", fmt.Errorf("invalid layout: %s (must be 'profile' or 'category')", name)
	}
}

// Columns returns the table headers for the layout
func (l Layout) Columns() []string {
	if l == LayoutCategory {
		return []string{"Position", "Name", "Time", "Category"}
	}
	return []string{"Position", "Name", "Time", "Age", "Gender", "Nationality", "Profile"}
}

// HasLinkColumn reports whether the last column holds a profile link
func (l Layout) HasLinkColumn() bool {
	return l != LayoutCategory
}

// Values returns the record's cell values in column order.
// The profile column carries the raw link, not rendered markup.
func (l Layout) Values(r Record) []string {
	if l == LayoutCategory {
		return []string{r.Position, r.Name, r.Time, r.Category}
	}
	return []string{r.Position, r.Name, r.Time, r.Age, r.Gender, r.Nationality, r.ProfileLink}
}
