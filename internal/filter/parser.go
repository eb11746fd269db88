package filter

import "strings"

// ParseList splits a comma-separated flag value into trimmed, non-empty items.
// Repeated flags are passed as separate values and are all split.
func ParseList(values ...string) []string {
	items := []string{}
	for _, v := range values {
		for _, item := range strings.Split(v, ",") {
			if item = strings.TrimSpace(item); item != "" {
				items = append(items, item)
			}
		}
	}
	return items
}

// FromFlags builds a filter from CLI flag values
func FromFlags(genders, nationalities, categories []string) *Filter {
	return &Filter{
		Genders:       ParseList(genders...),
		Nationalities: ParseList(nationalities...),
		Categories:    ParseList(categories...),
	}
}
