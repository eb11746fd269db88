package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pfrederiksen/itra-results/internal/runner"
)

// SortOrder represents the available sorting options
type SortOrder string

const (
	SortByPosition SortOrder = "position"
	SortByName     SortOrder = "name"
	SortByTime     SortOrder = "time"
)

// ParseSortOrder validates a sort flag. An empty value keeps position order.
func ParseSortOrder(name string) (SortOrder, error) {
	switch SortOrder(strings.ToLower(strings.TrimSpace(name))) {
	case "", SortByPosition:
		return SortByPosition, nil
	case SortByName:
		return SortByName, nil
	case SortByTime:
		return SortByTime, nil
	default:
		return "", fmt.Errorf("invalid sort order: %s (must be 'position', 'name' or 'time')", name)
	}
}

// sortRecords sorts records in place. Records without a usable value sort last
// and otherwise keep their relative order.
func sortRecords(records runner.ResultSet, sortOrder SortOrder) {
	switch sortOrder {
	case SortByPosition:
		sort.SliceStable(records, func(i, j int) bool {
			return lessPositive(runner.ParsePosition(records[i].Position), runner.ParsePosition(records[j].Position))
		})
	case SortByName:
		sort.SliceStable(records, func(i, j int) bool {
			return strings.ToLower(records[i].Name) < strings.ToLower(records[j].Name)
		})
	case SortByTime:
		sort.SliceStable(records, func(i, j int) bool {
			ti := runner.ParseFinishTime(records[i].Time)
			tj := runner.ParseFinishTime(records[j].Time)
			return lessPositive(int64(ti), int64(tj))
		})
	}
}

// lessPositive orders positive values ascending, with zero (unknown) last
func lessPositive[T int | int64](a, b T) bool {
	if a <= 0 {
		return false
	}
	if b <= 0 {
		return true
	}
	return a < b
}
