package runner

import (
	"fmt"
	"strings"
	"time"
)

// Snapshot represents the result set of one race page at a point in time
type Snapshot struct {
	URL       string    `json:"url"`
	Layout    Layout    `json:"layout"`
	Records   ResultSet `json:"records"`
	UpdatedAt string    `json:"updated_at"` // RFC3339 timestamp
}

// NewSnapshot creates a snapshot of records scraped from url
func NewSnapshot(url string, layout Layout, records ResultSet) *Snapshot {
	if records == nil {
		records = ResultSet{}
	}
	return &Snapshot{
		URL:       url,
		Layout:    layout,
		Records:   records,
		UpdatedAt: time.Now().UTC().Format(time.RFC3339),
	}
}

// DiffResult contains the results of comparing a result set with a snapshot
type DiffResult struct {
	NewRunners     ResultSet        `json:"new_runners"`     // present now, absent from the snapshot
	DroppedRunners ResultSet        `json:"dropped_runners"` // present in the snapshot, absent now
	Moved          []PositionChange `json:"moved"`
}

// PositionChange records a runner whose position differs between scrapes
type PositionChange struct {
	Name        string `json:"name"`
	OldPosition string `json:"old_position"`
	NewPosition string `json:"new_position"`
}

// HasChanges reports whether anything differs from the previous snapshot
func (d *DiffResult) HasChanges() bool {
	return len(d.NewRunners) > 0 || len(d.DroppedRunners) > 0 || len(d.Moved) > 0
}

// Diff compares current records against a previous snapshot. Runners are matched by
// stable key so a changed time or position is not reported as a new runner.
// Output preserves the order of current (new, moved) and previous (dropped).
func Diff(previous *Snapshot, current ResultSet) *DiffResult {
	result := &DiffResult{
		NewRunners:     ResultSet{},
		DroppedRunners: ResultSet{},
	}

	var previousRecords ResultSet
	if previous != nil {
		previousRecords = previous.Records
	}
	previousKeys := matchKeys(previousRecords)
	currentKeys := matchKeys(current)

	prevByKey := make(map[string]Record, len(previousRecords))
	for i, r := range previousRecords {
		prevByKey[previousKeys[i]] = r
	}

	seen := make(map[string]bool, len(current))
	for i, r := range current {
		key := currentKeys[i]
		seen[key] = true

		old, exists := prevByKey[key]
		if !exists {
			result.NewRunners = append(result.NewRunners, r)
			continue
		}
		if old.Position != r.Position {
			result.Moved = append(result.Moved, PositionChange{
				Name:        r.Name,
				OldPosition: old.Position,
				NewPosition: r.Position,
			})
		}
	}

	for i, r := range previousRecords {
		if !seen[previousKeys[i]] {
			result.DroppedRunners = append(result.DroppedRunners, r)
		}
	}

	return result
}

// matchKeys returns one distinct key per record. Unnamed runners are keyed by
// position and time since their name says nothing about who they are, and
// repeated keys are numbered in order so no two records collapse together.
func matchKeys(records ResultSet) []string {
	keys := make([]string, len(records))
	count := make(map[string]int, len(records))

	for i, r := range records {
		key := GenerateStableKey(r.Name)
		if strings.TrimSpace(r.Name) == "" || r.Name == NotAvailable {
			key = "unnamed|" + r.Position + "|" + r.Time
		}

		count[key]++
		if n := count[key]; n > 1 {
			key = fmt.Sprintf("%s#%d", key, n)
		}
		keys[i] = key
	}
	return keys
}
