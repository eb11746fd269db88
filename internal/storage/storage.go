package storage

import (
	"crypto/sha1"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/pfrederiksen/itra-results/internal/runner"
)

// ErrNotFound is returned when no snapshot exists for a URL
var ErrNotFound = errors.New("snapshot not found")

// Storage handles persistence of result set snapshots
type Storage struct {
	dataDir string
}

// New creates a new Storage instance
func New(dataDir string) (*Storage, error) {
	// Expand ~ to home directory
	if strings.HasPrefix(dataDir, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, dataDir[2:])
	}

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	return &Storage{
		dataDir: dataDir,
	}, nil
}

// Dir returns the resolved data directory
func (s *Storage) Dir() string {
	return s.dataDir
}

// getSnapshotPath returns the snapshot file for a race URL
func (s *Storage) getSnapshotPath(pageURL string) string {
	sum := sha1.Sum([]byte(strings.TrimSpace(pageURL)))
	return filepath.Join(s.dataDir, fmt.Sprintf("snapshot_%x.json", sum[:8]))
}

// LoadSnapshot loads the snapshot saved for a race URL
func (s *Storage) LoadSnapshot(pageURL string) (*runner.Snapshot, error) {
	return s.readSnapshot(s.getSnapshotPath(pageURL))
}

func (s *Storage) readSnapshot(path string) (*runner.Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}

	var snapshot runner.Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("parsing snapshot %s: %w", filepath.Base(path), err)
	}

	if snapshot.Records == nil {
		snapshot.Records = runner.ResultSet{}
	}
	return &snapshot, nil
}

// SaveSnapshot saves a snapshot to disk
func (s *Storage) SaveSnapshot(snapshot *runner.Snapshot) error {
	path := s.getSnapshotPath(snapshot.URL)

	// Set updated timestamp
	snapshot.UpdatedAt = time.Now().UTC().Format(time.RFC3339)

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing snapshot: %w", err)
	}

	return nil
}

// SaveResults stores records as the latest snapshot for pageURL and returns the
// differences from the snapshot it replaced. With no previous snapshot every
// runner is reported as new.
func (s *Storage) SaveResults(pageURL string, layout runner.Layout, records runner.ResultSet) (*runner.DiffResult, error) {
	previous, err := s.LoadSnapshot(pageURL)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("loading previous snapshot: %w", err)
	}

	diff := runner.Diff(previous, records)

	if err := s.SaveSnapshot(runner.NewSnapshot(pageURL, layout, records)); err != nil {
		return nil, err
	}
	return diff, nil
}

// List returns every saved snapshot, most recently updated first
func (s *Storage) List() ([]*runner.Snapshot, error) {
	paths, err := filepath.Glob(filepath.Join(s.dataDir, "snapshot_*.json"))
	if err != nil {
		return nil, fmt.Errorf("listing snapshots: %w", err)
	}

	snapshots := make([]*runner.Snapshot, 0, len(paths))
	for _, path := range paths {
		snapshot, err := s.readSnapshot(path)
		if err != nil {
			return nil, err
		}
		snapshots = append(snapshots, snapshot)
	}

	sort.SliceStable(snapshots, func(i, j int) bool {
		if snapshots[i].UpdatedAt != snapshots[j].UpdatedAt {
			return snapshots[i].UpdatedAt > snapshots[j].UpdatedAt
		}
		return snapshots[i].URL < snapshots[j].URL
	})
	return snapshots, nil
}

// Delete removes the snapshot saved for a race URL
func (s *Storage) Delete(pageURL string) error {
	err := os.Remove(s.getSnapshotPath(pageURL))
	if os.IsNotExist(err) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("removing snapshot: %w", err)
	}
	return nil
}
