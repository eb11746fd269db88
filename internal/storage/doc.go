// Package storage provides JSON-based persistence for result set snapshots.
//
// Each race page URL gets its own snapshot file (snapshot_<hash>.json) holding the
// records last saved for it. Saving a new result set reports which runners
// appeared, dropped out or moved since the previous save.
// The default storage location is ~/.local/share/itra-results/.
package storage
