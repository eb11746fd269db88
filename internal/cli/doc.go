// Package cli implements the command-line interface for itra-results.
//
// The cli package provides the Cobra-based CLI: serve runs the HTTP server, submit
// posts a race URL to a running server and prints the runners (text/JSON/HTML),
// tui opens the terminal form, profile looks up a runner's performance index and
// history lists saved snapshots. Output can be filtered and sorted, and submit can
// persist each result set to report changes since the previous save.
package cli
