// Package runner provides types and functions for race result records.
//
// A Record is one finisher row returned by the scrape endpoint. Records are decoded
// with a uniform missing-value policy: absent, null, or blank fields become the
// literal "N/A" regardless of which column layout the results page used. Snapshots
// of result sets can be compared across runs to find runners that appeared since
// the previous save.
package runner
