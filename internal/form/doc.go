// Package form submits a race-results URL to the scrape endpoint and drives a UI
// through the outcome.
//
// A Handler owns an explicit state machine with four states: Idle, Loading,
// Error and Results. Every Submit call moves the UI to Loading, performs one HTTP
// POST and then moves to either Results or Error. The loading indicator is always
// hidden when a submission finishes.
//
// Failures are reported through three error types:
//
//	*RequestError  the endpoint answered with a non-2xx status
//	*NetworkError  the request could not be completed
//	*ParseError    the body was not JSON or not an array of records
//
// Overlapping submissions are governed by an OverlapPolicy.
package form
