// Package scraper fetches race result pages and runner profiles and extracts the
// data the scrape endpoint returns.
//
// Pages are fetched over plain HTTP with a browser-like User-Agent, retrying
// transient failures with exponential backoff. Pages that only render their tables
// with JavaScript can be fetched through headless Chrome instead. Either way the
// HTML is parsed with goquery, and parsing is kept separate from fetching so tests
// can feed fixtures directly.
package scraper
