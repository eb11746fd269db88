// Package server serves the results page and the scrape endpoint.
//
// POST /scrape takes a form-encoded url field and answers with a JSON array of
// runner records, or a JSON object with an error field. GET / serves the page,
// and POST / runs a form handler bound to the page against this server's own
// /scrape endpoint so the form works without JavaScript.
package server
