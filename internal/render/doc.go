// Package render turns runner records into HTML.
//
// It owns the escaping rules for every value placed in markup, the table row
// format shared by the web page and the CLI's html output, and Page, the HTML
// implementation of the form handler's UI regions.
package render
