package scraper

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/pfrederiksen/itra-results/internal/runner"
)

// ErrNoProfile is returned when a page carries neither a runner name nor an index
var ErrNoProfile = errors.New("no runner profile found")

// Profile is a runner's name and ITRA performance index
type Profile struct {
	URL              string `json:"url"`
	Name             string `json:"runner_name"`
	PerformanceIndex string `json:"performance_index"`
}

var (
	nameSelectors  = []string{".runner-name", "[data-runner-name]", "h1"}
	indexSelectors = []string{".performance-index", "[data-performance-index]", ".pi-score"}
)

// ParseProfile extracts the runner name and performance index from a profile page
func ParseProfile(r io.Reader) (*Profile, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	name := firstText(doc, nameSelectors)
	index := firstText(doc, indexSelectors)
	if name == "" && index == "" {
		return nil, ErrNoProfile
	}

	return &Profile{
		Name:             runner.OrNotAvailable(name),
		PerformanceIndex: runner.OrNotAvailable(index),
	}, nil
}

// firstText returns the text of the first non-empty match, trying selectors in order
func firstText(doc *goquery.Document, selectors []string) string {
	for _, selector := range selectors {
		var found string
		doc.Find(selector).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
			found = strings.Join(strings.Fields(sel.Text()), " ")
			return found == ""
		})
		if found != "" {
			return found
		}
	}
	return ""
}
