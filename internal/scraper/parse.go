package scraper

import (
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/pfrederiksen/itra-results/internal/runner"
)

const (
	profileCells  = 7
	categoryCells = 4
)

// ParseResults extracts up to limit runners from the results table. The first row
// is the header. Rows with seven or more cells carry age, gender, nationality and a
// profile link; rows with four to six cells carry a category; shorter rows are
// skipped. Like the site's own page, the limit applies before short rows are
// dropped.
func ParseResults(r io.Reader, pageURL string, limit int) (runner.ResultSet, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	if doc.Find("table.results-table").Length() == 0 {
		return nil, ErrNoResults
	}
	if limit <= 0 {
		limit = DefaultLimit
	}

	base, _ := url.Parse(pageURL)
	results := runner.ResultSet{}

	rows := doc.Find("table.results-table tr")
	rows.Each(func(i int, row *goquery.Selection) {
		if i == 0 || i > limit {
			return
		}

		cols := row.Find("td")
		switch {
		case cols.Length() >= profileCells:
			rec := runner.Record{
				Position:    cellText(cols.Eq(0)),
				Name:        cellText(cols.Eq(1)),
				Time:        cellText(cols.Eq(2)),
				Age:         cellText(cols.Eq(3)),
				Gender:      cellText(cols.Eq(4)),
				Nationality: cellText(cols.Eq(5)),
				ProfileLink: profileLink(cols.Eq(6), base),
			}
			results = append(results, rec.Normalize(runner.LayoutProfile))
		case cols.Length() >= categoryCells:
			rec := runner.Record{
				Position: cellText(cols.Eq(0)),
				Name:     cellText(cols.Eq(1)),
				Time:     cellText(cols.Eq(2)),
				Category: cellText(cols.Eq(3)),
			}
			results = append(results, rec.Normalize(runner.LayoutCategory))
		}
	})

	return results, nil
}

// cellText returns the cell's text with whitespace collapsed
func cellText(sel *goquery.Selection) string {
	return strings.Join(strings.Fields(sel.Text()), " ")
}

// profileLink resolves the first link in a cell against the page URL.
// It returns an empty string when the cell has no usable link.
func profileLink(sel *goquery.Selection, base *url.URL) string {
	href, ok := sel.Find("a[href]").First().Attr("href")
	href = strings.TrimSpace(href)
	if !ok || href == "" {
		return ""
	}

	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	if base != nil {
		ref = base.ResolveReference(ref)
	}
	return ref.String()
}
