package scraper

import (
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/pfrederiksen/itra-results/internal/runner"
)

func loadFixture(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile("../../testdata/fixtures/" + name)
	if err != nil {
		t.Fatalf("failed to load test fixture: %v", err)
	}
	return string(data)
}

func TestParseResults_ProfileLayout(t *testing.T) {
	html := loadFixture(t, "results_profile.html")

	results, err := ParseResults(strings.NewReader(html), "https://itra.run/Races/RaceResults/UTMB/2024", 3)
	if err != nil {
		t.Fatalf("ParseResults failed: %v", err)
	}

	want := runner.ResultSet{
		{Position: "1", Name: "Vincent Bouillard", Time: "19:54:23", Age: "34", Gender: "M", Nationality: "FRA", ProfileLink: "https://itra.run/RunnerSpace/Bouillard.Vincent/1234"},
		{Position: "2", Name: "Tom Evans", Time: "20:05:51", Age: "N/A", Gender: "M", Nationality: "GBR", ProfileLink: "https://itra.run/RunnerSpace/Evans.Tom/5678"},
		{Position: "3", Name: "Zach Miller", Time: "20:16:04", Age: "36", Gender: "M", Nationality: "USA", ProfileLink: "N/A"},
	}

	if len(results) != len(want) {
		t.Fatalf("expected %d runners, got %d", len(want), len(results))
	}
	for i := range want {
		if results[i] != want[i] {
			t.Errorf("results[%d] = %+v, want %+v", i, results[i], want[i])
		}
	}
}

func TestParseResults_CategoryLayout(t *testing.T) {
	html := loadFixture(t, "results_category.html")

	results, err := ParseResults(strings.NewReader(html), "https://itra.run/race", 3)
	if err != nil {
		t.Fatalf("ParseResults failed: %v", err)
	}

	if len(results) != 3 {
		t.Fatalf("expected 3 runners, got %d", len(results))
	}
	if results[0].Name != "Hannes Namberger" || results[0].Category != "SEH" {
		t.Errorf("results[0] = %+v", results[0])
	}
	if results[1].Category != "N/A" {
		t.Errorf("empty category = %q, want N/A", results[1].Category)
	}
	if results[0].ProfileLink != "" {
		t.Errorf("category rows should carry no profile link, got %q", results[0].ProfileLink)
	}
}

func TestParseResults_EdgeCases(t *testing.T) {
	tests := []struct {
		name      string
		html      string
		limit     int
		wantCount int
		wantErr   error
	}{
		{
			name:    "no results table",
			html:    `<html><body><p>Race not found</p></body></html>`,
			limit:   3,
			wantErr: ErrNoResults,
		},
		{
			name:      "header only",
			html:      `<table class="results-table"><tr><th>Pos</th></tr></table>`,
			limit:     3,
			wantCount: 0,
		},
		{
			name: "short rows are skipped within the limit",
			html: `<table class="results-table">
				<tr><th>Pos</th></tr>
				<tr><td>1</td><td>A</td><td>1:00</td><td>SEH</td></tr>
				<tr><td colspan="4">Disqualified</td></tr>
				<tr><td>2</td><td>B</td><td>1:05</td><td>SEF</td></tr>
				<tr><td>3</td><td>C</td><td>1:10</td><td>M1H</td></tr>
			</table>`,
			limit:     3,
			wantCount: 2,
		},
		{
			name: "larger limit",
			html: `<table class="results-table">
				<tr><th>Pos</th></tr>
				<tr><td>1</td><td>A</td><td>1:00</td><td>SEH</td></tr>
				<tr><td>2</td><td>B</td><td>1:05</td><td>SEF</td></tr>
				<tr><td>3</td><td>C</td><td>1:10</td><td>M1H</td></tr>
				<tr><td>4</td><td>D</td><td>1:15</td><td>M2H</td></tr>
			</table>`,
			limit:     10,
			wantCount: 4,
		},
		{
			name: "zero limit uses the default",
			html: `<table class="results-table">
				<tr><th>Pos</th></tr>
				<tr><td>1</td><td>A</td><td>1:00</td><td>SEH</td></tr>
				<tr><td>2</td><td>B</td><td>1:05</td><td>SEF</td></tr>
				<tr><td>3</td><td>C</td><td>1:10</td><td>M1H</td></tr>
				<tr><td>4</td><td>D</td><td>1:15</td><td>M2H</td></tr>
			</table>`,
			limit:     0,
			wantCount: DefaultLimit,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results, err := ParseResults(strings.NewReader(tt.html), "https://itra.run/race", tt.limit)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("ParseResults() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseResults() unexpected error: %v", err)
			}
			if results == nil {
				t.Fatal("ParseResults() returned nil, want an empty set")
			}
			if len(results) != tt.wantCount {
				t.Errorf("ParseResults() returned %d runners, want %d", len(results), tt.wantCount)
			}
		})
	}
}

func TestProfileLink(t *testing.T) {
	tests := []struct {
		name    string
		cell    string
		pageURL string
		want    string
	}{
		{"absolute", `<a href="https://itra.run/r/1">View</a>`, "https://itra.run/race", "https://itra.run/r/1"},
		{"root relative", `<a href="/r/2">View</a>`, "https://itra.run/Races/1", "https://itra.run/r/2"},
		{"path relative", `<a href="r/3">View</a>`, "https://itra.run/Races/1", "https://itra.run/Races/r/3"},
		{"first link wins", `<a>none</a><a href="/r/4">a</a><a href="/r/5">b</a>`, "https://itra.run/", "https://itra.run/r/4"},
		{"no link", `View`, "https://itra.run/", "N/A"},
		{"blank href", `<a href=" ">View</a>`, "https://itra.run/", "N/A"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			html := `<table class="results-table"><tr><th>h</th></tr><tr>` +
				`<td>1</td><td>A</td><td>1:00</td><td>30</td><td>F</td><td>FRA</td><td>` + tt.cell + `</td></tr></table>`

			results, err := ParseResults(strings.NewReader(html), tt.pageURL, 3)
			if err != nil {
				t.Fatalf("ParseResults() error = %v", err)
			}
			if len(results) != 1 {
				t.Fatalf("expected 1 runner, got %d", len(results))
			}
			if results[0].ProfileLink != tt.want {
				t.Errorf("ProfileLink = %q, want %q", results[0].ProfileLink, tt.want)
			}
		})
	}
}

func TestParseProfile(t *testing.T) {
	profile, err := ParseProfile(strings.NewReader(loadFixture(t, "profile.html")))
	if err != nil {
		t.Fatalf("ParseProfile failed: %v", err)
	}

	if profile.Name != "Beau Hoover" {
		t.Errorf("Name = %q, want Beau Hoover", profile.Name)
	}
	if profile.PerformanceIndex != "712" {
		t.Errorf("PerformanceIndex = %q, want 712", profile.PerformanceIndex)
	}
}

func TestParseProfile_EdgeCases(t *testing.T) {
	tests := []struct {
		name      string
		html      string
		wantName  string
		wantIndex string
		wantErr   bool
	}{
		{
			name:      "heading fallback without index",
			html:      `<h1>Jim Walmsley</h1>`,
			wantName:  "Jim Walmsley",
			wantIndex: "N/A",
		},
		{
			name:      "index without name",
			html:      `<span class="performance-index">805</span>`,
			wantName:  "N/A",
			wantIndex: "805",
		},
		{
			name:      "empty name element falls through",
			html:      `<div class="runner-name"> </div><h1>Courtney Dauwalter</h1><b data-performance-index>780</b>`,
			wantName:  "Courtney Dauwalter",
			wantIndex: "780",
		},
		{
			name:    "nothing found",
			html:    `<p>Private profile</p>`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			profile, err := ParseProfile(strings.NewReader(tt.html))
			if tt.wantErr {
				if !errors.Is(err, ErrNoProfile) {
					t.Errorf("ParseProfile() error = %v, want ErrNoProfile", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseProfile() error = %v", err)
			}
			if profile.Name != tt.wantName {
				t.Errorf("Name = %q, want %q", profile.Name, tt.wantName)
			}
			if profile.PerformanceIndex != tt.wantIndex {
				t.Errorf("PerformanceIndex = %q, want %q", profile.PerformanceIndex, tt.wantIndex)
			}
		})
	}
}
