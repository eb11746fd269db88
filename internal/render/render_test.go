package render

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/a-h/templ"

	"github.com/pfrederiksen/itra-results/internal/runner"
)

func TestEscapeHTML(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"plain", "plain"},
		{"<script>alert('x')</script>", "&lt;script&gt;alert(&#039;x&#039;)&lt;/script&gt;"},
		{`a & "b"`, "a &amp; &quot;b&quot;"},
		{"&lt;", "&amp;lt;"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := EscapeHTML(tt.input); got != tt.want {
				t.Errorf("EscapeHTML(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestEscapeHTML_NoRawSpecialCharacters(t *testing.T) {
	inputs := []string{
		`<a href="x">'&'</a>`,
		`&&&<<<>>>"""'''`,
		`Jörg "the <fast> one" O'Neil & co`,
		"&amp; already escaped",
	}
	entities := []string{"&amp;", "&lt;", "&gt;", "&quot;", "&#039;"}

	for _, input := range inputs {
		got := EscapeHTML(input)
		if strings.ContainsAny(got, `<>"'`) {
			t.Errorf("EscapeHTML(%q) = %q contains a raw special character", input, got)
		}

		// Every & must start one of the generated entities
		for i := 0; i < len(got); i++ {
			if got[i] != '&' {
				continue
			}
			ok := false
			for _, e := range entities {
				if strings.HasPrefix(got[i:], e) {
					ok = true
					break
				}
			}
			if !ok {
				t.Errorf("EscapeHTML(%q) = %q has a bare & at %d", input, got, i)
			}
		}
	}
}

func TestEscapeHTML_NotIdempotent(t *testing.T) {
	once := EscapeHTML("Fish & Chips")
	twice := EscapeHTML(once)

	if once != "Fish &amp; Chips" {
		t.Fatalf("EscapeHTML() = %q, want %q", once, "Fish &amp; Chips")
	}
	if twice == once {
		t.Error("EscapeHTML should double-escape an already escaped ampersand")
	}
	if twice != "Fish &amp;amp; Chips" {
		t.Errorf("EscapeHTML(EscapeHTML()) = %q, want %q", twice, "Fish &amp;amp; Chips")
	}
}

func TestEscapeCell(t *testing.T) {
	if got := EscapeCell(""); got != "N/A" {
		t.Errorf("EscapeCell(\"\") = %q, want N/A", got)
	}
	if got := EscapeCell("M<40"); got != "M&lt;40" {
		t.Errorf("EscapeCell(\"M<40\") = %q, want M&lt;40", got)
	}
}

// parseRow wraps a rendered row in a table so the HTML parser keeps the cells
func parseRow(t *testing.T, row string) *goquery.Selection {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader("<table><tbody>" + row + "</tbody></table>"))
	if err != nil {
		t.Fatalf("parsing row: %v", err)
	}
	return doc.Find("tr").First()
}

func TestRow_ProfileLinkNotAvailable(t *testing.T) {
	rec := runner.Record{Position: "1", Name: "A", Time: "1:00:00", Age: "30", Gender: "F", Nationality: "FRA", ProfileLink: "N/A"}

	tr := parseRow(t, Row(runner.LayoutProfile, rec))
	cells := tr.Find("td")
	if cells.Length() != 7 {
		t.Fatalf("cells = %d, want 7", cells.Length())
	}

	last := cells.Last()
	if last.Find("a").Length() != 0 {
		t.Error("last cell should not contain a link")
	}
	if last.Text() != "N/A" {
		t.Errorf("last cell = %q, want N/A", last.Text())
	}
}

func TestRow_ProfileLink(t *testing.T) {
	rec := runner.Record{Position: "1", Name: "A", Time: "1:00:00", Age: "30", Gender: "F", Nationality: "FRA", ProfileLink: "https://x.test/1"}

	tr := parseRow(t, Row(runner.LayoutProfile, rec))
	a := tr.Find("td").Last().Find("a")
	if a.Length() != 1 {
		t.Fatalf("expected one anchor in last cell, got %d", a.Length())
	}
	if href, _ := a.Attr("href"); href != "https://x.test/1" {
		t.Errorf("href = %q, want https://x.test/1", href)
	}
	if target, _ := a.Attr("target"); target != "_blank" {
		t.Errorf("target = %q, want _blank", target)
	}
	if strings.TrimSpace(a.Text()) != "View" {
		t.Errorf("link text = %q, want View", a.Text())
	}
}

func TestRow_EscapesValues(t *testing.T) {
	rec := runner.Record{Position: "1", Name: "<b>Bold</b>", Time: "1:00:00", Category: `"SEF"`}

	row := Row(runner.LayoutCategory, rec)
	if strings.Contains(row, "<b>") {
		t.Errorf("Row() = %q, want name escaped", row)
	}

	tr := parseRow(t, row)
	if got := tr.Find("td").Eq(1).Text(); got != "<b>Bold</b>" {
		t.Errorf("name cell text = %q, want the literal markup", got)
	}
	if tr.Find("td").Length() != 4 {
		t.Errorf("category row cells = %d, want 4", tr.Find("td").Length())
	}
}

func TestRow_AttributeInjection(t *testing.T) {
	rec := runner.Record{ProfileLink: `x" onmouseover="alert(1)`}

	tr := parseRow(t, Row(runner.LayoutProfile, rec))
	a := tr.Find("a")
	if _, exists := a.Attr("onmouseover"); exists {
		t.Error("profile link escaped its href attribute")
	}
}

func TestRows_Order(t *testing.T) {
	rows := runner.ResultSet{{Name: "C"}, {Name: "A"}, {Name: "B"}}

	out := Rows(runner.LayoutCategory, rows)
	c, a, b := strings.Index(out, ">C<"), strings.Index(out, ">A<"), strings.Index(out, ">B<")
	if !(c < a && a < b) {
		t.Errorf("Rows() did not preserve order: %s", out)
	}
}

func TestWriteTable(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteTable(&buf, runner.LayoutCategory, runner.ResultSet{{Position: "1", Name: "A", Time: "1:00", Category: "SEH"}}); err != nil {
		t.Fatalf("WriteTable() error = %v", err)
	}

	doc, err := goquery.NewDocumentFromReader(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if doc.Find("th").Length() != 4 {
		t.Errorf("headers = %d, want 4", doc.Find("th").Length())
	}
	if doc.Find("#resultsBody tr").Length() != 1 {
		t.Errorf("rows = %d, want 1", doc.Find("#resultsBody tr").Length())
	}
}

func renderPage(t *testing.T, p *Page) *goquery.Document {
	t.Helper()
	var buf bytes.Buffer
	if err := p.Component().Render(context.Background(), &buf); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	doc, err := goquery.NewDocumentFromReader(&buf)
	if err != nil {
		t.Fatal(err)
	}
	return doc
}

func hidden(doc *goquery.Document, id string) bool {
	return doc.Find("#" + id).HasClass("d-none")
}

func TestPage_States(t *testing.T) {
	t.Run("idle page has every panel hidden", func(t *testing.T) {
		doc := renderPage(t, NewPage(runner.LayoutProfile))

		for _, id := range []string{"scrapeForm", "urlInput", "loadingSpinner", "errorMessage", "resultsContainer", "resultsBody"} {
			if doc.Find("#"+id).Length() != 1 {
				t.Errorf("element #%s missing", id)
			}
		}
		for _, id := range []string{"loadingSpinner", "errorMessage", "resultsContainer"} {
			if !hidden(doc, id) {
				t.Errorf("#%s should be hidden on an idle page", id)
			}
		}
	})

	t.Run("loading hides error and results", func(t *testing.T) {
		p := NewPage(runner.LayoutProfile)
		p.ShowError("previous failure")
		p.SetLoading(true)

		doc := renderPage(t, p)
		if hidden(doc, "loadingSpinner") {
			t.Error("spinner should be visible while loading")
		}
		if !hidden(doc, "errorMessage") || !hidden(doc, "resultsContainer") {
			t.Error("error and results should be hidden while loading")
		}
	})

	t.Run("error text is not interpreted as HTML", func(t *testing.T) {
		p := NewPage(runner.LayoutProfile)
		p.SetLoading(true)
		p.ShowError("<b>bad url</b>")
		p.SetLoading(false)

		doc := renderPage(t, p)
		msg := doc.Find("#errorMessage")
		if msg.Find("b").Length() != 0 {
			t.Error("error message markup was interpreted")
		}
		if msg.Text() != "<b>bad url</b>" {
			t.Errorf("error text = %q, want the literal message", msg.Text())
		}
		if !hidden(doc, "resultsContainer") || !hidden(doc, "loadingSpinner") {
			t.Error("only the error panel should be visible")
		}
	})

	t.Run("results replace previous rows", func(t *testing.T) {
		p := NewPage(runner.LayoutCategory)
		p.RenderRows(runner.ResultSet{{Name: "old"}, {Name: "older"}})
		p.RenderRows(runner.ResultSet{{Name: "new"}})

		doc := renderPage(t, p)
		if n := doc.Find("#resultsBody tr").Length(); n != 1 {
			t.Errorf("rows = %d, want 1", n)
		}
		if hidden(doc, "resultsContainer") {
			t.Error("results should be visible")
		}
	})

	t.Run("empty result set shows an empty table", func(t *testing.T) {
		p := NewPage(runner.LayoutProfile)
		p.RenderRows(runner.ResultSet{})

		doc := renderPage(t, p)
		if n := doc.Find("#resultsBody tr").Length(); n != 0 {
			t.Errorf("rows = %d, want 0", n)
		}
		if hidden(doc, "resultsContainer") {
			t.Error("results should be visible for an empty result set")
		}
	})

	t.Run("input value is escaped", func(t *testing.T) {
		p := NewPage(runner.LayoutProfile)
		p.Input = `https://x.test/?a="b"`

		doc := renderPage(t, p)
		if v, _ := doc.Find("#urlInput").Attr("value"); v != p.Input {
			t.Errorf("input value = %q, want %q", v, p.Input)
		}
	})
}

func TestPage_ViewIsACopy(t *testing.T) {
	p := NewPage(runner.LayoutProfile)
	p.RenderRows(runner.ResultSet{{Name: "A"}})

	v := p.View()
	v.Rows[0].Name = "changed"

	if p.View().Rows[0].Name != "A" {
		t.Error("View() should return a copy of the rows")
	}
}

func renderComponent(t *testing.T, c templ.Component) string {
	t.Helper()
	var buf bytes.Buffer
	if err := c.Render(context.Background(), &buf); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	return buf.String()
}

func TestDocument_RendersChildrenInsideMain(t *testing.T) {
	ctx := templ.WithChildren(context.Background(), templ.Raw(`<p id="child">hi</p>`))

	var buf bytes.Buffer
	if err := document("A & B").Render(ctx, &buf); err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	doc, err := goquery.NewDocumentFromReader(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if doc.Find("main #child").Length() != 1 {
		t.Error("child component should render inside <main>")
	}
	if got := doc.Find("title").Text(); got != "A & B" {
		t.Errorf("title = %q, want %q", got, "A & B")
	}
}

func TestPanel_Classes(t *testing.T) {
	tests := []struct {
		visible bool
		want    string
	}{
		{true, `class="text-center"`},
		{false, `class="text-center d-none"`},
	}

	for _, tt := range tests {
		got := renderComponent(t, loadingPanel(tt.visible))
		if !strings.Contains(got, tt.want) {
			t.Errorf("loadingPanel(%v) = %q, want %s", tt.visible, got, tt.want)
		}
	}
}

func TestErrorPanel_KeepsEntities(t *testing.T) {
	got := renderComponent(t, errorPanel(true, `it's "bad"`))

	want := "it&#039;s &quot;bad&quot;"
	if !strings.Contains(got, want) {
		t.Errorf("errorPanel() = %q, want it to contain %q", got, want)
	}
}

func TestPage_ServesThroughTemplHandler(t *testing.T) {
	p := NewPage(runner.LayoutCategory)
	p.RenderRows(runner.ResultSet{{Position: "1", Name: "O'Hara", Time: "5:00:00", Category: "SEH"}})

	rec := httptest.NewRecorder()
	templ.Handler(p.Component()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("Content-Type = %q, want text/html", ct)
	}
	if !strings.Contains(rec.Body.String(), "<td>O&#039;Hara</td>") {
		t.Errorf("body missing the escaped row:\n%s", rec.Body.String())
	}
}

func TestRow_BlankProfileLink(t *testing.T) {
	tr := parseRow(t, Row(runner.LayoutProfile, runner.Record{ProfileLink: "  "}))

	last := tr.Find("td").Last()
	if last.Find("a").Length() != 0 || last.Text() != "N/A" {
		t.Errorf("blank profile link cell = %q, want plain N/A", last.Text())
	}
}
