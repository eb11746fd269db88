package render

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"

	"github.com/pfrederiksen/itra-results/internal/runner"
)

const (
	pageTitle      = "Trail Race Results"
	urlPlaceholder = "https://itra.run/Races/RaceResults/..."
	bootstrapCSS   = "https://cdn.jsdelivr.net/npm/bootstrap@5.3.3/dist/css/bootstrap.min.css"
)

// document is the page shell; it renders the context's children inside <main>
func document(title string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w, `<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>%s</title>
<link rel="stylesheet" href="%s">
</head>
<body>
<main class="container py-4">
<h1 class="h3 mb-3">%s</h1>
`, EscapeHTML(title), bootstrapCSS, EscapeHTML(title)); err != nil {
			return err
		}

		if err := templ.GetChildren(ctx).Render(templ.ClearChildren(ctx), w); err != nil {
			return err
		}

		_, err := io.WriteString(w, "</main>\n</body>\n</html>\n")
		return err
	})
}

// urlForm posts back to the page so submissions work without JavaScript
func urlForm(input string, layout runner.Layout) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w, `<form id="scrapeForm" method="post" action="/" class="mb-3">
<input id="urlInput" name="url" type="text" class="form-control" placeholder="%s" value="%s">
<input type="hidden" name="layout" value="%s">
<button type="submit" class="btn btn-primary mt-2">Get Results</button>
</form>
`, urlPlaceholder, EscapeHTML(input), EscapeHTML(string(layout)))
		return err
	})
}

// panel wraps children in a div that carries d-none while hidden
func panel(id, class string, visible bool, attrs string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		classes := templ.Classes(class, templ.KV("d-none", !visible))
		if _, err := fmt.Fprintf(w, `<div id="%s" class="%s"%s>`, id, EscapeHTML(classes.String()), attrs); err != nil {
			return err
		}
		if err := templ.GetChildren(ctx).Render(templ.ClearChildren(ctx), w); err != nil {
			return err
		}
		_, err := io.WriteString(w, "</div>\n")
		return err
	})
}

func withChildren(parent, children templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return parent.Render(templ.WithChildren(ctx, children), w)
	})
}

func loadingPanel(visible bool) templ.Component {
	return withChildren(
		panel("loadingSpinner", "text-center", visible, ""),
		templ.Raw(`<div class="spinner-border" role="status"></div>`),
	)
}

// errorPanel shows message as text, never as markup
func errorPanel(visible bool, message string) templ.Component {
	return withChildren(
		panel("errorMessage", "alert alert-danger", visible, ` role="alert"`),
		templ.Raw(EscapeHTML(message)),
	)
}

func resultsPanel(visible bool, layout runner.Layout, rows runner.ResultSet) templ.Component {
	return withChildren(
		panel("resultsContainer", "table-responsive", visible, ""),
		resultsTable(layout, rows),
	)
}

// resultsTable renders rows already escaped by Row, so they pass through templ.Raw
func resultsTable(layout runner.Layout, rows runner.ResultSet) templ.Component {
	return templ.Join(
		templ.Raw("\n<table class=\"table table-striped\">\n"),
		templ.Raw(header(layout)),
		templ.Raw("\n<tbody id=\"resultsBody\">\n"),
		templ.Raw(Rows(layout, rows)),
		templ.Raw("</tbody>\n</table>\n"),
	)
}
