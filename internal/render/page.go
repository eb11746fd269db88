package render

import (
	"context"
	"io"
	"sync"

	"github.com/a-h/templ"

	"github.com/pfrederiksen/itra-results/internal/runner"
)

// View is a copy of what the page currently shows
type View struct {
	Loading        bool
	ErrorVisible   bool
	ErrorText      string
	ResultsVisible bool
	Rows           runner.ResultSet
}

// Page holds the visible regions of the results page: loading spinner, error
// message, and results table. It implements the form handler's UI interface.
// SetLoading(true) hides the error and results panels; ShowError and RenderRows
// each hide the other panel.
type Page struct {
	Layout runner.Layout
	Input  string // value echoed back into the URL field

	mu   sync.Mutex
	view View
}

// NewPage creates an idle page
func NewPage(layout runner.Layout) *Page {
	return &Page{Layout: layout}
}

// SetLoading shows or hides the loading spinner
func (p *Page) SetLoading(loading bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.view.Loading = loading
	if loading {
		p.view.ErrorVisible = false
		p.view.ResultsVisible = false
	}
}

// ShowError displays message as plain text
func (p *Page) ShowError(message string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.view.ErrorText = message
	p.view.ErrorVisible = true
	p.view.ResultsVisible = false
}

// RenderRows replaces the table body with rows
func (p *Page) RenderRows(rows runner.ResultSet) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.view.Rows = append(runner.ResultSet{}, rows...)
	p.view.ResultsVisible = true
	p.view.ErrorVisible = false
}

// View returns a copy of the current page state
func (p *Page) View() View {
	p.mu.Lock()
	defer p.mu.Unlock()

	v := p.view
	v.Rows = append(runner.ResultSet{}, p.view.Rows...)
	return v
}

// Component renders the full HTML document for the current state
func (p *Page) Component() templ.Component {
	view := p.View()

	body := templ.Join(
		urlForm(p.Input, p.Layout),
		loadingPanel(view.Loading),
		errorPanel(view.ErrorVisible, view.ErrorText),
		resultsPanel(view.ResultsVisible, p.Layout, view.Rows),
	)

	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return document(pageTitle).Render(templ.WithChildren(ctx, body), w)
	})
}
