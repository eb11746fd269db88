package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/a-h/templ"

	"github.com/pfrederiksen/itra-results/internal/form"
	"github.com/pfrederiksen/itra-results/internal/logger"
	"github.com/pfrederiksen/itra-results/internal/render"
	"github.com/pfrederiksen/itra-results/internal/runner"
	"github.com/pfrederiksen/itra-results/internal/scraper"
)

const (
	msgMissingURL = "Please provide a URL"
	msgInvalidURL = "Invalid URL format"
)

type errorResponse struct {
	Error string `json:"error"`
}

// handleScrape answers POST /scrape with the top runners of the posted URL
func (s *Server) handleScrape(w http.ResponseWriter, r *http.Request) {
	pageURL := r.PostFormValue("url")
	if pageURL == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: msgMissingURL})
		return
	}

	parsed, err := url.Parse(pageURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: msgInvalidURL})
		return
	}

	results, err := s.scraper.FetchResults(r.Context(), pageURL)
	if errors.Is(err, scraper.ErrNoResults) {
		s.log.Warn("no results table", logger.Fields{"url": pageURL, "request_id": requestID(r.Context())})
		results, err = runner.ResultSet{}, nil
	}
	if err != nil {
		s.metrics.IncrCounter("scrape.errors")
		s.log.Error("scrape failed", logger.Fields{"url": pageURL, "request_id": requestID(r.Context())}, err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}

	if results == nil {
		results = runner.ResultSet{}
	}
	writeJSON(w, http.StatusOK, results)
}

// handleIndex serves the idle page
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	page := render.NewPage(s.pageLayout(r.URL.Query().Get("layout")))
	writePage(w, r, page)
}

// handlePageSubmit runs a form submission server-side and serves the resulting page
func (s *Server) handlePageSubmit(w http.ResponseWriter, r *http.Request) {
	input := r.PostFormValue("url")
	layout := s.pageLayout(r.PostFormValue("layout"))

	page := render.NewPage(layout)
	page.Input = strings.TrimSpace(input)

	handler := form.NewHandler(page, form.Options{
		Endpoint:   strings.TrimRight(s.opts.BaseURL, "/") + "/scrape",
		Layout:     layout,
		HTTPClient: s.client,
		Logger:     s.log,
	})

	// The page already shows the failure; the error only needs logging
	if err := handler.Submit(r.Context(), input); err != nil {
		s.log.Debug("page submission failed", logger.Fields{
			"url":        page.Input,
			"request_id": requestID(r.Context()),
			"error":      err.Error(),
		})
	}

	writePage(w, r, page)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.metrics.GetSnapshot())
}

// pageLayout parses a layout name, falling back to the server default
func (s *Server) pageLayout(name string) runner.Layout {
	if strings.TrimSpace(name) == "" {
		return s.opts.Layout
	}
	layout, err := runner.ParseLayout(name)
	if err != nil {
		return s.opts.Layout
	}
	return layout
}

func writePage(w http.ResponseWriter, r *http.Request, page *render.Page) {
	templ.Handler(page.Component()).ServeHTTP(w, r)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
