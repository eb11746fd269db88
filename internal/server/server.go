package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/pfrederiksen/itra-results/internal/logger"
	"github.com/pfrederiksen/itra-results/internal/runner"
)

// ResultsScraper fetches the top runners from a race results page
type ResultsScraper interface {
	FetchResults(ctx context.Context, pageURL string) (runner.ResultSet, error)
}

// Options configures a Server
type Options struct {
	Addr            string
	BaseURL         string // where the page flow reaches this server's /scrape
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	Layout          runner.Layout // default page layout
	Logger          *logger.Logger
}

// Server is the HTTP front end
type Server struct {
	opts       Options
	scraper    ResultsScraper
	log        *logger.Logger
	metrics    *logger.Metrics
	client     *http.Client
	httpServer *http.Server
}

// New creates a server backed by scraper
func New(opts Options, scraper ResultsScraper) *Server {
	if opts.Addr == "" {
		opts.Addr = ":8080"
	}
	if opts.BaseURL == "" {
		opts.BaseURL = "http://localhost" + opts.Addr
		if !strings.HasPrefix(opts.Addr, ":") {
			opts.BaseURL = "http://" + opts.Addr
		}
	}
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = 10 * time.Second
	}
	if opts.Layout == "" {
		opts.Layout = runner.LayoutProfile
	}
	if opts.Logger == nil {
		opts.Logger = logger.Default()
	}

	s := &Server{
		opts:    opts,
		scraper: scraper,
		log:     opts.Logger,
		metrics: logger.DefaultMetrics(),
		client:  &http.Client{},
	}
	s.httpServer = &http.Server{
		Addr:         opts.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  opts.ReadTimeout,
		WriteTimeout: opts.WriteTimeout,
	}
	return s
}

// Handler returns the routed handler wrapped in request logging
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("POST /{$}", s.handlePageSubmit)
	mux.HandleFunc("POST /scrape", s.handleScrape)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /metrics", s.handleMetrics)
	return s.withRequestLogging(mux)
}

// ListenAndServe runs the HTTP server until the context ends.
func (s *Server) ListenAndServe(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	serveErr := make(chan error, 1)
	s.log.Info("server listening", logger.Fields{"addr": s.opts.Addr, "base_url": s.opts.BaseURL})
	go func() {
		serveErr <- s.httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.opts.ShutdownTimeout)
		err := s.httpServer.Shutdown(shutdownCtx)
		cancel()
		if err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		s.log.Info("server stopped", nil)
		return nil
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve http: %w", err)
	}
}
