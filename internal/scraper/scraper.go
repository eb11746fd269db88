package scraper

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/pfrederiksen/itra-results/internal/logger"
	"github.com/pfrederiksen/itra-results/internal/runner"
)

const (
	UserAgent    = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
	Timeout      = 30 * time.Second
	DefaultLimit = 3
)

// ErrNoResults is returned when a page has no results table
var ErrNoResults = errors.New("no results table found")

// StatusError reports a non-200 response from the results site
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status code: %d", e.Code)
}

// retryable reports whether another attempt may succeed
func (e *StatusError) retryable() bool {
	return e.Code >= 500 || e.Code == http.StatusTooManyRequests
}

// BrowserOptions enables fetching through headless Chrome
type BrowserOptions struct {
	Enabled bool
	Wait    time.Duration // settle time after navigation
}

// Options configures a Scraper. Zero values select the defaults.
type Options struct {
	UserAgent  string
	Timeout    time.Duration
	MaxRetries int
	RetryDelay time.Duration
	Limit      int
	CacheTTL   time.Duration // zero disables the result cache
	Browser    BrowserOptions
	Logger     *logger.Logger
}

// Scraper handles fetching and parsing race results and runner profiles
type Scraper struct {
	client *http.Client
	opts   Options
	log    *logger.Logger
	cache  *resultCache

	// fetchPage is replaced by the headless browser when enabled
	fetchPage func(ctx context.Context, pageURL string) (string, error)
}

// New creates a new Scraper instance
func New(opts Options) *Scraper {
	if opts.UserAgent == "" {
		opts.UserAgent = UserAgent
	}
	if opts.Timeout <= 0 {
		opts.Timeout = Timeout
	}
	if opts.Limit <= 0 {
		opts.Limit = DefaultLimit
	}
	if opts.MaxRetries < 0 {
		opts.MaxRetries = 0
	}
	if opts.Logger == nil {
		opts.Logger = logger.Default()
	}

	s := &Scraper{
		client: &http.Client{
			Timeout: opts.Timeout,
		},
		opts: opts,
		log:  opts.Logger,
	}
	if opts.CacheTTL > 0 {
		s.cache = newResultCache(opts.CacheTTL)
	}
	s.fetchPage = s.fetchHTTP
	if opts.Browser.Enabled {
		b := newBrowser(opts.UserAgent, opts.Timeout, opts.Browser.Wait)
		s.fetchPage = b.fetch
	}
	return s
}

// FetchResults fetches a race results page and returns its top runners
func (s *Scraper) FetchResults(ctx context.Context, pageURL string) (runner.ResultSet, error) {
	start := time.Now()
	logger.IncrCounter("scrape.requests")

	if s.cache != nil {
		if results, ok := s.cache.Get(pageURL); ok {
			logger.IncrCounter("scrape.cache_hits")
			return results, nil
		}
		if removed := s.cache.CleanExpired(); removed > 0 {
			s.log.Debug("expired cached results", logger.Fields{"removed": removed})
		}
	}

	html, err := s.fetchPage(ctx, pageURL)
	if err != nil {
		logger.IncrCounter("scrape.failed")
		return nil, fmt.Errorf("failed to scrape results: %w", err)
	}

	results, err := ParseResults(strings.NewReader(html), pageURL, s.opts.Limit)
	if err != nil {
		logger.IncrCounter("scrape.failed")
		return nil, fmt.Errorf("failed to scrape results: %w", err)
	}

	if s.cache != nil {
		s.cache.Set(pageURL, results)
		logger.SetGauge("scrape.cache_entries", float64(s.cache.Size()))
	}

	logger.RecordTiming("scrape.duration", time.Since(start))
	s.log.Info("scrape completed", logger.Fields{
		"url":      pageURL,
		"runners":  len(results),
		"duration": time.Since(start).String(),
	})
	return results, nil
}

// FetchProfile fetches a runner profile page
func (s *Scraper) FetchProfile(ctx context.Context, profileURL string) (*Profile, error) {
	html, err := s.fetchPage(ctx, profileURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch profile: %w", err)
	}

	profile, err := ParseProfile(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch profile: %w", err)
	}
	profile.URL = profileURL
	return profile, nil
}

// fetchHTTP GETs a page, retrying transport errors, 5xx and 429 responses
func (s *Scraper) fetchHTTP(ctx context.Context, pageURL string) (string, error) {
	var body string
	attempt := 0

	operation := func() error {
		attempt++
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("creating request: %w", err))
		}
		req.Header.Set("User-Agent", s.opts.UserAgent)

		resp, err := s.client.Do(req)
		if err != nil {
			return fmt.Errorf("fetching page: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			statusErr := &StatusError{Code: resp.StatusCode}
			if statusErr.retryable() {
				return statusErr
			}
			return backoff.Permanent(statusErr)
		}

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("reading page: %w", err)
		}
		body = string(data)
		return nil
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = s.opts.RetryDelay
	b.MaxElapsedTime = 0
	policy := backoff.WithContext(backoff.WithMaxRetries(b, uint64(s.opts.MaxRetries)), ctx)

	err := backoff.RetryNotify(operation, policy, func(err error, wait time.Duration) {
		logger.IncrCounter("scrape.retries")
		s.log.Warn("retrying page fetch", logger.Fields{
			"url":     pageURL,
			"attempt": attempt,
			"wait":    wait.String(),
			"error":   err.Error(),
		})
	})
	if err != nil {
		return "", err
	}
	return body, nil
}
