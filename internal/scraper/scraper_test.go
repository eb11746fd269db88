package scraper

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pfrederiksen/itra-results/internal/logger"
)

func newTestScraper(maxRetries int) *Scraper {
	return New(Options{
		MaxRetries: maxRetries,
		RetryDelay: time.Millisecond,
		Logger:     logger.Discard(),
	})
}

func TestFetchResults(t *testing.T) {
	fixture := loadFixture(t, "results_profile.html")

	tests := []struct {
		name         string
		statuses     []int // status per attempt; the last one repeats
		maxRetries   int
		wantError    bool
		wantAttempts int32
		wantRunners  int
	}{
		{
			name:         "successful fetch",
			statuses:     []int{http.StatusOK},
			wantAttempts: 1,
			wantRunners:  3,
		},
		{
			name:         "not found is not retried",
			statuses:     []int{http.StatusNotFound},
			maxRetries:   3,
			wantError:    true,
			wantAttempts: 1,
		},
		{
			name:         "server error then success",
			statuses:     []int{http.StatusServiceUnavailable, http.StatusTooManyRequests, http.StatusOK},
			maxRetries:   3,
			wantAttempts: 3,
			wantRunners:  3,
		},
		{
			name:         "retries exhausted",
			statuses:     []int{http.StatusBadGateway},
			maxRetries:   2,
			wantError:    true,
			wantAttempts: 3,
		},
		{
			name:         "no retries configured",
			statuses:     []int{http.StatusInternalServerError},
			wantError:    true,
			wantAttempts: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var attempts int32
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				n := int(atomic.AddInt32(&attempts, 1))

				if userAgent := r.Header.Get("User-Agent"); !strings.Contains(userAgent, "Mozilla") {
					t.Errorf("User-Agent = %q, should look like a browser", userAgent)
				}

				status := tt.statuses[len(tt.statuses)-1]
				if n <= len(tt.statuses) {
					status = tt.statuses[n-1]
				}
				w.WriteHeader(status)
				if status == http.StatusOK {
					w.Write([]byte(fixture))
				}
			}))
			defer server.Close()

			s := newTestScraper(tt.maxRetries)
			results, err := s.FetchResults(context.Background(), server.URL+"/Races/1")

			if tt.wantError {
				if err == nil {
					t.Fatal("FetchResults() expected error, got nil")
				}
				if !strings.HasPrefix(err.Error(), "failed to scrape results: ") {
					t.Errorf("FetchResults() error = %q, want failed to scrape results prefix", err)
				}
				var statusErr *StatusError
				if !errors.As(err, &statusErr) {
					t.Errorf("FetchResults() error = %v, want *StatusError", err)
				}
			} else {
				if err != nil {
					t.Fatalf("FetchResults() unexpected error: %v", err)
				}
				if len(results) != tt.wantRunners {
					t.Errorf("FetchResults() returned %d runners, want %d", len(results), tt.wantRunners)
				}
				if want := server.URL + "/RunnerSpace/Bouillard.Vincent/1234"; results[0].ProfileLink != want {
					t.Errorf("ProfileLink = %q, want %q", results[0].ProfileLink, want)
				}
			}

			if got := atomic.LoadInt32(&attempts); got != tt.wantAttempts {
				t.Errorf("attempts = %d, want %d", got, tt.wantAttempts)
			}
		})
	}
}

func TestFetchResults_NoTable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body>Maintenance</body></html>`))
	}))
	defer server.Close()

	_, err := newTestScraper(0).FetchResults(context.Background(), server.URL)
	if !errors.Is(err, ErrNoResults) {
		t.Errorf("FetchResults() error = %v, want ErrNoResults", err)
	}
}

func TestFetchResults_TransportError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	endpoint := server.URL
	server.Close()

	_, err := newTestScraper(1).FetchResults(context.Background(), endpoint)
	if err == nil {
		t.Fatal("FetchResults() expected error, got nil")
	}
	if !strings.Contains(err.Error(), "fetching page") {
		t.Errorf("FetchResults() error = %v, want a fetch failure", err)
	}
}

func TestFetchResults_ContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(Options{MaxRetries: 5, RetryDelay: time.Second, Logger: logger.Discard()}).
		FetchResults(ctx, server.URL)
	if err == nil {
		t.Fatal("FetchResults() expected error for a cancelled context")
	}
}

func TestFetchProfile(t *testing.T) {
	fixture := loadFixture(t, "profile.html")
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(fixture))
	}))
	defer server.Close()

	profile, err := newTestScraper(0).FetchProfile(context.Background(), server.URL+"/RunnerSpace/Hoover.Beau/5249134")
	if err != nil {
		t.Fatalf("FetchProfile() error = %v", err)
	}
	if profile.Name != "Beau Hoover" || profile.PerformanceIndex != "712" {
		t.Errorf("FetchProfile() = %+v", profile)
	}
	if !strings.HasSuffix(profile.URL, "/RunnerSpace/Hoover.Beau/5249134") {
		t.Errorf("URL = %q, want the requested URL", profile.URL)
	}
}

func TestNew_Defaults(t *testing.T) {
	s := New(Options{})

	if s.opts.UserAgent != UserAgent {
		t.Errorf("UserAgent = %q, want %q", s.opts.UserAgent, UserAgent)
	}
	if s.opts.Limit != DefaultLimit {
		t.Errorf("Limit = %d, want %d", s.opts.Limit, DefaultLimit)
	}
	if s.client.Timeout != Timeout {
		t.Errorf("client timeout = %v, want %v", s.client.Timeout, Timeout)
	}
}
