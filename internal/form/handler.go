package form

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/pfrederiksen/itra-results/internal/logger"
	"github.com/pfrederiksen/itra-results/internal/runner"
)

// DefaultEndpoint is the scrape endpoint of a locally running server
const DefaultEndpoint = "http://localhost:8080/scrape"

// Options configures a Handler
type Options struct {
	Endpoint   string        // full URL of the scrape endpoint
	Layout     runner.Layout // columns the UI renders
	HTTPClient *http.Client
	Overlap    OverlapPolicy
	Timeout    time.Duration // zero waits for the transport to resolve
	Logger     *logger.Logger
}

// Handler submits URLs to the scrape endpoint and drives a UI through the result
type Handler struct {
	ui     UI
	opts   Options
	client *http.Client
	log    *logger.Logger

	mu       sync.Mutex
	state    State
	seq      uint64
	inFlight int
	cancel   context.CancelFunc
}

// NewHandler creates a handler bound to ui
func NewHandler(ui UI, opts Options) *Handler {
	if opts.Endpoint == "" {
		opts.Endpoint = DefaultEndpoint
	}
	if opts.Layout == "" {
		opts.Layout = runner.LayoutProfile
	}
	if opts.Overlap == "" {
		opts.Overlap = OverlapAllow
	}

	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{}
	}
	log := opts.Logger
	if log == nil {
		log = logger.Default()
	}

	return &Handler{
		ui:     ui,
		opts:   opts,
		client: client,
		log:    log,
		state:  IdleState(),
	}
}

// Layout returns the layout the handler was configured with
func (h *Handler) Layout() runner.Layout {
	return h.opts.Layout
}

// State returns the current UI state
func (h *Handler) State() State {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.state
}

// Pending reports whether a submission is in flight
func (h *Handler) Pending() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.inFlight > 0
}

// transition records the new state and pushes it to the UI. Callers hold h.mu.
func (h *Handler) transition(next State) {
	h.state = next
	apply(h.ui, next)
}

// Submit posts rawURL to the endpoint and renders the outcome. The returned error
// is the failure that was shown, or one of ErrSubmissionPending / ErrSuperseded
// when the overlap policy kept the submission from rendering.
func (h *Handler) Submit(ctx context.Context, rawURL string) error {
	input := strings.TrimSpace(rawURL)

	h.mu.Lock()
	if h.opts.Overlap == OverlapReject && h.inFlight > 0 {
		h.mu.Unlock()
		h.log.Debug("submission rejected", logger.Fields{"url": input})
		return ErrSubmissionPending
	}
	if h.opts.Overlap == OverlapSupersede && h.cancel != nil {
		h.cancel()
	}

	h.seq++
	seq := h.seq
	ctx, cancel := context.WithCancel(ctx)
	h.cancel = cancel
	h.inFlight++
	logger.AddGauge("form.in_flight", 1)
	h.transition(LoadingState())
	h.mu.Unlock()
	defer cancel()

	if h.opts.Timeout > 0 {
		var stop context.CancelFunc
		ctx, stop = context.WithTimeout(ctx, h.opts.Timeout)
		defer stop()
	}

	h.log.Debug("submission started", logger.Fields{"url": input, "endpoint": h.opts.Endpoint, "seq": seq})
	start := time.Now()
	rows, err := h.fetch(ctx, input)
	logger.RecordTiming("form.submit.duration", time.Since(start))

	h.mu.Lock()
	defer h.mu.Unlock()

	h.inFlight--
	logger.AddGauge("form.in_flight", -1)
	if seq == h.seq {
		h.cancel = nil
	}
	if h.opts.Overlap == OverlapSupersede && seq != h.seq {
		h.log.Debug("submission superseded", logger.Fields{"url": input, "seq": seq})
		return ErrSuperseded
	}

	if err != nil {
		logger.IncrCounter("form.submit.failed")
		h.log.Debug("submission failed", logger.Fields{"url": input, "error": err.Error()})
		h.transition(ErrorState(Message(err)))
		return err
	}

	logger.IncrCounter("form.submit.succeeded")
	h.log.Debug("submission completed", logger.Fields{"url": input, "rows": len(rows)})
	h.transition(ResultsState(rows))
	return nil
}

// fetch performs the HTTP exchange and decodes the body
func (h *Handler) fetch(ctx context.Context, input string) (runner.ResultSet, error) {
	body := url.Values{"url": {input}}.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.opts.Endpoint, strings.NewReader(body))
	if err != nil {
		return nil, &NetworkError{Err: fmt.Errorf("creating request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &NetworkError{Err: fmt.Errorf("reading response: %w", err)}
	}

	return decodeResponse(resp.StatusCode, data)
}

// decodeResponse parses the body first, then branches on the status
func decodeResponse(status int, data []byte) (runner.ResultSet, error) {
	var raw json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &ParseError{Err: err}
	}

	if status < 200 || status > 299 {
		return nil, &RequestError{Status: status, Message: errorField(raw)}
	}

	if trimmed := bytes.TrimSpace(raw); len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, &ParseError{Err: errors.New("expected a JSON array of records")}
	}

	var rows runner.ResultSet
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, &ParseError{Err: err}
	}
	if rows == nil {
		rows = runner.ResultSet{}
	}
	return rows, nil
}

// errorField extracts a non-empty string "error" member, falling back to the fixed message.
// Whitespace-only messages are shown as sent.
func errorField(raw json.RawMessage) string {
	var body struct {
		Error json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal(raw, &body); err != nil || len(body.Error) == 0 {
		return FallbackMessage
	}

	var message string
	if err := json.Unmarshal(body.Error, &message); err != nil || message == "" {
		return FallbackMessage
	}
	return message
}
