package server

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/pfrederiksen/itra-results/internal/logger"
)

type contextKey struct{}

// RequestIDHeader carries the request ID on responses, and on requests when the
// caller already assigned one
const RequestIDHeader = "X-Request-ID"

func requestID(ctx context.Context) string {
	id, _ := ctx.Value(contextKey{}).(string)
	return id
}

// statusRecorder remembers the status code written by a handler
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// withRequestLogging assigns a request ID and logs one line per request
func (s *Server) withRequestLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.New().String()
		}
		w.Header().Set(RequestIDHeader, id)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r.WithContext(context.WithValue(r.Context(), contextKey{}, id)))

		elapsed := time.Since(start)
		s.metrics.IncrCounter("http.requests")
		s.metrics.RecordTiming("http.request.duration", elapsed)
		s.log.Info("request", logger.Fields{
			"request_id": id,
			"method":     r.Method,
			"path":       r.URL.Path,
			"status":     rec.status,
			"duration":   elapsed.String(),
		})
	})
}
