package logger

import (
	"sync"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
)

// Metrics tracks operational metrics including counters, gauges, and timings.
// All operations are thread-safe.
//
// Counters track incrementing values (e.g., number of scrape requests).
// Gauges track point-in-time values (e.g., submissions in flight).
// Timings track durations; min/max/total are exact, percentiles come from an
// HDR histogram with 3 significant figures.
type Metrics struct {
	mu       sync.Mutex
	counters map[string]int64
	gauges   map[string]float64
	timings  map[string]*timing
}

type timing struct {
	count int64
	total time.Duration
	min   time.Duration
	max   time.Duration
	hist  *hdrhistogram.Histogram
}

// 1us to 10min
const maxTrackedMicros = int64(10 * time.Minute / time.Microsecond)

func newTiming() *timing {
	return &timing{hist: hdrhistogram.New(1, maxTrackedMicros, 3)}
}

func (t *timing) record(d time.Duration) {
	if t.count == 0 || d < t.min {
		t.min = d
	}
	if d > t.max {
		t.max = d
	}
	t.count++
	t.total += d

	micros := d.Microseconds()
	if micros < 1 {
		micros = 1
	}
	if micros > maxTrackedMicros {
		micros = maxTrackedMicros
	}
	_ = t.hist.RecordValue(micros)
}

func (t *timing) quantile(q float64) time.Duration {
	return time.Duration(t.hist.ValueAtQuantile(q)) * time.Microsecond
}

var defaultMetrics *Metrics

func init() {
	defaultMetrics = NewMetrics()
}

// NewMetrics creates a new metrics tracker with empty counters, gauges, and timings.
func NewMetrics() *Metrics {
	return &Metrics{
		counters: make(map[string]int64),
		gauges:   make(map[string]float64),
		timings:  make(map[string]*timing),
	}
}

// IncrCounter increments a counter by 1. If the counter doesn't exist, it is initialized to 1.
func (m *Metrics) IncrCounter(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counters[name]++
}

// SetGauge sets a gauge to the specified value, overwriting any previous value.
func (m *Metrics) SetGauge(name string, value float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gauges[name] = value
}

// AddGauge adds delta to a gauge, starting from zero
func (m *Metrics) AddGauge(name string, delta float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gauges[name] += delta
}

// RecordTiming records a duration measurement.
func (m *Metrics) RecordTiming(name string, duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, ok := m.timings[name]
	if !ok {
		t = newTiming()
		m.timings[name] = t
	}
	t.record(duration)
}

// GetSnapshot returns a snapshot of all metrics as a map containing:
//   - "counters": map of counter names to values
//   - "gauges": map of gauge names to values
//   - "timings": map of timing names to statistics (count, total, average, min, max, p50, p90, p99)
//
// The snapshot is a deep copy, safe to use concurrently with metric updates.
func (m *Metrics) GetSnapshot() map[string]interface{} {
	m.mu.Lock()
	defer m.mu.Unlock()

	snapshot := make(map[string]interface{})

	counters := make(map[string]int64)
	for k, v := range m.counters {
		counters[k] = v
	}
	snapshot["counters"] = counters

	gauges := make(map[string]float64)
	for k, v := range m.gauges {
		gauges[k] = v
	}
	snapshot["gauges"] = gauges

	timings := make(map[string]map[string]interface{})
	for name, t := range m.timings {
		if t.count == 0 {
			continue
		}

		timings[name] = map[string]interface{}{
			"count":   int(t.count),
			"total":   t.total.String(),
			"average": (t.total / time.Duration(t.count)).String(),
			"min":     t.min.String(),
			"max":     t.max.String(),
			"p50":     t.quantile(50).String(),
			"p90":     t.quantile(90).String(),
			"p99":     t.quantile(99).String(),
		}
	}
	snapshot["timings"] = timings

	return snapshot
}

// Package-level metrics functions using the default metrics tracker

// IncrCounter increments a counter on the default metrics tracker.
func IncrCounter(name string) {
	defaultMetrics.IncrCounter(name)
}

// SetGauge sets a gauge on the default metrics tracker.
func SetGauge(name string, value float64) {
	defaultMetrics.SetGauge(name, value)
}

// AddGauge adjusts a gauge on the default metrics tracker.
func AddGauge(name string, delta float64) {
	defaultMetrics.AddGauge(name, delta)
}

// RecordTiming records a timing on the default metrics tracker.
func RecordTiming(name string, duration time.Duration) {
	defaultMetrics.RecordTiming(name, duration)
}

// DefaultMetrics returns the package-level metrics tracker
func DefaultMetrics() *Metrics {
	return defaultMetrics
}

// GetMetricsSnapshot returns a snapshot of all metrics from the default tracker.
func GetMetricsSnapshot() map[string]interface{} {
	return defaultMetrics.GetSnapshot()
}
