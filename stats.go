package main

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
	"go.uber.org/atomic"
)

const (
	minTrackableLatency = int64(time.Microsecond)
	maxTrackableLatency = int64(time.Minute)
)

// Stats keeps the run summary. Counters are read by the /stats handler while
// the driver loop writes them.
type Stats struct {
	requests  atomic.Uint64
	successes atomic.Uint64
	failures  atomic.Uint64

	mu      sync.Mutex
	latency *hdrhistogram.Histogram
}

type StatsSnapshot struct {
	Requests  uint64  `json:"requests"`
	Successes uint64  `json:"successes"`
	Failures  uint64  `json:"failures"`
	P50Ms     float64 `json:"p50_ms"`
	P90Ms     float64 `json:"p90_ms"`
	P99Ms     float64 `json:"p99_ms"`
	MaxMs     float64 `json:"max_ms"`
}

func NewStats() *Stats {
	return &Stats{
		latency: hdrhistogram.New(minTrackableLatency, maxTrackableLatency, 3),
	}
}

func (s *Stats) Record(elapsed time.Duration, err error) {
	s.requests.Inc()
	if err != nil {
		s.failures.Inc()
	} else {
		s.successes.Inc()
	}

	v := int64(elapsed)
	if v < minTrackableLatency {
		v = minTrackableLatency
	}
	if v > maxTrackableLatency {
		v = maxTrackableLatency
	}

	s.mu.Lock()
	_ = s.latency.RecordValue(v)
	s.mu.Unlock()
}

func (s *Stats) Snapshot() StatsSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	return StatsSnapshot{
		Requests:  s.requests.Load(),
		Successes: s.successes.Load(),
		Failures:  s.failures.Load(),
		P50Ms:     nanosToMs(s.latency.ValueAtQuantile(50)),
		P90Ms:     nanosToMs(s.latency.ValueAtQuantile(90)),
		P99Ms:     nanosToMs(s.latency.ValueAtQuantile(99)),
		MaxMs:     nanosToMs(s.latency.Max()),
	}
}

func (s *Stats) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(s.Snapshot())
}

func nanosToMs(v int64) float64 {
	return float64(v) / float64(time.Millisecond)
}
