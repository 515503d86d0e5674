package monitor

import (
	"math"
	"sync"
	"time"
)

// Outcome classifies a finished invocation.
type Outcome string

const (
	OutcomeResolved  Outcome = "resolved"
	OutcomeEscalated Outcome = "escalated"
	OutcomeError     Outcome = "error"
)

// Metrics aggregates runner counters. It is safe for concurrent use.
// Errors are counted apart from resolved and escalated invocations, so
// resolved+escalated equals total only while no invocation has failed.
type Metrics struct {
	mu        sync.Mutex
	total     int64
	resolved  int64
	escalated int64
	failed    int64
	latencies []float64
}

// Snapshot is the exported view of the counters.
type Snapshot struct {
	TotalQueries        int64   `json:"total_queries"`
	ResolutionRate      float64 `json:"resolution_rate"`
	EscalationRate      float64 `json:"escalation_rate"`
	AverageResponseTime float64 `json:"average_response_time"`
	Resolved            int64   `json:"resolved"`
	Escalated           int64   `json:"escalated"`
	ErrorCount          int64   `json:"error_count"`
}

// NewMetrics returns empty counters.
func NewMetrics() *Metrics {
	return &Metrics{}
}

// Begin counts a new invocation.
func (m *Metrics) Begin() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.total++
}

// Record stores the outcome of an invocation. Latency is kept only for
// invocations that produced a reply.
func (m *Metrics) Record(outcome Outcome, latency time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	switch outcome {
	case OutcomeResolved:
		m.resolved++
		m.latencies = append(m.latencies, latency.Seconds())
	case OutcomeEscalated:
		m.escalated++
		m.latencies = append(m.latencies, latency.Seconds())
	case OutcomeError:
		m.failed++
	}
}

// Snapshot computes rates as percentages of all invocations and the mean
// latency in seconds rounded to two decimals. Empty counters yield zeros.
func (m *Metrics) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	snap := Snapshot{
		TotalQueries: m.total,
		Resolved:     m.resolved,
		Escalated:    m.escalated,
		ErrorCount:   m.failed,
	}
	if m.total > 0 {
		snap.ResolutionRate = float64(m.resolved) / float64(m.total) * 100
		snap.EscalationRate = float64(m.escalated) / float64(m.total) * 100
	}
	if len(m.latencies) > 0 {
		var sum float64
		for _, l := range m.latencies {
			sum += l
		}
		snap.AverageResponseTime = math.Round(sum/float64(len(m.latencies))*100) / 100
	}
	return snap
}
