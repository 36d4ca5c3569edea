package metrics

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

// RunMetrics times the phases of a conflict analysis run.
type RunMetrics struct {
	mu sync.RWMutex

	TotalStartTime time.Time `json:"-"`
	TotalLatencyMs float64   `json:"totalLatencyMs"`

	PlanID       string `json:"planId"`
	ObjectCount  int    `json:"objectCount"`
	FindingCount int    `json:"findingCount"`
	WrittenCount int    `json:"writtenCount"`
	Cancelled    bool   `json:"cancelled"`

	phaseStarts map[string]time.Time
	Timings     map[string]float64 `json:"timings"`
}

// NewRunMetrics starts timing a run over the given plan.
func NewRunMetrics(planID string) *RunMetrics {
	return &RunMetrics{
		TotalStartTime: time.Now(),
		PlanID:         planID,
		phaseStarts:    make(map[string]time.Time),
		Timings:        make(map[string]float64),
	}
}

// StartPhase marks the start of a named phase.
func (m *RunMetrics) StartPhase(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.phaseStarts[name] = time.Now()
}

// EndPhase records the latency of a phase started with StartPhase.
func (m *RunMetrics) EndPhase(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if start, ok := m.phaseStarts[name]; ok {
		m.Timings[name] = float64(time.Since(start).Microseconds()) / 1000.0
		delete(m.phaseStarts, name)
	}
}

// RecordPhase stores an externally measured phase duration.
func (m *RunMetrics) RecordPhase(name string, d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Timings[name] = float64(d.Microseconds()) / 1000.0
}

// Finalize stops the total timer.
func (m *RunMetrics) Finalize() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.TotalLatencyMs = float64(time.Since(m.TotalStartTime).Microseconds()) / 1000.0
}

// Duration returns the total run time once finalized.
func (m *RunMetrics) Duration() time.Duration {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return time.Duration(m.TotalLatencyMs * float64(time.Millisecond))
}

// GetSummary returns a one-line human readable summary.
func (m *RunMetrics) GetSummary() string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, 0, len(m.Timings))
	for name := range m.Timings {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s=%.2fms", name, m.Timings[name]))
	}

	return fmt.Sprintf("Analysis of plan %s: %d objects, %d findings, %d written, total %.2f ms [%s]",
		m.PlanID, m.ObjectCount, m.FindingCount, m.WrittenCount, m.TotalLatencyMs, strings.Join(parts, " "))
}
