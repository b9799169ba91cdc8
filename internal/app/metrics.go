package app

import (
	"sort"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dshills/mdinput/internal/engine"
)

// Metrics counts editor operations and times event handling and drawing.
type Metrics struct {
	mu  sync.RWMutex
	ops map[engine.ChangeKind]uint64

	failures atomic.Uint64

	// Event processing
	eventCount   atomic.Uint64
	eventTotalNs atomic.Int64
	eventMaxNs   atomic.Int64

	// Render timing
	renderCount   atomic.Uint64
	renderTotalNs atomic.Int64

	startTime time.Time
}

// NewMetrics creates a new metrics tracker.
func NewMetrics() *Metrics {
	return &Metrics{
		ops:       make(map[engine.ChangeKind]uint64),
		startTime: time.Now(),
	}
}

// RecordOperation counts one applied editor change.
func (m *Metrics) RecordOperation(kind engine.ChangeKind) {
	m.mu.Lock()
	m.ops[kind]++
	m.mu.Unlock()
}

// RecordFailure counts an operation that returned an error.
func (m *Metrics) RecordFailure() {
	m.failures.Add(1)
}

// RecordEvent records event processing timing.
func (m *Metrics) RecordEvent(duration time.Duration) {
	ns := duration.Nanoseconds()
	m.eventCount.Add(1)
	m.eventTotalNs.Add(ns)

	for {
		old := m.eventMaxNs.Load()
		if ns <= old || m.eventMaxNs.CompareAndSwap(old, ns) {
			break
		}
	}
}

// RecordRender records render timing.
func (m *Metrics) RecordRender(duration time.Duration) {
	m.renderCount.Add(1)
	m.renderTotalNs.Add(duration.Nanoseconds())
}

// Snapshot returns a snapshot of current metrics.
func (m *Metrics) Snapshot() MetricsSnapshot {
	m.mu.RLock()
	ops := make(map[string]uint64, len(m.ops))
	for kind, n := range m.ops {
		ops[kind.String()] = n
	}
	m.mu.RUnlock()

	eventCount := m.eventCount.Load()
	var avgEventNs int64
	if eventCount > 0 {
		avgEventNs = m.eventTotalNs.Load() / int64(eventCount)
	}
	renderCount := m.renderCount.Load()
	var avgRenderNs int64
	if renderCount > 0 {
		avgRenderNs = m.renderTotalNs.Load() / int64(renderCount)
	}

	return MetricsSnapshot{
		Uptime:      time.Since(m.startTime),
		Operations:  ops,
		Failures:    m.failures.Load(),
		EventCount:  eventCount,
		AvgEventNs:  avgEventNs,
		MaxEventNs:  m.eventMaxNs.Load(),
		RenderCount: renderCount,
		AvgRenderNs: avgRenderNs,
	}
}

// MetricsSnapshot is a point-in-time view of metrics.
type MetricsSnapshot struct {
	Uptime      time.Duration
	Operations  map[string]uint64
	Failures    uint64
	EventCount  uint64
	AvgEventNs  int64
	MaxEventNs  int64
	RenderCount uint64
	AvgRenderNs int64
}

// OperationSummary formats the operation counts as "kind=n" pairs sorted
// by kind.
func (s MetricsSnapshot) OperationSummary() string {
	kinds := make([]string, 0, len(s.Operations))
	for k := range s.Operations {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)

	var b strings.Builder
	for i, k := range kinds {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(strconv.FormatUint(s.Operations[k], 10))
	}
	return b.String()
}
