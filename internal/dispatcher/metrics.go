package dispatcher

import (
	"cmp"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dshills/mirrorpad/internal/dispatcher/handler"
)

// Metrics counts what a dispatcher did. Totals are lock-free; per-label
// statistics sit behind a mutex.
type Metrics struct {
	dispatches atomic.Uint64
	errors     atomic.Uint64
	panics     atomic.Uint64
	unknown    atomic.Uint64
	publishes  atomic.Uint64
	elapsed    atomic.Int64 // nanoseconds

	mu     sync.Mutex
	labels map[string]*CommandMetrics
}

// CommandMetrics holds the statistics of one command label.
type CommandMetrics struct {
	Label         string
	DispatchCount uint64
	ErrorCount    uint64
	NoOpCount     uint64
	CancelCount   uint64
	MutationCount uint64
	TotalDuration time.Duration
	MinDuration   time.Duration
	MaxDuration   time.Duration
	LastStatus    handler.ResultStatus
	LastDispatch  time.Time
}

// NewMetrics creates an empty collector.
func NewMetrics() *Metrics {
	return &Metrics{labels: make(map[string]*CommandMetrics)}
}

// RecordDispatch records a handled command.
func (m *Metrics) RecordDispatch(label string, d time.Duration, result handler.Result) {
	m.dispatches.Add(1)
	m.elapsed.Add(int64(d))
	if result.IsError() {
		m.errors.Add(1)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	cm, ok := m.labels[label]
	if !ok {
		cm = &CommandMetrics{Label: label, MinDuration: d}
		m.labels[label] = cm
	}
	cm.DispatchCount++
	cm.TotalDuration += d
	cm.MinDuration = min(cm.MinDuration, d)
	cm.MaxDuration = max(cm.MaxDuration, d)
	cm.LastStatus = result.Status
	cm.LastDispatch = time.Now()

	switch result.Status {
	case handler.StatusError:
		cm.ErrorCount++
	case handler.StatusNoOp:
		cm.NoOpCount++
	case handler.StatusCancelled:
		cm.CancelCount++
	}
	if result.Mutated {
		cm.MutationCount++
	}
}

// RecordPanic records a recovered handler panic.
func (m *Metrics) RecordPanic(string) { m.panics.Add(1) }

// RecordUnknown records a label no handler claimed.
func (m *Metrics) RecordUnknown() { m.unknown.Add(1) }

// RecordPublish records a change notification sent to subscribers.
func (m *Metrics) RecordPublish() { m.publishes.Add(1) }

func (m *Metrics) TotalDispatches() uint64 { return m.dispatches.Load() }
func (m *Metrics) TotalErrors() uint64     { return m.errors.Load() }
func (m *Metrics) TotalPanics() uint64     { return m.panics.Load() }
func (m *Metrics) TotalUnknown() uint64    { return m.unknown.Load() }
func (m *Metrics) TotalPublishes() uint64  { return m.publishes.Load() }

// AverageDuration is the mean time spent per handled command.
func (m *Metrics) AverageDuration() time.Duration {
	n := m.dispatches.Load()
	if n == 0 {
		return 0
	}
	return time.Duration(m.elapsed.Load() / int64(n))
}

// CommandStats returns a copy of the statistics for label, or nil if the
// label was never handled.
func (m *Metrics) CommandStats(label string) *CommandMetrics {
	m.mu.Lock()
	defer m.mu.Unlock()

	cm, ok := m.labels[label]
	if !ok {
		return nil
	}
	c := *cm
	return &c
}

// TopCommands returns copies of the n most dispatched labels. Ties are
// ordered by label.
func (m *Metrics) TopCommands(n int) []*CommandMetrics {
	m.mu.Lock()
	all := make([]*CommandMetrics, 0, len(m.labels))
	for _, cm := range m.labels {
		c := *cm
		all = append(all, &c)
	}
	m.mu.Unlock()

	slices.SortFunc(all, func(a, b *CommandMetrics) int {
		if c := cmp.Compare(b.DispatchCount, a.DispatchCount); c != 0 {
			return c
		}
		return cmp.Compare(a.Label, b.Label)
	})
	return all[:min(n, len(all))]
}

// Reset zeroes every counter.
func (m *Metrics) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.labels = make(map[string]*CommandMetrics)
	for _, c := range []*atomic.Uint64{&m.dispatches, &m.errors, &m.panics, &m.unknown, &m.publishes} {
		c.Store(0)
	}
	m.elapsed.Store(0)
}

// MetricsSnapshot is a point-in-time copy of the totals.
type MetricsSnapshot struct {
	TotalDispatches uint64
	TotalErrors     uint64
	TotalPanics     uint64
	TotalUnknown    uint64
	TotalPublishes  uint64
	AverageDuration time.Duration
	CommandCount    int
	Timestamp       time.Time
}

// Snapshot copies the current totals.
func (m *Metrics) Snapshot() MetricsSnapshot {
	m.mu.Lock()
	count := len(m.labels)
	m.mu.Unlock()

	return MetricsSnapshot{
		TotalDispatches: m.TotalDispatches(),
		TotalErrors:     m.TotalErrors(),
		TotalPanics:     m.TotalPanics(),
		TotalUnknown:    m.TotalUnknown(),
		TotalPublishes:  m.TotalPublishes(),
		AverageDuration: m.AverageDuration(),
		CommandCount:    count,
		Timestamp:       time.Now(),
	}
}

func (cm *CommandMetrics) AverageDuration() time.Duration {
	if cm.DispatchCount == 0 {
		return 0
	}
	return cm.TotalDuration / time.Duration(cm.DispatchCount)
}

// ErrorRate is the percentage of dispatches that failed.
func (cm *CommandMetrics) ErrorRate() float64 {
	if cm.DispatchCount == 0 {
		return 0
	}
	return float64(cm.ErrorCount) / float64(cm.DispatchCount) * 100
}
