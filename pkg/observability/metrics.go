package observability

import (
	"slices"
	"strings"
	"sync"
	"time"
)

// Metrics provides an interface for recording application metrics.
type Metrics interface {
	// Counter increments a counter metric.
	Counter(name string, value int64, tags ...Tag)

	// Gauge sets a gauge metric to the given value.
	Gauge(name string, value float64, tags ...Tag)

	// Histogram records a value in a histogram.
	Histogram(name string, value float64, tags ...Tag)

	// Timing records a duration.
	Timing(name string, duration time.Duration, tags ...Tag)
}

// Tag represents a key-value pair for metric labeling.
type Tag struct {
	Key   string
	Value string
}

// T creates a new Tag.
func T(key, value string) Tag {
	return Tag{Key: key, Value: value}
}

// NoopMetrics is a no-op implementation of Metrics.
type NoopMetrics struct{}

func (NoopMetrics) Counter(name string, value int64, tags ...Tag)           {}
func (NoopMetrics) Gauge(name string, value float64, tags ...Tag)           {}
func (NoopMetrics) Histogram(name string, value float64, tags ...Tag)       {}
func (NoopMetrics) Timing(name string, duration time.Duration, tags ...Tag) {}

// InMemoryMetrics records every observation for assertions in tests and for
// the CLI when no exporter is configured. Tag order does not matter.
type InMemoryMetrics struct {
	mu         sync.RWMutex
	counters   map[string]int64
	gauges     map[string]float64
	histograms map[string][]float64
	timings    map[string][]time.Duration
}

func NewInMemoryMetrics() *InMemoryMetrics {
	return &InMemoryMetrics{
		counters:   make(map[string]int64),
		gauges:     make(map[string]float64),
		histograms: make(map[string][]float64),
		timings:    make(map[string][]time.Duration),
	}
}

func (m *InMemoryMetrics) Counter(name string, value int64, tags ...Tag) {
	m.mu.Lock()
	m.counters[seriesKey(name, tags)] += value
	m.mu.Unlock()
}

func (m *InMemoryMetrics) Gauge(name string, value float64, tags ...Tag) {
	m.mu.Lock()
	m.gauges[seriesKey(name, tags)] = value
	m.mu.Unlock()
}

func (m *InMemoryMetrics) Histogram(name string, value float64, tags ...Tag) {
	m.mu.Lock()
	key := seriesKey(name, tags)
	m.histograms[key] = append(m.histograms[key], value)
	m.mu.Unlock()
}

func (m *InMemoryMetrics) Timing(name string, duration time.Duration, tags ...Tag) {
	m.mu.Lock()
	key := seriesKey(name, tags)
	m.timings[key] = append(m.timings[key], duration)
	m.mu.Unlock()
}

func (m *InMemoryMetrics) GetCounter(name string, tags ...Tag) int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.counters[seriesKey(name, tags)]
}

func (m *InMemoryMetrics) GetGauge(name string, tags ...Tag) float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.gauges[seriesKey(name, tags)]
}

// GetHistogram returns a copy of the observed values.
func (m *InMemoryMetrics) GetHistogram(name string, tags ...Tag) []float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.histograms[seriesKey(name, tags)])
}

// GetTimings returns a copy of the observed durations.
func (m *InMemoryMetrics) GetTimings(name string, tags ...Tag) []time.Duration {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.timings[seriesKey(name, tags)])
}

// seriesKey renders name{k=v,...} with tags sorted by key.
func seriesKey(name string, tags []Tag) string {
	if len(tags) == 0 {
		return name
	}
	sorted := slices.Clone(tags)
	slices.SortStableFunc(sorted, func(a, b Tag) int { return strings.Compare(a.Key, b.Key) })

	var b strings.Builder
	b.WriteString(name)
	b.WriteByte('{')
	for i, t := range sorted {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(t.Key)
		b.WriteByte('=')
		b.WriteString(t.Value)
	}
	b.WriteByte('}')
	return b.String()
}

// Standard metric names used throughout TaskTuner.
const (
	// Operation metrics
	MetricOperationTotal    = "tasktuner.operation.total"
	MetricOperationDuration = "tasktuner.operation.duration"
	MetricOperationErrors   = "tasktuner.operation.errors"

	// Prioritization metrics
	MetricPrioritizeRequests = "tasktuner.prioritize.requests"
	MetricPrioritizeTasks    = "tasktuner.prioritize.tasks"
	MetricPrioritizeScore    = "tasktuner.prioritize.score"
	MetricPrioritizeUrgent   = "tasktuner.prioritize.urgent"
	MetricPrioritizeOverdue  = "tasktuner.prioritize.overdue"

	// Collaborator fallbacks
	MetricContextFallbacks    = "tasktuner.context.fallbacks"
	MetricAdjustmentFallbacks = "tasktuner.adjustment.fallbacks"
	MetricBreakerTransitions  = "tasktuner.adjustment.breaker_transitions"

	// Store metrics
	MetricDBQueries       = "tasktuner.db.queries"
	MetricDBQueryDuration = "tasktuner.db.query_duration"

	// Event bus metrics
	MetricEventsPublished = "tasktuner.events.published"
	MetricEventsFailed    = "tasktuner.events.failed"
	MetricEventsConsumed  = "tasktuner.events.consumed"

	// HTTP metrics
	MetricHTTPRequests    = "tasktuner.http.requests"
	MetricHTTPRateLimited = "tasktuner.http.rate_limited"
)
