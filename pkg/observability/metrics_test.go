package observability

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNoopMetrics(t *testing.T) {
	var m Metrics = NoopMetrics{}

	assert.NotPanics(t, func() {
		m.Counter(MetricPrioritizeRequests, 1)
		m.Gauge(MetricPrioritizeScore, 0.5)
		m.Histogram(MetricPrioritizeScore, 0.5)
		m.Timing(MetricOperationDuration, time.Second)
	})
}

func TestInMemoryMetrics(t *testing.T) {
	t.Run("counters accumulate per series", func(t *testing.T) {
		m := NewInMemoryMetrics()

		m.Counter(MetricHTTPRequests, 1, T("route", "prioritize"))
		m.Counter(MetricHTTPRequests, 2, T("route", "prioritize"))
		m.Counter(MetricHTTPRequests, 1, T("route", "score"))

		assert.Equal(t, int64(3), m.GetCounter(MetricHTTPRequests, T("route", "prioritize")))
		assert.Equal(t, int64(1), m.GetCounter(MetricHTTPRequests, T("route", "score")))
		assert.Zero(t, m.GetCounter(MetricHTTPRequests))
	})

	t.Run("tag order does not matter", func(t *testing.T) {
		m := NewInMemoryMetrics()

		m.Counter(MetricEventsConsumed, 1, T("routing_key", "a.b"), T("outcome", "acked"))

		assert.Equal(t, int64(1), m.GetCounter(MetricEventsConsumed, T("outcome", "acked"), T("routing_key", "a.b")))
	})

	t.Run("gauges keep the last value", func(t *testing.T) {
		m := NewInMemoryMetrics()

		m.Gauge("last_top_score", 0.4)
		m.Gauge("last_top_score", 0.9)

		assert.Equal(t, 0.9, m.GetGauge("last_top_score"))
	})

	t.Run("histograms and timings record every value", func(t *testing.T) {
		m := NewInMemoryMetrics()

		m.Histogram(MetricPrioritizeScore, 0.2)
		m.Histogram(MetricPrioritizeScore, 0.8)
		m.Timing(MetricDBQueryDuration, 3*time.Millisecond)

		assert.Equal(t, []float64{0.2, 0.8}, m.GetHistogram(MetricPrioritizeScore))
		assert.Equal(t, []time.Duration{3 * time.Millisecond}, m.GetTimings(MetricDBQueryDuration))
	})

	t.Run("getters return copies", func(t *testing.T) {
		m := NewInMemoryMetrics()
		m.Histogram(MetricPrioritizeScore, 0.2)

		values := m.GetHistogram(MetricPrioritizeScore)
		values[0] = 99

		assert.Equal(t, []float64{0.2}, m.GetHistogram(MetricPrioritizeScore))
	})

	t.Run("safe for concurrent use", func(t *testing.T) {
		m := NewInMemoryMetrics()
		var wg sync.WaitGroup
		for range 50 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				m.Counter(MetricPrioritizeTasks, 1)
				m.Histogram(MetricPrioritizeScore, 0.5)
			}()
		}
		wg.Wait()

		assert.Equal(t, int64(50), m.GetCounter(MetricPrioritizeTasks))
		assert.Len(t, m.GetHistogram(MetricPrioritizeScore), 50)
	})
}

func TestSeriesKey(t *testing.T) {
	tests := []struct {
		name     string
		tags     []Tag
		expected string
	}{
		{"no tags", nil, "requests"},
		{"single tag", []Tag{T("route", "score")}, "requests{route=score}"},
		{"sorted by key", []Tag{T("status", "OK"), T("route", "score")}, "requests{route=score,status=OK}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, seriesKey("requests", tt.tags))
		})
	}
}

func TestMetricConstants(t *testing.T) {
	names := []string{
		MetricOperationTotal, MetricOperationDuration, MetricOperationErrors,
		MetricPrioritizeRequests, MetricPrioritizeTasks, MetricPrioritizeScore,
		MetricPrioritizeUrgent, MetricPrioritizeOverdue,
		MetricContextFallbacks, MetricAdjustmentFallbacks, MetricBreakerTransitions,
		MetricDBQueries, MetricDBQueryDuration,
		MetricEventsPublished, MetricEventsFailed, MetricEventsConsumed,
		MetricHTTPRequests, MetricHTTPRateLimited,
	}

	seen := make(map[string]bool)
	for _, name := range names {
		assert.True(t, strings.HasPrefix(name, ServiceName+"."), name)
		assert.False(t, seen[name], "duplicate metric name %s", name)
		seen[name] = true
	}
}
