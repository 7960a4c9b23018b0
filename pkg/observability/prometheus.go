package observability

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// histogramBuckets overrides the default buckets for bounded values.
var histogramBuckets = map[string][]float64{
	MetricPrioritizeScore: prometheus.LinearBuckets(0.1, 0.1, 10),
}

// PrometheusMetrics exports Metrics through a private Prometheus registry.
// Collectors are created on first use; the label names of a metric are fixed
// by the tag keys of its first observation.
type PrometheusMetrics struct {
	registry *prometheus.Registry
	factory  promauto.Factory

	mu         sync.Mutex
	counters   map[string]*labeled[*prometheus.CounterVec]
	gauges     map[string]*labeled[*prometheus.GaugeVec]
	histograms map[string]*labeled[*prometheus.HistogramVec]
}

type labeled[V any] struct {
	vec    V
	labels []string
}

// NewPrometheusMetrics creates a collector with Go runtime and process metrics registered.
func NewPrometheusMetrics() *PrometheusMetrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return &PrometheusMetrics{
		registry:   reg,
		factory:    promauto.With(reg),
		counters:   make(map[string]*labeled[*prometheus.CounterVec]),
		gauges:     make(map[string]*labeled[*prometheus.GaugeVec]),
		histograms: make(map[string]*labeled[*prometheus.HistogramVec]),
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *PrometheusMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry returns the underlying registry.
func (m *PrometheusMetrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *PrometheusMetrics) Counter(name string, value int64, tags ...Tag) {
	if value < 0 {
		return
	}
	m.mu.Lock()
	c, ok := m.counters[name]
	if !ok {
		labels := tagKeys(tags)
		c = &labeled[*prometheus.CounterVec]{
			vec: m.factory.NewCounterVec(prometheus.CounterOpts{
				Name: promName(name),
				Help: "Counter " + name,
			}, labels),
			labels: labels,
		}
		m.counters[name] = c
	}
	m.mu.Unlock()

	c.vec.WithLabelValues(labelValues(c.labels, tags)...).Add(float64(value))
}

func (m *PrometheusMetrics) Gauge(name string, value float64, tags ...Tag) {
	m.mu.Lock()
	g, ok := m.gauges[name]
	if !ok {
		labels := tagKeys(tags)
		g = &labeled[*prometheus.GaugeVec]{
			vec: m.factory.NewGaugeVec(prometheus.GaugeOpts{
				Name: promName(name),
				Help: "Gauge " + name,
			}, labels),
			labels: labels,
		}
		m.gauges[name] = g
	}
	m.mu.Unlock()

	g.vec.WithLabelValues(labelValues(g.labels, tags)...).Set(value)
}

func (m *PrometheusMetrics) Histogram(name string, value float64, tags ...Tag) {
	m.histogram(name, promName(name), value, tags)
}

// Timing is recorded in seconds under <name>_seconds.
func (m *PrometheusMetrics) Timing(name string, duration time.Duration, tags ...Tag) {
	m.histogram(name, promName(name)+"_seconds", duration.Seconds(), tags)
}

func (m *PrometheusMetrics) histogram(name, exported string, value float64, tags []Tag) {
	m.mu.Lock()
	h, ok := m.histograms[exported]
	if !ok {
		buckets, custom := histogramBuckets[name]
		if !custom {
			buckets = prometheus.DefBuckets
		}
		labels := tagKeys(tags)
		h = &labeled[*prometheus.HistogramVec]{
			vec: m.factory.NewHistogramVec(prometheus.HistogramOpts{
				Name:    exported,
				Help:    "Histogram " + name,
				Buckets: buckets,
			}, labels),
			labels: labels,
		}
		m.histograms[exported] = h
	}
	m.mu.Unlock()

	h.vec.WithLabelValues(labelValues(h.labels, tags)...).Observe(value)
}

var promNameReplacer = strings.NewReplacer(".", "_", "-", "_")

func promName(name string) string {
	return promNameReplacer.Replace(name)
}

func tagKeys(tags []Tag) []string {
	keys := make([]string, 0, len(tags))
	for _, t := range tags {
		keys = append(keys, promName(t.Key))
	}
	return keys
}

// labelValues orders tag values by the collector's label names. Missing
// labels are empty and unknown tags are dropped.
func labelValues(labels []string, tags []Tag) []string {
	values := make([]string, len(labels))
	for i, l := range labels {
		for _, t := range tags {
			if promName(t.Key) == l {
				values[i] = t.Value
				break
			}
		}
	}
	return values
}

var _ Metrics = (*PrometheusMetrics)(nil)
