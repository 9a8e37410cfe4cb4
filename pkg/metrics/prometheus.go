// Package metrics provides a Prometheus-backed limiter.MetricsRecorder.
package metrics

import (
	"sort"
	"strings"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Recorder implements limiter.MetricsRecorder on top of Prometheus.
//
// Event names like "ratelimit.call" are exposed as "ratelimit_call".
// Vectors are created on first use and registered against the configured
// registerer; a given event name must always be reported with the same tag
// keys, since Prometheus fixes a metric's label set at registration.
type Recorder struct {
	reg prometheus.Registerer

	mu         sync.Mutex
	counters   map[string]*prometheus.CounterVec
	histograms map[string]*prometheus.HistogramVec
}

// NewRecorder constructs a Recorder. A nil registerer falls back to
// prometheus.DefaultRegisterer.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	return &Recorder{
		reg:        reg,
		counters:   make(map[string]*prometheus.CounterVec),
		histograms: make(map[string]*prometheus.HistogramVec),
	}
}

// Add increments the counter for name by value.
func (r *Recorder) Add(name string, value float64, tags map[string]string) {
	r.mu.Lock()
	vec, ok := r.counters[name]
	if !ok {
		vec = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: metricName(name),
			Help: "Rate limiter counter " + name,
		}, labelNames(tags))
		r.reg.MustRegister(vec)
		r.counters[name] = vec
	}
	r.mu.Unlock()

	vec.With(labels(tags)).Add(value)
}

// Observe records value into the histogram for name.
func (r *Recorder) Observe(name string, value float64, tags map[string]string) {
	r.mu.Lock()
	vec, ok := r.histograms[name]
	if !ok {
		vec = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    metricName(name),
			Help:    "Rate limiter observation " + name,
			Buckets: prometheus.DefBuckets,
		}, labelNames(tags))
		r.reg.MustRegister(vec)
		r.histograms[name] = vec
	}
	r.mu.Unlock()

	vec.With(labels(tags)).Observe(value)
}

func metricName(name string) string {
	return strings.ReplaceAll(name, ".", "_")
}

func labelNames(tags map[string]string) []string {
	names := make([]string, 0, len(tags))
	for k := range tags {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

func labels(tags map[string]string) prometheus.Labels {
	if tags == nil {
		return prometheus.Labels{}
	}
	return prometheus.Labels(tags)
}
