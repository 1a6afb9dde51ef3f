package observability

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/Zhima-Mochi/minishop-cart/internal/infrastructure/observability/prometrics"
	"github.com/Zhima-Mochi/minishop-cart/internal/observability"
)

type provider struct {
	tracer  observability.Tracer
	logger  observability.Logger
	metrics observability.Metrics
}

type registeredMetrics struct {
	counters   map[observability.MetricKey]observability.Counter
	histograms map[observability.MetricKey]observability.Histogram
}

func (m *registeredMetrics) Counter(name observability.MetricKey) observability.Counter {
	if m == nil || m.counters == nil {
		return observability.NopCounter()
	}
	if c, ok := m.counters[name]; ok && c != nil {
		return c
	}
	return observability.NopCounter()
}

func (m *registeredMetrics) Histogram(name observability.MetricKey) observability.Histogram {
	if m == nil || m.histograms == nil {
		return observability.NopHistogram()
	}
	if h, ok := m.histograms[name]; ok && h != nil {
		return h
	}
	return observability.NopHistogram()
}

type counterSpec struct {
	key    observability.MetricKey
	help   string
	labels []string
}

type histogramSpec struct {
	key     observability.MetricKey
	help    string
	buckets []float64
	labels  []string
}

var (
	counterSpecs = []counterSpec{
		{observability.MUsecaseRequests, "Total number of use case invocations.", []string{"use_case", "outcome"}},
		{observability.MHTTPRequests, "Total number of HTTP requests.", []string{"method", "route", "status"}},
		{observability.MStoreTransactions, "Units of work by outcome.", []string{"outcome"}},
	}
	histogramSpecs = []histogramSpec{
		{observability.MUsecaseDuration, "Duration of use case execution in seconds.", prometheus.DefBuckets, []string{"use_case"}},
		{observability.MHTTPRequestDuration, "Duration of HTTP requests in seconds.", prometheus.DefBuckets, []string{"method", "route", "status"}},
	}
)

// New assembles an Observability provider. Every metric the application
// emits is registered on reg up front; a nil reg disables metrics.
func New(
	tracer observability.Tracer,
	logger observability.Logger,
	reg prometrics.Registry,
) observability.Observability {
	if tracer == nil {
		tracer = observability.NopTracer()
	}
	if logger == nil {
		logger = observability.NopLogger()
	}

	var metrics observability.Metrics = observability.NopMetrics()
	if reg != nil {
		m := &registeredMetrics{
			counters:   make(map[observability.MetricKey]observability.Counter, len(counterSpecs)),
			histograms: make(map[observability.MetricKey]observability.Histogram, len(histogramSpecs)),
		}
		for _, s := range counterSpecs {
			m.counters[s.key] = reg.Counter(string(s.key), s.help, s.labels...)
		}
		for _, s := range histogramSpecs {
			m.histograms[s.key] = reg.Histogram(string(s.key), s.help, s.buckets, s.labels...)
		}
		metrics = m
	}

	return &provider{
		tracer:  tracer,
		logger:  logger,
		metrics: metrics,
	}
}

func (p *provider) Tracer() observability.Tracer {
	return p.tracer
}

func (p *provider) Logger() observability.Logger {
	return p.logger
}

func (p *provider) Metrics() observability.Metrics {
	if p.metrics == nil {
		return observability.NopMetrics()
	}
	return p.metrics
}
