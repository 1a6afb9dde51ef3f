// Package observabilitytest records logs and metrics in memory for assertions.
package observabilitytest

import (
	"strings"
	"sync"

	"github.com/Zhima-Mochi/minishop-cart/internal/observability"
)

type Entry struct {
	Level  string
	Msg    string
	Fields map[string]any
}

type Recorder struct {
	mu      sync.Mutex
	entries []Entry
	counts  map[string]float64
}

func New() *Recorder {
	return &Recorder{counts: make(map[string]float64)}
}

func (r *Recorder) Tracer() observability.Tracer   { return observability.NopTracer() }
func (r *Recorder) Logger() observability.Logger   { return &logger{r: r} }
func (r *Recorder) Metrics() observability.Metrics { return metrics{r: r} }

// Entries returns log entries with the given message.
func (r *Recorder) Entries(msg string) []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Entry
	for _, e := range r.entries {
		if e.Msg == msg {
			out = append(out, e)
		}
	}
	return out
}

// Count returns the accumulated value of a counter for the exact label set,
// written as "k=v" pairs in the order they were passed.
func (r *Recorder) Count(name observability.MetricKey, labels ...observability.Label) float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.counts[seriesKey(string(name), labels)]
}

func seriesKey(name string, labels []observability.Label) string {
	var b strings.Builder
	b.WriteString(name)
	for _, l := range labels {
		b.WriteString("|" + l.Key + "=" + l.Value)
	}
	return b.String()
}

type logger struct {
	r      *Recorder
	fields []observability.Field
}

func (l *logger) With(fields ...observability.Field) observability.Logger {
	return &logger{r: l.r, fields: append(append([]observability.Field(nil), l.fields...), fields...)}
}

func (l *logger) Debug(msg string, fields ...observability.Field) { l.log("debug", msg, fields) }
func (l *logger) Info(msg string, fields ...observability.Field)  { l.log("info", msg, fields) }
func (l *logger) Warn(msg string, fields ...observability.Field)  { l.log("warn", msg, fields) }
func (l *logger) Error(msg string, fields ...observability.Field) { l.log("error", msg, fields) }

func (l *logger) log(level, msg string, fields []observability.Field) {
	m := make(map[string]any, len(l.fields)+len(fields))
	for _, f := range l.fields {
		m[f.Key] = f.Value
	}
	for _, f := range fields {
		m[f.Key] = f.Value
	}
	l.r.mu.Lock()
	l.r.entries = append(l.r.entries, Entry{Level: level, Msg: msg, Fields: m})
	l.r.mu.Unlock()
}

type metrics struct{ r *Recorder }

func (m metrics) Counter(name observability.MetricKey) observability.Counter {
	return counter{r: m.r, name: string(name)}
}

func (m metrics) Histogram(observability.MetricKey) observability.Histogram {
	return observability.NopHistogram()
}

type counter struct {
	r    *Recorder
	name string
}

func (c counter) Add(delta float64, labels ...observability.Label) {
	c.r.mu.Lock()
	c.r.counts[seriesKey(c.name, labels)] += delta
	c.r.mu.Unlock()
}

func (c counter) Bind(labels ...observability.Label) observability.BoundCounter {
	return boundCounter{c: c, labels: labels}
}

type boundCounter struct {
	c      counter
	labels []observability.Label
}

func (b boundCounter) Add(delta float64) { b.c.Add(delta, b.labels...) }
