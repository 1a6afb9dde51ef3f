package observability

// MetricKey names a metric registered up front by the metrics adapter.
type MetricKey string

const (
	MUsecaseRequests     MetricKey = "usecase_requests_total"
	MUsecaseDuration     MetricKey = "usecase_duration_seconds"
	MHTTPRequests        MetricKey = "http_requests_total"
	MHTTPRequestDuration MetricKey = "http_request_duration_seconds"
	MStoreTransactions   MetricKey = "store_transactions_total"
)

// Metrics resolves registered metrics by key. Unknown keys resolve to no-ops.
type Metrics interface {
	Counter(name MetricKey) Counter
	Histogram(name MetricKey) Histogram
}

type Counter interface {
	Add(delta float64, labels ...Label)
	Bind(labels ...Label) BoundCounter
}

// BoundCounter is a Counter with its label values fixed.
type BoundCounter interface {
	Add(delta float64)
}

type Histogram interface {
	Observe(value float64, labels ...Label)
	Bind(labels ...Label) BoundHistogram
}

type BoundHistogram interface {
	Observe(value float64)
}

// Label is a metric label. Keep values low-cardinality: route templates, not paths.
type Label struct{ Key, Value string }

func L(k, v string) Label { return Label{Key: k, Value: v} }
