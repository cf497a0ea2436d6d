package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors for the service. A nil *Metrics
// is valid and records nothing.
type Metrics struct {
	HTTPRequests        *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	CandidateOperations *prometheus.CounterVec
	EventPublishFailed  prometheus.Counter
}

// New creates and registers all collectors on reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "ats_http_requests_total",
			Help: "Total HTTP requests by method, route and status code",
		}, []string{"method", "route", "status"}),

		HTTPRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "ats_http_request_duration_seconds",
			Help:    "HTTP request latency by method and route",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"method", "route"}),

		CandidateOperations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "ats_candidate_operations_total",
			Help: "Candidate use-case invocations by operation and result",
		}, []string{"op", "result"}),

		EventPublishFailed: factory.NewCounter(prometheus.CounterOpts{
			Name: "ats_candidate_events_failed_total",
			Help: "Candidate lifecycle events that could not be published",
		}),
	}
}

func (m *Metrics) ObserveHTTPRequest(method, route, status string, d time.Duration) {
	if m != nil {
		m.HTTPRequests.WithLabelValues(method, route, status).Inc()
		m.HTTPRequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
	}
}

// IncrementOperation records one use-case call; result is "ok" or an error class.
func (m *Metrics) IncrementOperation(op, result string) {
	if m != nil {
		m.CandidateOperations.WithLabelValues(op, result).Inc()
	}
}

func (m *Metrics) IncrementEventPublishFailed() {
	if m != nil {
		m.EventPublishFailed.Inc()
	}
}
