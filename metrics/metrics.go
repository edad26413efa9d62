package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const Namespace = "nns"

// HTTPBuckets are latency buckets in seconds. Most requests end with one
// or more contract reads, so they sit well above a plain handler.
var HTTPBuckets = []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10}

// Metrics groups every collector of the service. All methods are safe on a
// nil receiver, which disables recording.
type Metrics struct {
	ContractCalls     *prometheus.CounterVec
	Transactions      *prometheus.CounterVec
	ProfileDegraded   *prometheus.CounterVec
	HTTPRequests      *prometheus.CounterVec
	HTTPRequestTiming *prometheus.HistogramVec
}

func New(registerer prometheus.Registerer) *Metrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	factory := promauto.With(registerer)
	return &Metrics{
		ContractCalls: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "contract_calls_total",
				Help:      "Contract view calls by contract, method and result",
			},
			[]string{"contract", "method", "result"},
		),
		Transactions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "transactions_total",
				Help:      "Submitted transactions by method and final status",
			},
			[]string{"method", "status"},
		),
		ProfileDegraded: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "profile_field_degraded_total",
				Help:      "Text record reads that failed and were rendered as absent",
			},
			[]string{"field"},
		),
		HTTPRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "http_requests_total",
				Help:      "HTTP requests by route template, method and status code",
			},
			[]string{"route", "method", "status_code"},
		),
		HTTPRequestTiming: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: Namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request latency by route template",
				Buckets:   HTTPBuckets,
			},
			[]string{"route"},
		),
	}
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

func (m *Metrics) RecordContractCall(contract, method string, err error) {
	if m == nil {
		return
	}
	m.ContractCalls.WithLabelValues(contract, method, result(err)).Inc()
}

func (m *Metrics) RecordTransaction(method, status string) {
	if m == nil {
		return
	}
	m.Transactions.WithLabelValues(method, status).Inc()
}

func (m *Metrics) RecordProfileDegraded(field string) {
	if m == nil {
		return
	}
	m.ProfileDegraded.WithLabelValues(field).Inc()
}

// RecordRequest takes the route template (/api/names/:name), never the raw
// path, to keep label cardinality bounded.
func (m *Metrics) RecordRequest(route, method string, statusCode int, duration time.Duration) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	m.HTTPRequests.WithLabelValues(route, method, strconv.Itoa(statusCode)).Inc()
	m.HTTPRequestTiming.WithLabelValues(route).Observe(duration.Seconds())
}
