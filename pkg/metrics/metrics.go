// Package metrics provides Prometheus instrumentation for idbridge.
//
// idbridge runs once per orchestrator call, so nothing is scraped. Metrics are
// collected in the default registry during the invocation and, when the CLI
// is given --metrics-file, written out in the text exposition format for a
// node_exporter textfile collector to pick up.
//
// # Basic Usage
//
//	timer := metrics.NewTimer("itop", "get")
//	lookup, err := connector.GetPerson(ctx, id)
//	timer.ObserveResult(err)
//
//	if path != "" {
//	    _ = metrics.WriteTextfile(path)
//	}
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	// ResultSuccess labels operations that completed without error
	ResultSuccess = "success"
	// ResultFailure labels operations that returned an error
	ResultFailure = "failure"
)

var (
	// Operations counts connector operations.
	// Labels: system (connector name), operation (create/get/...), result (success/failure)
	//
	// Example:
	//	metrics.Operations.WithLabelValues("itop", "create", metrics.ResultSuccess).Inc()
	Operations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "idbridge_operations_total",
			Help: "Total number of connector operations",
		},
		[]string{"system", "operation", "result"},
	)

	// OperationLatency tracks the distribution of connector operation latencies in seconds.
	// Labels: system, operation
	OperationLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "idbridge_operation_duration_seconds",
			Help: "Connector operation latency in seconds",
			Buckets: []float64{
				0.01, // 10ms - local backends
				0.05,
				0.1,
				0.25,
				0.5,
				1,
				2.5,
				5,
				10,
				30, // request timeout
			},
		},
		[]string{"system", "operation"},
	)

	// BackendErrors counts backend-reported error codes.
	// Labels: system, code
	BackendErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "idbridge_backend_errors_total",
			Help: "Total number of errors reported by the backend, by code",
		},
		[]string{"system", "code"},
	)

	// HTTPRequests counts outbound HTTP requests.
	// Labels: method, host, status (HTTP status code or "error")
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "idbridge_http_requests_total",
			Help: "Total number of outbound HTTP requests",
		},
		[]string{"method", "host", "status"},
	)

	// HTTPLatency tracks outbound HTTP request latency in seconds.
	// Labels: method, host
	HTTPLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "idbridge_http_request_duration_seconds",
			Help:    "Outbound HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "host"},
	)
)

// Timer measures one connector operation and records it on completion.
type Timer struct {
	start     time.Time
	system    string
	operation string
}

// NewTimer creates a new timer and starts timing immediately.
func NewTimer(system, operation string) *Timer {
	return &Timer{
		start:     time.Now(),
		system:    system,
		operation: operation,
	}
}

// Stop returns the elapsed duration since creation without recording it.
func (t *Timer) Stop() time.Duration {
	return time.Since(t.start)
}

// ObserveResult records latency and the operation outcome. err may be nil.
func (t *Timer) ObserveResult(err error) time.Duration {
	d := t.Stop()
	OperationLatency.WithLabelValues(t.system, t.operation).Observe(d.Seconds())

	result := ResultSuccess
	if err != nil {
		result = ResultFailure
	}
	Operations.WithLabelValues(t.system, t.operation, result).Inc()
	return d
}

// WriteTextfile writes every metric in the default registry to path in the
// text exposition format. The file is replaced atomically.
func WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, prometheus.DefaultGatherer)
}
