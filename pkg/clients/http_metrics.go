package clients

import (
	"strconv"
	"sync/atomic"
	"time"

	"github.com/ajitpratap0/idbridge/pkg/metrics"
)

// HTTPMetrics records outbound request counts and latencies. Totals are kept
// locally for HTTPClient.GetStats and mirrored into the Prometheus registry.
type HTTPMetrics struct {
	totalRequests  int64
	failedRequests int64
	totalLatency   int64
}

// NewHTTPMetrics creates a new HTTP metrics tracker
func NewHTTPMetrics() *HTTPMetrics {
	return &HTTPMetrics{}
}

// RecordRequest records one request. status is the HTTP status code, or 0 when
// no response was received.
func (hm *HTTPMetrics) RecordRequest(method, host string, status int, latency time.Duration, err error) {
	atomic.AddInt64(&hm.totalRequests, 1)
	atomic.AddInt64(&hm.totalLatency, int64(latency))

	label := strconv.Itoa(status)
	if err != nil || status == 0 {
		label = "error"
	}
	if err != nil || status >= 400 {
		atomic.AddInt64(&hm.failedRequests, 1)
	}

	metrics.HTTPRequests.WithLabelValues(method, host, label).Inc()
	metrics.HTTPLatency.WithLabelValues(method, host).Observe(latency.Seconds())
}

// GetAverageLatency returns the mean request latency
func (hm *HTTPMetrics) GetAverageLatency() time.Duration {
	n := atomic.LoadInt64(&hm.totalRequests)
	if n == 0 {
		return 0
	}
	return time.Duration(atomic.LoadInt64(&hm.totalLatency) / n)
}
