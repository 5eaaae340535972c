package tstat

import (
	"github.com/clambin/go-common/http/metrics"
	"github.com/clambin/go-common/http/roundtripper"
	"github.com/prometheus/client_golang/prometheus"
	"net/http"
	"strconv"
)

// NewRequestMetrics returns request metrics for the calls made to a thermostat, labeled by method, endpoint and status code.
// The returned metrics must be registered with a prometheus.Registerer.
func NewRequestMetrics(namespace, subsystem string, labels prometheus.Labels) metrics.RequestMetrics {
	return metrics.NewRequestMetrics(metrics.Options{
		Namespace:   namespace,
		Subsystem:   subsystem,
		ConstLabels: labels,
		LabelValues: func(request *http.Request, code int) (string, string, string) {
			return request.Method, request.URL.Path, strconv.Itoa(code)
		},
	})
}

// NewInstrumentedHTTPClient returns an http.Client that records each request in m.
func NewInstrumentedHTTPClient(m metrics.RequestMetrics) *http.Client {
	return &http.Client{Transport: newInstrumentedRoundTripper(http.DefaultTransport, m)}
}

func newInstrumentedRoundTripper(rt http.RoundTripper, m metrics.RequestMetrics) http.RoundTripper {
	return roundtripper.New(
		roundtripper.WithRequestMetrics(m),
		roundtripper.WithRoundTripper(rt),
	)
}
