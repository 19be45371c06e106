// internal/metrics/metrics.go
// Prometheus collectors for tool dispatch and backend round trips.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"mcp-docgate/internal/util"
)

type Metrics struct {
	toolCalls       *prometheus.CounterVec
	toolDuration    *prometheus.HistogramVec
	backendRequests *prometheus.CounterVec
	backendDuration *prometheus.HistogramVec
}

// New registers the gateway collectors on registerer
// (prometheus.DefaultRegisterer when nil).
func New(registerer prometheus.Registerer) *Metrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	factory := promauto.With(registerer)

	return &Metrics{
		toolCalls: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "docgate_tool_calls_total",
				Help: "Total number of tool dispatches by outcome",
			},
			[]string{"tool", "outcome"},
		),
		toolDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "docgate_tool_duration_seconds",
				Help:    "Duration of tool dispatches in seconds",
				Buckets: []float64{.01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
			},
			[]string{"tool"},
		),
		backendRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "docgate_backend_requests_total",
				Help: "Total number of requests sent to the document backend",
			},
			[]string{"path", "status"},
		),
		backendDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "docgate_backend_request_duration_seconds",
				Help:    "Latency of document backend requests in seconds",
				Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"path"},
		),
	}
}

// ObserveTool records one dispatch. outcome is "success" or the error kind.
func (m *Metrics) ObserveTool(tool string, duration time.Duration, err error) {
	if m == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = string(util.KindOf(err))
	}
	m.toolCalls.WithLabelValues(tool, outcome).Inc()
	m.toolDuration.WithLabelValues(tool).Observe(duration.Seconds())
}

// ObserveBackend records one backend round trip. status 0 means the request
// never got a response.
func (m *Metrics) ObserveBackend(path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	label := "error"
	if status > 0 {
		label = strconv.Itoa(status)
	}
	m.backendRequests.WithLabelValues(path, label).Inc()
	m.backendDuration.WithLabelValues(path).Observe(duration.Seconds())
}
