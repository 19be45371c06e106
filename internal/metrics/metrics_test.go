package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mcp-docgate/internal/util"
)

func TestNewUsesProvidedRegistry(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := New(registry)

	m.ObserveTool("list_spaces", 10*time.Millisecond, nil)
	m.ObserveBackend("/spaces", 200, 5*time.Millisecond)

	families, err := registry.Gather()
	require.NoError(t, err)

	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "docgate_tool_calls_total")
	assert.Contains(t, names, "docgate_tool_duration_seconds")
	assert.Contains(t, names, "docgate_backend_requests_total")
	assert.Contains(t, names, "docgate_backend_request_duration_seconds")
}

func TestObserveToolOutcomeLabels(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveTool("create_page", time.Millisecond, util.PolicyError("read-only"))
	m.ObserveTool("create_page", time.Millisecond, util.PolicyError("read-only"))
	m.ObserveTool("get_page", time.Millisecond, errors.New("boom"))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.toolCalls.WithLabelValues("create_page", "policy_error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.toolCalls.WithLabelValues("get_page", "internal")))
}

func TestObserveBackendWithoutResponse(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveBackend("/pages/info", 0, time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.backendRequests.WithLabelValues("/pages/info", "error")))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveTool("list_spaces", time.Millisecond, nil)
		m.ObserveBackend("/spaces", 200, time.Millisecond)
	})
}
