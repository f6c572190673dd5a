package metrics

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Counters(t *testing.T) {
	m := New()
	m.ToolCall("amadeus_flight_search", false)
	m.ToolCall("amadeus_flight_search", true)
	m.ToolCall("amadeus_flight_search", true)
	m.LLMCall(nil)
	m.LLMCall(errors.New("quota"))
	m.BudgetAssessed("FEASIBLE")
	m.ObserveTurn("completed", 3*time.Second)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.toolCalls.WithLabelValues("amadeus_flight_search", "failed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.toolCalls.WithLabelValues("amadeus_flight_search", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.llmCalls.WithLabelValues("error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.budget.WithLabelValues("FEASIBLE")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.turns.WithLabelValues("completed")))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ToolCall("x", true)
		m.LLMCall(nil)
		m.BudgetAssessed("ERROR")
		m.ObserveTurn("fallback", time.Second)
	})
}

func TestMetrics_Handler(t *testing.T) {
	m := New()
	m.ObserveTurn("completed", time.Second)

	srv := httptest.NewServer(m.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `wayfarer_turns_total{outcome="completed"} 1`)
}
