package observability

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsCountRequests(t *testing.T) {
	m := NewMetrics()
	m.ObserveRequest("/checkin", "POST", "200", 10*time.Millisecond)
	m.ObserveRequest("/checkin", "POST", "200", 20*time.Millisecond)
	m.ObserveRequest("", "GET", "404", time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.apiRequests.WithLabelValues("/checkin", "POST", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.apiRequests.WithLabelValues("unmatched", "GET", "404")))
}

func TestMetricsToolAndAgentCounters(t *testing.T) {
	m := NewMetrics()
	m.ObserveToolCall("get_goals", "ok")
	m.ObserveToolCall("get_goals", "invalid_input")
	m.ObserveAgentStream("StudentHubAgent", "ok", time.Second)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.toolCalls.WithLabelValues("get_goals", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.agentStreams.WithLabelValues("StudentHubAgent", "ok")))
}

func TestMetricsHandlerExposesCollectors(t *testing.T) {
	m := NewMetrics()
	m.IncInflight()
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "mentor_http_inflight_requests 1"))
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	m.IncInflight()
	m.ObserveRequest("/x", "GET", "200", time.Millisecond)
	m.ObserveToolCall("t", "ok")
}

func TestParseHeadersAndRatio(t *testing.T) {
	assert.Equal(t, map[string]string{"a": "1", "b": "2"}, parseHeaders("a=1, b=2,bad,=x"))
	assert.Nil(t, parseHeaders(""))
	assert.Equal(t, 0.5, ParseSampleRatio("0.5"))
	assert.Equal(t, 1.0, ParseSampleRatio("3"))
	assert.Equal(t, 0.1, ParseSampleRatio("nope"))
}
