package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns the process collectors. Each instance has its own registry so
// tests can build as many as they like.
type Metrics struct {
	registry *prometheus.Registry

	apiRequests *prometheus.CounterVec
	apiLatency  *prometheus.HistogramVec
	apiInflight prometheus.Gauge

	agentStreams  *prometheus.CounterVec
	agentDuration *prometheus.HistogramVec
	toolCalls     *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)
	return &Metrics{
		registry: reg,
		apiRequests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "mentor_http_requests_total",
			Help: "HTTP requests by route, method and status.",
		}, []string{"route", "method", "status"}),
		apiLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "mentor_http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "method"}),
		apiInflight: f.NewGauge(prometheus.GaugeOpts{
			Name: "mentor_http_inflight_requests",
			Help: "HTTP requests currently being served.",
		}),
		agentStreams: f.NewCounterVec(prometheus.CounterOpts{
			Name: "mentor_agent_streams_total",
			Help: "Agent generations by agent and outcome.",
		}, []string{"agent", "outcome"}),
		agentDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "mentor_agent_stream_duration_seconds",
			Help:    "Wall time of one agent generation.",
			Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 20, 40, 80},
		}, []string{"agent"}),
		toolCalls: f.NewCounterVec(prometheus.CounterOpts{
			Name: "mentor_agent_tool_calls_total",
			Help: "Tool invocations by tool and outcome.",
		}, []string{"tool", "outcome"}),
	}
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

func (m *Metrics) IncInflight() {
	if m != nil {
		m.apiInflight.Inc()
	}
}

func (m *Metrics) DecInflight() {
	if m != nil {
		m.apiInflight.Dec()
	}
}

func (m *Metrics) ObserveRequest(route, method, status string, d time.Duration) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	m.apiRequests.WithLabelValues(route, method, status).Inc()
	m.apiLatency.WithLabelValues(route, method).Observe(d.Seconds())
}

func (m *Metrics) ObserveAgentStream(agent, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.agentStreams.WithLabelValues(agent, outcome).Inc()
	m.agentDuration.WithLabelValues(agent).Observe(d.Seconds())
}

func (m *Metrics) ObserveToolCall(tool, outcome string) {
	if m == nil {
		return
	}
	m.toolCalls.WithLabelValues(tool, outcome).Inc()
}
