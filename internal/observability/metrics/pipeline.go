package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Pipeline collects the HTTP and analysis-pipeline metric families for one
// service process. All record methods are safe on a nil receiver so that
// use cases can run without metrics in tests.
type Pipeline struct {
	service  string
	registry *prometheus.Registry

	requestTotal    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	requestInFlight prometheus.Gauge

	analysesTotal     *prometheus.CounterVec
	stageDuration     *prometheus.HistogramVec
	bestEffortFailure *prometheus.CounterVec
	chatRequestsTotal *prometheus.CounterVec
	chatHistoryTurns  *prometheus.HistogramVec
	llmTokensTotal    *prometheus.CounterVec
}

func NewPipeline(service string) *Pipeline {
	registry := prometheus.NewRegistry()

	requestTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "nyayalens",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests processed.",
		},
		[]string{"service", "method", "path", "status"},
	)
	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "nyayalens",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "method", "path"},
	)
	requestInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "nyayalens",
			Subsystem: "http",
			Name:      "in_flight_requests",
			Help:      "Number of in-flight HTTP requests.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	analysesTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "nyayalens",
			Subsystem: "analysis",
			Name:      "analyses_total",
			Help:      "Total document analyses by outcome.",
		},
		[]string{"service", "status"},
	)
	stageDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "nyayalens",
			Subsystem: "analysis",
			Name:      "stage_duration_seconds",
			Help:      "Duration of individual pipeline stages in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "stage"},
	)
	bestEffortFailure := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "nyayalens",
			Subsystem: "analysis",
			Name:      "best_effort_failures_total",
			Help:      "Failures of non-fatal persistence steps.",
		},
		[]string{"service", "step"},
	)
	chatRequestsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "nyayalens",
			Subsystem: "chat",
			Name:      "requests_total",
			Help:      "Total chat continuations by outcome.",
		},
		[]string{"service", "status"},
	)
	chatHistoryTurns := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "nyayalens",
			Subsystem: "chat",
			Name:      "history_turns",
			Help:      "Distribution of replayed history length per chat request.",
			Buckets:   []float64{0, 1, 2, 4, 8, 16, 32, 64},
		},
		[]string{"service"},
	)
	llmTokensTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "nyayalens",
			Subsystem: "llm",
			Name:      "tokens_total",
			Help:      "Token usage reported by the model API, by direction.",
		},
		[]string{"service", "operation", "direction"},
	)

	registry.MustRegister(
		requestTotal,
		requestDuration,
		requestInFlight,
		analysesTotal,
		stageDuration,
		bestEffortFailure,
		chatRequestsTotal,
		chatHistoryTurns,
		llmTokensTotal,
	)

	return &Pipeline{
		service:           service,
		registry:          registry,
		requestTotal:      requestTotal,
		requestDuration:   requestDuration,
		requestInFlight:   requestInFlight,
		analysesTotal:     analysesTotal,
		stageDuration:     stageDuration,
		bestEffortFailure: bestEffortFailure,
		chatRequestsTotal: chatRequestsTotal,
		chatHistoryTurns:  chatHistoryTurns,
		llmTokensTotal:    llmTokensTotal,
	}
}

func (m *Pipeline) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// TrackInFlight marks one HTTP request in flight and returns the
// completion callback.
func (m *Pipeline) TrackInFlight() func() {
	if m == nil {
		return func() {}
	}
	m.requestInFlight.Inc()
	return m.requestInFlight.Dec
}

// RecordHTTPRequest counts one finished request. The route must already be
// normalized to a bounded label set by the caller.
func (m *Pipeline) RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.requestTotal.WithLabelValues(m.service, method, route, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(m.service, method, route).Observe(duration.Seconds())
}

func (m *Pipeline) RecordAnalysis(status string, duration time.Duration) {
	if m == nil {
		return
	}
	if status == "" {
		status = "unknown"
	}
	m.analysesTotal.WithLabelValues(m.service, status).Inc()
	m.stageDuration.WithLabelValues(m.service, "total").Observe(duration.Seconds())
}

func (m *Pipeline) ObserveStage(stage string, duration time.Duration) {
	if m == nil {
		return
	}
	m.stageDuration.WithLabelValues(m.service, stage).Observe(duration.Seconds())
}

func (m *Pipeline) RecordBestEffortFailure(step string) {
	if m == nil {
		return
	}
	m.bestEffortFailure.WithLabelValues(m.service, step).Inc()
}

func (m *Pipeline) RecordChat(status string) {
	if m == nil {
		return
	}
	if status == "" {
		status = "unknown"
	}
	m.chatRequestsTotal.WithLabelValues(m.service, status).Inc()
}

func (m *Pipeline) RecordChatHistory(turns int) {
	if m == nil {
		return
	}
	m.chatHistoryTurns.WithLabelValues(m.service).Observe(float64(turns))
}

func (m *Pipeline) RecordTokenUsage(operation string, promptTokens, completionTokens int) {
	if m == nil {
		return
	}
	if promptTokens > 0 {
		m.llmTokensTotal.WithLabelValues(m.service, operation, "in").Add(float64(promptTokens))
	}
	if completionTokens > 0 {
		m.llmTokensTotal.WithLabelValues(m.service, operation, "out").Add(float64(completionTokens))
	}
}
