package metrics

import "github.com/prometheus/client_golang/prometheus"

// Retrieval pipeline metrics. Stages: embed, vector, chunks, pages.
var (
	RetrievalStageDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "unirag",
			Name:      "retrieval_stage_duration_seconds",
			Help:      "Duration of one retrieval pipeline stage",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"stage"},
	)

	RetrievalCandidatesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "unirag",
			Name:      "retrieval_candidates_total",
			Help:      "Candidates kept per pipeline stage",
		},
		[]string{"stage"},
	)

	RetrievalStageFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "unirag",
			Name:      "retrieval_stage_failures_total",
			Help:      "Soft failures per pipeline stage (stage degraded to empty result)",
		},
		[]string{"stage"},
	)

	RetrievalContextChars = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "unirag",
			Name:      "retrieval_context_chars",
			Help:      "Character size of the assembled context",
			Buckets:   []float64{0, 500, 1000, 2500, 5000, 10000, 20000, 30000},
		},
	)

	RetrievalEmptyTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "unirag",
			Name:      "retrieval_empty_total",
			Help:      "Queries that ended with zero selected sources",
		},
	)
)

// Chat completion metrics.
var (
	ChatRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "unirag",
			Name:      "chat_requests_total",
			Help:      "Total chat completion requests",
		},
		[]string{"model", "status"},
	)

	ChatRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "unirag",
			Name:      "chat_request_duration_seconds",
			Help:      "Chat completion request duration in seconds",
			Buckets:   []float64{0.25, 0.5, 1, 2.5, 5, 10, 20, 40},
		},
		[]string{"model"},
	)

	ChatTokensTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "unirag",
			Name:      "chat_tokens_total",
			Help:      "Chat completion tokens consumed",
		},
		[]string{"model", "type"},
	)
)

var retrievalMetricsRegistered bool

// RegisterRetrievalMetrics registers retrieval and chat metrics. Must be called once from main.
func RegisterRetrievalMetrics() {
	if retrievalMetricsRegistered {
		return
	}
	prometheus.MustRegister(RetrievalStageDuration)
	prometheus.MustRegister(RetrievalCandidatesTotal)
	prometheus.MustRegister(RetrievalStageFailuresTotal)
	prometheus.MustRegister(RetrievalContextChars)
	prometheus.MustRegister(RetrievalEmptyTotal)
	prometheus.MustRegister(ChatRequestsTotal)
	prometheus.MustRegister(ChatRequestDuration)
	prometheus.MustRegister(ChatTokensTotal)
	retrievalMetricsRegistered = true
}
