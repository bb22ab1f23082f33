package metrics

import "github.com/prometheus/client_golang/prometheus"

// Inference and analytics Prometheus metrics.
var (
	InferenceRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "podium",
			Name:      "inference_requests_total",
			Help:      "Total number of inference provider requests",
		},
		[]string{"operation", "model", "status"},
	)

	InferenceRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "podium",
			Name:      "inference_request_duration_seconds",
			Help:      "Inference provider request duration in seconds",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"operation", "model"},
	)

	InferenceTokensTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "podium",
			Name:      "inference_tokens_total",
			Help:      "Total inference tokens consumed",
		},
		[]string{"operation", "model", "type"},
	)

	AnalyticsWritesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "podium",
			Name:      "analytics_writes_total",
			Help:      "Total analytics row writes",
		},
		[]string{"table", "status"},
	)
)

var inferenceMetricsRegistered bool

// RegisterInferenceMetrics registers Prometheus inference metrics. Must be called once from main.
func RegisterInferenceMetrics() {
	if inferenceMetricsRegistered {
		return
	}
	prometheus.MustRegister(InferenceRequestsTotal)
	prometheus.MustRegister(InferenceRequestDuration)
	prometheus.MustRegister(InferenceTokensTotal)
	prometheus.MustRegister(AnalyticsWritesTotal)
	inferenceMetricsRegistered = true
}
