package metrics

import "github.com/prometheus/client_golang/prometheus"

// Recommendation service Prometheus metrics.
var (
	RecommenderRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "stylesearch",
			Name:      "recommender_requests_total",
			Help:      "Total number of recommendation service requests",
		},
		[]string{"route", "status"},
	)

	RecommenderRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "stylesearch",
			Name:      "recommender_request_duration_seconds",
			Help:      "Recommendation service request duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"route"},
	)

	RecommenderErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "stylesearch",
			Name:      "recommender_errors_total",
			Help:      "Total recommendation service errors",
		},
		[]string{"route", "error_type"}, // "status" / "parse" / "network"
	)

	RecommenderResultsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "stylesearch",
			Name:      "recommender_results_total",
			Help:      "Total display items produced per search mode",
		},
		[]string{"mode"}, // "text" / "image"
	)

	NormalizeDroppedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "stylesearch",
			Name:      "normalize_dropped_items_total",
			Help:      "Result items discarded during normalization",
		},
		[]string{"reason"},
	)

	StaleResponsesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "stylesearch",
			Name:      "stale_responses_total",
			Help:      "Search responses discarded because a newer search superseded them",
		},
	)
)

var recMetricsRegistered bool

// RegisterRecommenderMetrics registers recommendation service metrics. Must be called once from main.
func RegisterRecommenderMetrics() {
	if recMetricsRegistered {
		return
	}
	prometheus.MustRegister(RecommenderRequestsTotal)
	prometheus.MustRegister(RecommenderRequestDuration)
	prometheus.MustRegister(RecommenderErrorsTotal)
	prometheus.MustRegister(RecommenderResultsTotal)
	prometheus.MustRegister(NormalizeDroppedTotal)
	prometheus.MustRegister(StaleResponsesTotal)
	recMetricsRegistered = true
}

// NormalizeDrops adapts NormalizeDroppedTotal to the normalizer's drop counter.
type NormalizeDrops struct{}

// Dropped increments the drop counter for reason.
func (NormalizeDrops) Dropped(reason string) {
	NormalizeDroppedTotal.WithLabelValues(reason).Inc()
}
