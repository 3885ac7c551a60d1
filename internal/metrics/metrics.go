// Package metrics holds the Prometheus collectors of the service
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// QueryTotal counts answered queries by operation and outcome
	// ("ok", "invalid_argument", "not_found", "unavailable")
	QueryTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "swissgeo_query_total",
		Help: "Total geography queries by operation and outcome",
	}, []string{"operation", "outcome"})

	// BuildDuration tracks how long loading and normalizing the datasets takes
	BuildDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "swissgeo_model_build_duration_seconds",
		Help:    "Model build duration in seconds",
		Buckets: prometheus.ExponentialBuckets(0.01, 2, 12), // 10ms to ~40s
	})

	// BuildErrors counts failed model builds
	BuildErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "swissgeo_model_build_errors_total",
		Help: "Total failed model builds",
	})

	// ModelEntities reports the entity counts of the current model
	ModelEntities = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "swissgeo_model_entities",
		Help: "Number of entities in the current model by type",
	}, []string{"entity"})
)

// ObserveQuery records one answered query
func ObserveQuery(operation, outcome string) {
	QueryTotal.WithLabelValues(operation, outcome).Inc()
}
