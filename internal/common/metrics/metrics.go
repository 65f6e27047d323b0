// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prediction outcomes used as the "outcome" label.
const (
	OutcomeSuccess      = "success"
	OutcomeNotReady     = "not_ready"
	OutcomeMissing      = "missing_feature"
	OutcomeScoringError = "scoring_error"
	OutcomeInvalid      = "invalid_profile"
)

var (
	PredictionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "placement_predictions_total",
			Help: "Total number of placement predictions by outcome",
		},
		[]string{"outcome"},
	)

	PredictionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "placement_prediction_duration_seconds",
			Help:    "Duration of a single prediction in seconds",
			Buckets: []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25},
		},
		[]string{"outcome"},
	)

	CategoryFallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "placement_category_fallbacks_total",
			Help: "Categorical values not present in the label table",
		},
		[]string{"column"},
	)

	CacheRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "placement_cache_requests_total",
			Help: "Prediction cache lookups by result",
		},
		[]string{"result"},
	)

	ArtifactsLoaded = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "placement_artifacts_loaded",
			Help: "1 when the model artifacts are loaded, 0 otherwise",
		},
	)

	WorkerJobsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_completed_total",
			Help: "Total number of jobs completed by worker",
		},
		[]string{"task_type"},
	)

	WorkerJobsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_failed_total",
			Help: "Total number of jobs failed by worker",
		},
		[]string{"task_type", "error_code"},
	)
)

// SetArtifactsLoaded records the artifact state gauge.
func SetArtifactsLoaded(loaded bool) {
	if loaded {
		ArtifactsLoaded.Set(1)
		return
	}
	ArtifactsLoaded.Set(0)
}
