package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all application metrics
type Metrics struct {
	// Assessment metrics
	AssessmentsTotal     *prometheus.CounterVec
	AssessmentRiskScore  prometheus.Histogram
	SepsisPositivesTotal prometheus.Counter
	AlertsPublishedTotal prometheus.Counter
	AlertPublishesFailed prometheus.Counter

	// Recommendation generation metrics
	GenerationsTotal  *prometheus.CounterVec
	GenerationLatency prometheus.Histogram
	StaleGenerations  prometheus.Counter

	// Key-value store metrics
	StoreOperations *prometheus.CounterVec
	StoreLatency    *prometheus.HistogramVec
}

// NewMetrics creates and registers all application metrics
func NewMetrics(namespace, subsystem string) *Metrics {
	return &Metrics{
		AssessmentsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "assessments_total",
			Help:      "Total number of completed assessments by diagnosis",
		}, []string{"diagnosis"}),
		AssessmentRiskScore: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "assessment_risk_score",
			Help:      "Distribution of computed risk scores",
			Buckets:   prometheus.LinearBuckets(0, 10, 11),
		}),
		SepsisPositivesTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "sepsis_positives_total",
			Help:      "Total number of sepsis-positive assessments",
		}),
		AlertsPublishedTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "alerts_published_total",
			Help:      "Total number of sepsis alerts published to the broker",
		}),
		AlertPublishesFailed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "alert_publishes_failed_total",
			Help:      "Total number of failed alert publishes",
		}),
		GenerationsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "recommendation_generations_total",
			Help:      "Total recommendation generations by outcome (remote, merged, fallback)",
		}, []string{"outcome"}),
		GenerationLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "recommendation_generation_duration_seconds",
			Help:      "Time spent generating recommendations",
			Buckets:   prometheus.DefBuckets,
		}),
		StaleGenerations: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "recommendation_generations_stale_total",
			Help:      "Generations discarded because a newer attempt superseded them",
		}),
		StoreOperations: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "kv_operations_total",
			Help:      "Total key-value store operations by operation and result",
		}, []string{"operation", "result"}),
		StoreLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "kv_operation_duration_seconds",
			Help:      "Key-value store operation latency",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
	}
}
