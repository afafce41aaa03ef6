package metrics

import "github.com/prometheus/client_golang/prometheus"

// Pipeline Prometheus metrics.
var (
	QueriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sibyl",
			Name:      "queries_total",
			Help:      "Total queries processed by the pipeline",
		},
		[]string{"mode", "status"}, // mode: "direct" / "contextual"
	)

	PolicyVerdictsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sibyl",
			Name:      "policy_verdicts_total",
			Help:      "Policy verdicts by outcome",
		},
		[]string{"outcome"},
	)

	IntentsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sibyl",
			Name:      "intents_total",
			Help:      "Detected query intents",
		},
		[]string{"label"},
	)

	StageDegradationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sibyl",
			Name:      "stage_degradations_total",
			Help:      "Pipeline stages that fell back to a degraded path",
		},
		[]string{"stage"}, // "retrieval" / "assembly" / "generation"
	)
)

// RegisterPipelineMetrics registers pipeline metrics with the default
// registry. Called explicitly from the composition root (no init()).
func RegisterPipelineMetrics() {
	prometheus.MustRegister(
		QueriesTotal,
		PolicyVerdictsTotal,
		IntentsTotal,
		StageDegradationsTotal,
	)
}
