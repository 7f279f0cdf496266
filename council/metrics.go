package council

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics collects Prometheus metrics for council turns, namespaced
// "swarmcouncil". All methods are safe for concurrent use.
type Metrics struct {
	turns            *prometheus.CounterVec
	stageDuration    *prometheus.HistogramVec
	agentCalls       *prometheus.CounterVec
	budgetRejections prometheus.Counter
}

// NewMetrics creates and registers the council metrics on the given
// registry. A nil registry uses the default global registerer.
func NewMetrics(registry prometheus.Registerer) *Metrics {
	if registry == nil {
		registry = prometheus.DefaultRegisterer
	}
	factory := promauto.With(registry)

	return &Metrics{
		turns: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "swarmcouncil",
			Name:      "turns_total",
			Help:      "Council turns by outcome",
		}, []string{"status"}), // status: completed, rejected

		stageDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "swarmcouncil",
			Name:      "stage_duration_ms",
			Help:      "Pipeline stage duration in milliseconds",
			Buckets:   []float64{50, 100, 500, 1000, 5000, 10000, 30000, 60000},
		}, []string{"stage"}),

		agentCalls: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "swarmcouncil",
			Name:      "agent_calls_total",
			Help:      "Completion gateway calls by stage and outcome",
		}, []string{"stage", "status"}), // status: success, error

		budgetRejections: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "swarmcouncil",
			Name:      "budget_rejections_total",
			Help:      "Turns rejected by the pre-flight budget gate",
		}),
	}
}

// RecordTurn counts a finished or rejected turn.
func (m *Metrics) RecordTurn(status string) {
	m.turns.WithLabelValues(status).Inc()
}

// RecordStageDuration observes how long a stage took.
func (m *Metrics) RecordStageDuration(stage string, elapsed time.Duration) {
	m.stageDuration.WithLabelValues(stage).Observe(float64(elapsed.Milliseconds()))
}

// RecordAgentCall counts one gateway call outcome within a stage.
func (m *Metrics) RecordAgentCall(stage, status string) {
	m.agentCalls.WithLabelValues(stage, status).Inc()
}

// RecordBudgetRejection counts a pre-flight rejection.
func (m *Metrics) RecordBudgetRejection() {
	m.budgetRejections.Inc()
}
