package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Gateway call outcomes
const (
	OutcomeAnswered    = "answered"
	OutcomeNoKey       = "no_key"
	OutcomeUnavailable = "unavailable"
)

// Metrics holds all prometheus metrics
type Metrics struct {
	AdvisoriesProcessed prometheus.Counter
	DraftsCreated       prometheus.Counter
	WorkflowsAnalyzed   *prometheus.CounterVec
	GatewayCalls        *prometheus.CounterVec
	Notifications       *prometheus.CounterVec
	ImpactTime          prometheus.Histogram
	ErrorsCount         *prometheus.CounterVec
}

// NewMetrics creates new prometheus metrics registered on reg.
// Pass prometheus.DefaultRegisterer to expose them through promhttp.Handler.
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		AdvisoriesProcessed: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "advisories_processed_total",
			Help:      "The total number of advisories run through impact detection",
		}),
		DraftsCreated: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "advisory_drafts_created_total",
			Help:      "The total number of draft workflows persisted for advisory review",
		}),
		WorkflowsAnalyzed: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "workflows_analyzed_total",
			Help:      "The total number of step violation analyses, by result",
		}, []string{"result"}),
		GatewayCalls: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "llm_gateway_calls_total",
			Help:      "The total number of language model gateway calls, by outcome",
		}, []string{"outcome"}),
		Notifications: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_total",
			Help:      "The total number of customer notifications, by delivery status",
		}, []string{"status"}),
		ImpactTime: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "advisory_impact_processing_seconds",
			Help:      "Time taken to fan an advisory out over future bookings",
			Buckets:   prometheus.DefBuckets,
		}),
		ErrorsCount: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "errors_total",
			Help:      "The total number of errors",
		}, []string{"operation"}),
	}
}
