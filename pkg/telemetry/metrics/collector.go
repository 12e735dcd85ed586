package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	namespace = "aegis"
	subsystem = "governance"
)

// Collector manages the Prometheus metrics for the governance service.
// All metrics are registered against a private registry so tests can
// create collectors without colliding on the global default.
type Collector struct {
	registry *prometheus.Registry

	// Pipeline metrics
	pipelineRuns     *prometheus.CounterVec
	stageDuration    *prometheus.HistogramVec
	pipelineDuration *prometheus.HistogramVec

	// Policy metrics
	policyEvaluations *prometheus.CounterVec
	ruleViolations    *prometheus.CounterVec

	// Classifier metrics
	classifierCalls     *prometheus.CounterVec
	classifierFallbacks *prometheus.CounterVec
	classifierDuration  *prometheus.HistogramVec

	// Audit log metrics
	auditWrites *prometheus.CounterVec
	auditDrops  prometheus.Counter

	// HTTP metrics
	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
}

// NewCollector creates a Collector with all metrics registered. If registry
// is nil a fresh one is created.
func NewCollector(registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	c := &Collector{
		registry: registry,

		pipelineRuns: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "pipeline_runs_total",
				Help:      "Total pipeline executions by workflow kind and final status",
			},
			[]string{"kind", "status"},
		),

		stageDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "stage_duration_seconds",
				Help:      "Duration of individual pipeline stages",
				Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0, 5.0, 15.0},
			},
			[]string{"stage"},
		),

		pipelineDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "pipeline_duration_seconds",
				Help:      "End to end pipeline duration by workflow kind",
				Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1.0, 5.0, 15.0, 30.0},
			},
			[]string{"kind"},
		),

		policyEvaluations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "policy_evaluations_total",
				Help:      "Total policy evaluations by outcome",
			},
			[]string{"outcome"},
		),

		ruleViolations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "rule_violations_total",
				Help:      "Total rule violations by rule type",
			},
			[]string{"rule_type"},
		),

		classifierCalls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "classifier_calls_total",
				Help:      "Total model classifier calls by kind and status",
			},
			[]string{"kind", "status"},
		),

		classifierFallbacks: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "classifier_fallbacks_total",
				Help:      "Total classifier calls resolved by the neutral fallback",
			},
			[]string{"kind"},
		),

		classifierDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "classifier_duration_seconds",
				Help:      "Duration of model classifier calls",
				Buckets:   []float64{0.1, 0.25, 0.5, 1.0, 2.0, 5.0, 10.0, 30.0},
			},
			[]string{"kind"},
		),

		auditWrites: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "audit_writes_total",
				Help:      "Total audit records written by event type",
			},
			[]string{"event_type"},
		),

		auditDrops: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "audit_drops_total",
				Help:      "Total audit records dropped due to a full buffer",
			},
		),

		httpRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "http_requests_total",
				Help:      "Total HTTP requests by path and status code",
			},
			[]string{"path", "code"},
		),

		httpDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "http_request_duration_seconds",
				Help:      "Duration of HTTP requests",
				Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1.0, 5.0, 15.0},
			},
			[]string{"path"},
		),
	}

	registry.MustRegister(
		c.pipelineRuns,
		c.stageDuration,
		c.pipelineDuration,
		c.policyEvaluations,
		c.ruleViolations,
		c.classifierCalls,
		c.classifierFallbacks,
		c.classifierDuration,
		c.auditWrites,
		c.auditDrops,
		c.httpRequests,
		c.httpDuration,
	)

	return c
}

// Registry returns the underlying Prometheus registry.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// RecordPipelineRun records a completed pipeline execution.
func (c *Collector) RecordPipelineRun(kind, status string, duration time.Duration) {
	c.pipelineRuns.WithLabelValues(kind, status).Inc()
	c.pipelineDuration.WithLabelValues(kind).Observe(duration.Seconds())
}

// RecordStage records the duration of a single pipeline stage.
func (c *Collector) RecordStage(stage string, duration time.Duration) {
	c.stageDuration.WithLabelValues(stage).Observe(duration.Seconds())
}

// RecordPolicyEvaluation records a policy evaluation outcome
// ("compliant" or "non_compliant").
func (c *Collector) RecordPolicyEvaluation(outcome string) {
	c.policyEvaluations.WithLabelValues(outcome).Inc()
}

// RecordRuleViolation records a rule violation by rule type.
func (c *Collector) RecordRuleViolation(ruleType string) {
	c.ruleViolations.WithLabelValues(ruleType).Inc()
}

// RecordClassifierCall records a model classifier call.
func (c *Collector) RecordClassifierCall(kind, status string, duration time.Duration) {
	c.classifierCalls.WithLabelValues(kind, status).Inc()
	c.classifierDuration.WithLabelValues(kind).Observe(duration.Seconds())
}

// RecordClassifierFallback records a classifier call resolved by the
// neutral fallback value.
func (c *Collector) RecordClassifierFallback(kind string) {
	c.classifierFallbacks.WithLabelValues(kind).Inc()
}

// RecordAuditWrite records a persisted audit record.
func (c *Collector) RecordAuditWrite(eventType string) {
	c.auditWrites.WithLabelValues(eventType).Inc()
}

// RecordAuditDrop records an audit record dropped because the async buffer
// was full.
func (c *Collector) RecordAuditDrop() {
	c.auditDrops.Inc()
}

// RecordHTTPRequest records a served HTTP request.
func (c *Collector) RecordHTTPRequest(path string, code int, duration time.Duration) {
	c.httpRequests.WithLabelValues(path, statusClass(code)).Inc()
	c.httpDuration.WithLabelValues(path).Observe(duration.Seconds())
}

// statusClass collapses status codes into classes to bound label cardinality.
func statusClass(code int) string {
	switch {
	case code >= 500:
		return "5xx"
	case code >= 400:
		return "4xx"
	case code >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
