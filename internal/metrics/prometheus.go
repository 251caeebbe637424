package metrics

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	AuditsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "report_audit_audits_total",
			Help: "Total audit invocations by outcome",
		},
		[]string{"status"},
	)

	AuditDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "report_audit_duration_seconds",
			Help:    "Audit pipeline duration in seconds",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30},
		},
	)

	AuditScore = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "report_audit_score",
			Help:    "Quality scores produced by completed audits",
			Buckets: []float64{0, 10, 20, 30, 40, 50, 60, 70, 80, 90, 100},
		},
	)

	FindingsDetected = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "report_audit_findings_total",
			Help: "Findings surviving validation, by pattern",
		},
		[]string{"pattern"},
	)

	ItemTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "report_audit_item_transitions_total",
			Help: "Audit item lifecycle transitions",
		},
		[]string{"action"},
	)

	LLMTokensUsed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "report_audit_llm_tokens_used",
			Help: "Total LLM tokens used",
		},
		[]string{"type"},
	)

	CacheHits = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "report_audit_cache_hits_total",
			Help: "Total cache hits",
		},
		[]string{"cache_type"},
	)

	CacheMisses = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "report_audit_cache_misses_total",
			Help: "Total cache misses",
		},
		[]string{"cache_type"},
	)
)

func Init() {
	prometheus.MustRegister(AuditsTotal)
	prometheus.MustRegister(AuditDuration)
	prometheus.MustRegister(AuditScore)
	prometheus.MustRegister(FindingsDetected)
	prometheus.MustRegister(ItemTransitions)
	prometheus.MustRegister(LLMTokensUsed)
	prometheus.MustRegister(CacheHits)
	prometheus.MustRegister(CacheMisses)
}

func MetricsHandler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}
