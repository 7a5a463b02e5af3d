package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	// Latency: вызовы удаленного AI-движка
	EngineRequestDuration *prometheus.HistogramVec

	// Какой уровень (tier) ответил на каждый набор данных и чем закончилась попытка
	TierResolutions *prometheus.CounterVec

	// Saturation: состояние Circuit Breaker движка (0 - closed, 1 - half-open, 2 - open)
	CircuitBreakerState *prometheus.GaugeVec

	// Audit: заполненность буфера (backpressure)
	AuditBufferFill prometheus.Gauge
	AuditDropped    prometheus.Counter

	// Кэш каталога: hit по уровням L1/L2 и miss
	CatalogCache *prometheus.CounterVec

	WaitlistSignups *prometheus.CounterVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	// Null Object Pattern - Если рег не передан, используем локальный, который никуда не подключен
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	return &Metrics{
		EngineRequestDuration: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "shield_engine_request_duration_seconds",
			Help:    "Histogram of AI engine call latencies.",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		}, []string{"op", "outcome"}),

		TierResolutions: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "shield_tier_resolutions_total",
			Help: "Dashboard data set resolution attempts by tier and outcome.",
		}, []string{"dataset", "tier", "outcome"}), // outcome: hit, skipped, timeout, unavailable, status, decode, empty, query

		CircuitBreakerState: promauto.With(reg).NewGaugeVec(prometheus.GaugeOpts{
			Name: "shield_circuit_breaker_state",
			Help: "Current state of the circuit breaker (0=closed, 1=half-open, 2=open).",
		}, []string{"name"}),

		AuditBufferFill: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Name: "shield_audit_buffer_utilization",
			Help: "Current number of events in audit buffer.",
		}),

		AuditDropped: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "shield_audit_dropped_total",
			Help: "Audit events dropped because the buffer was full or closed.",
		}),

		CatalogCache: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "shield_catalog_cache_total",
			Help: "Catalog cache lookups by result.",
		}, []string{"result"}), // l1, l2, miss

		WaitlistSignups: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "shield_waitlist_signups_total",
			Help: "Waitlist signup attempts by outcome.",
		}, []string{"outcome"}),
	}
}
