package personachat

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "personachat_requests_total",
			Help: "Total pipeline operations by outcome",
		},
		[]string{"op", "outcome"},
	)

	generationLatency = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name: "personachat_generation_seconds",
			Help: "Engine generation latency in seconds",
		},
	)

	fallbackCount = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "personachat_fallback_total",
			Help: "Responses served from the template fallback",
		},
	)

	// EngineReady is exported so the health probe in cmd can drive it.
	EngineReady = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "personachat_engine_ready",
			Help: "Whether the generation engine is in the ready state",
		},
	)
)
