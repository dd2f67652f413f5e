package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kirillkom/loan-document-vetting/internal/core/domain"
)

const namespace = "ldv"

// VettingMetrics implements ports.VettingObserver.
type VettingMetrics struct {
	service string

	resultsTotal       *prometheus.CounterVec
	confidence         *prometheus.HistogramVec
	duration           *prometheus.HistogramVec
	extractionFailures *prometheus.CounterVec
	breakerState       *prometheus.GaugeVec
}

func NewVettingMetrics(service string, registerer prometheus.Registerer) *VettingMetrics {
	resultsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "vetting",
			Name:      "results_total",
			Help:      "Vetting verdicts by document category and status.",
		},
		[]string{"service", "category", "status"},
	)
	confidence := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "vetting",
			Name:      "confidence",
			Help:      "Distribution of confidence scores by category.",
			Buckets:   []float64{0, 20, 40, 50, 60, 65, 70, 80, 90, 100},
		},
		[]string{"service", "category"},
	)
	duration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "vetting",
			Name:      "duration_seconds",
			Help:      "End-to-end vetting duration including extraction.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10, 30, 60, 120},
		},
		[]string{"service"},
	)
	extractionFailures := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "vetting",
			Name:      "extraction_failures_total",
			Help:      "Documents whose text could not be extracted.",
		},
		[]string{"service"},
	)
	breakerState := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "resilience",
			Name:      "circuit_breaker_open",
			Help:      "1 while the breaker for an operation is open, 0.5 half-open, 0 closed.",
		},
		[]string{"service", "operation"},
	)

	registerer.MustRegister(resultsTotal, confidence, duration, extractionFailures, breakerState)

	return &VettingMetrics{
		service:            service,
		resultsTotal:       resultsTotal,
		confidence:         confidence,
		duration:           duration,
		extractionFailures: extractionFailures,
		breakerState:       breakerState,
	}
}

func (m *VettingMetrics) ObserveVetting(result domain.VettingResult, elapsed time.Duration) {
	category := result.Category.String()
	m.resultsTotal.WithLabelValues(m.service, category, string(result.Status)).Inc()
	m.confidence.WithLabelValues(m.service, category).Observe(result.Confidence)
	m.duration.WithLabelValues(m.service).Observe(elapsed.Seconds())
}

func (m *VettingMetrics) ObserveExtractionFailure() {
	m.extractionFailures.WithLabelValues(m.service).Inc()
}

// ObserveBreakerState matches resilience.Config.OnStateChange.
func (m *VettingMetrics) ObserveBreakerState(operation, _, to string) {
	value := 0.0
	switch to {
	case "open":
		value = 1
	case "half-open":
		value = 0.5
	}
	m.breakerState.WithLabelValues(m.service, operation).Set(value)
}
