package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// analysis pipeline and its providers.
type Metrics struct {
	RequestsConsumed prometheus.Counter
	ReportsProduced  prometheus.Counter
	AnalysisErrors   prometheus.Counter
	PipelineRunning  prometheus.Gauge

	// Batch processing metrics.
	BatchSize               prometheus.Histogram
	BatchProcessingDuration prometheus.Histogram

	// Provider metrics.
	BandFetches      *prometheus.CounterVec   // labels: source={sentinel-2,synthetic}, outcome={success,error}
	BandCache        *prometheus.CounterVec   // labels: result={hit,miss}
	ProviderDuration *prometheus.HistogramVec // labels: provider={bands,weather}
	WeatherFetches   *prometheus.CounterVec   // labels: outcome={success,error,disabled}

	// Assessment metrics.
	AlertsGenerated *prometheus.CounterVec // labels: category={health,soil,pest}
}

// NewMetrics creates and registers all pipeline metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()

	prometheus.MustRegister(
		m.RequestsConsumed,
		m.ReportsProduced,
		m.AnalysisErrors,
		m.PipelineRunning,
		m.BatchSize,
		m.BatchProcessingDuration,
		m.BandFetches,
		m.BandCache,
		m.ProviderDuration,
		m.WeatherFetches,
		m.AlertsGenerated,
	)

	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics across tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		RequestsConsumed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "agrisense",
			Name:      "requests_consumed_total",
			Help:      "Total analysis requests read from the source topic.",
		}),
		ReportsProduced: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "agrisense",
			Name:      "reports_produced_total",
			Help:      "Total analysis reports written to the sink topic.",
		}),
		AnalysisErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "agrisense",
			Name:      "analysis_errors_total",
			Help:      "Total requests that failed analysis and were skipped.",
		}),
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "agrisense",
			Name:      "pipeline_running",
			Help:      "1 when the pipeline is active, 0 when shut down.",
		}),
		BatchSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "agrisense",
			Name:      "batch_size",
			Help:      "Number of requests per batch extracted from Kafka.",
			Buckets:   []float64{1, 5, 10, 20, 30, 40, 50, 75, 100},
		}),
		BatchProcessingDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "agrisense",
			Name:      "batch_processing_duration_seconds",
			Help:      "Duration of a complete batch extract-analyze-publish cycle.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10},
		}),
		BandFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "agrisense",
			Name:      "band_fetches_total",
			Help:      "Band data fetches by source and outcome.",
		}, []string{"source", "outcome"}),
		BandCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "agrisense",
			Name:      "band_cache_total",
			Help:      "Band data cache lookups by result.",
		}, []string{"result"}),
		ProviderDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "agrisense",
			Name:      "provider_request_duration_seconds",
			Help:      "External provider request duration in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"provider"}),
		WeatherFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "agrisense",
			Name:      "weather_fetches_total",
			Help:      "Weather fetches by outcome.",
		}, []string{"outcome"}),
		AlertsGenerated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "agrisense",
			Name:      "alerts_generated_total",
			Help:      "Alerts emitted in reports, by category.",
		}, []string{"category"}),
	}
}
