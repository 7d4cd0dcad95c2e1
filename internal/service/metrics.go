package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Métricas de prognóstico
	forecastGenerationDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "insights_forecast_generation_duration_seconds",
		Help:    "Duration of demand forecast generation in seconds",
		Buckets: prometheus.DefBuckets,
	})

	forecastsGenerated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "insights_forecasts_generated_total",
		Help: "Total number of demand forecasts generated",
	})

	forecastConfidence = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "insights_forecast_confidence",
		Help: "Confidence of the latest demand forecast (0-100)",
	})

	forecastPrediction = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "insights_forecast_prediction",
		Help: "Predicted order count for the next period",
	})

	// Métricas de sugestões
	insightsGenerated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "insights_generated_total",
		Help: "Total number of insight batches generated",
	})

	suggestionsEmitted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "insights_suggestions_emitted_total",
		Help: "Total number of suggestions emitted per rule",
	}, []string{"rule"})

	// Métricas de campanhas
	campaignsComposed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "insights_campaigns_composed_total",
		Help: "Total number of campaign drafts composed",
	}, []string{"insight_type"})

	// Métricas de cache
	cacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "insights_cache_hits_total",
		Help: "Total number of cache hits",
	})

	cacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "insights_cache_misses_total",
		Help: "Total number of cache misses",
	})

	// Métricas HTTP
	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "insights_http_request_duration_seconds",
		Help:    "Duration of HTTP requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "endpoint"})

	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "insights_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "endpoint", "status"})

	// Métricas dos workers
	workerLastRun = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "insights_worker_last_run_timestamp",
		Help: "Unix timestamp of last worker run",
	}, []string{"worker"})

	workerRunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "insights_worker_runs_total",
		Help: "Total number of worker runs",
	}, []string{"worker"})

	workerErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "insights_worker_errors_total",
		Help: "Total number of worker errors",
	}, []string{"worker"})
)

// RecordWorkerRun registra a execução de um worker
func RecordWorkerRun(workerName string) {
	workerLastRun.WithLabelValues(workerName).SetToCurrentTime()
	workerRunsTotal.WithLabelValues(workerName).Inc()
}

// RecordWorkerError registra a falha de um worker
func RecordWorkerError(workerName string) {
	workerErrors.WithLabelValues(workerName).Inc()
}

// RecordHTTPRequest registra uma requisição HTTP
func RecordHTTPRequest(method, endpoint string, duration float64, statusCode int) {
	httpRequestDuration.WithLabelValues(method, endpoint).Observe(duration)
	status := "success"
	if statusCode >= 400 {
		status = "error"
	}
	httpRequestsTotal.WithLabelValues(method, endpoint, status).Inc()
}
