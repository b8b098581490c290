package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	runsTotal   *prometheus.CounterVec
	errorsTotal *prometheus.CounterVec
	meanScore   *prometheus.GaugeVec
	forecast    *prometheus.GaugeVec
	lastPrice   *prometheus.GaugeVec
	latency     *prometheus.HistogramVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		runsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stockcast_runs_total",
				Help: "Total number of pipeline runs by stage and model",
			},
			[]string{"stage", "model"},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stockcast_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		meanScore: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "stockcast_mean_r2",
				Help: "Last mean walk-forward R2 per symbol and model",
			},
			[]string{"symbol", "model"},
		),
		forecast: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "stockcast_forecast_price",
				Help: "Last horizon-end forecast price per symbol and model",
			},
			[]string{"symbol", "model"},
		),
		lastPrice: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "stockcast_last_price",
				Help: "Last realtime price seen for a symbol",
			},
			[]string{"symbol"},
		),
		latency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "stockcast_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordRun counts one pipeline run for a stage and model.
func (r *Recorder) RecordRun(stage, model string) {
	r.runsTotal.WithLabelValues(stage, model).Inc()
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordScore records the latest mean R2 for a symbol and model.
func (r *Recorder) RecordScore(symbol, model string, meanR2 float64) {
	r.meanScore.WithLabelValues(symbol, model).Set(meanR2)
}

// RecordForecast records the horizon-end forecast price.
func (r *Recorder) RecordForecast(symbol, model string, price float64) {
	r.forecast.WithLabelValues(symbol, model).Set(price)
}

// RecordLastPrice records the last realtime price for a symbol.
func (r *Recorder) RecordLastPrice(symbol string, price float64) {
	r.lastPrice.WithLabelValues(symbol).Set(price)
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}
