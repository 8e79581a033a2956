package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	trainingsTotal   *prometheus.CounterVec
	trainingDuration *prometheus.HistogramVec
	forecastsTotal   *prometheus.CounterVec
	recommendations  *prometheus.CounterVec
	errorsTotal      *prometheus.CounterVec
	lastPrice        *prometheus.GaugeVec
	latency          *prometheus.HistogramVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		trainingsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pricepulse_trainings_total",
				Help: "Total number of completed model training runs",
			},
			[]string{"symbol", "model"},
		),
		trainingDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "pricepulse_training_duration_seconds",
				Help:    "Duration of model training runs in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"model"},
		),
		forecastsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pricepulse_forecasts_total",
				Help: "Total number of forecasts served",
			},
			[]string{"symbol", "model"},
		),
		recommendations: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pricepulse_recommendations_total",
				Help: "Total number of pricing recommendations issued",
			},
			[]string{"strategy"},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pricepulse_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		lastPrice: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "pricepulse_last_price",
				Help: "Last recorded price for a symbol",
			},
			[]string{"symbol"},
		),
		latency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "pricepulse_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordTraining records a completed training run and its duration.
func (r *Recorder) RecordTraining(symbol, model string, seconds float64) {
	r.trainingsTotal.WithLabelValues(symbol, model).Inc()
	r.trainingDuration.WithLabelValues(model).Observe(seconds)
}

// RecordForecast records a served forecast.
func (r *Recorder) RecordForecast(symbol, model string) {
	r.forecastsTotal.WithLabelValues(symbol, model).Inc()
}

// RecordRecommendation records an issued pricing recommendation.
func (r *Recorder) RecordRecommendation(strategy string) {
	r.recommendations.WithLabelValues(strategy).Inc()
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordLastPrice records the last price for a symbol.
func (r *Recorder) RecordLastPrice(symbol string, price float64) {
	r.lastPrice.WithLabelValues(symbol).Set(price)
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}
