// Package metrics records model, prediction and store activity as
// Prometheus metrics on a private registry.
package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/emree-sen/idea-box-app/internal/llm"
	"github.com/emree-sen/idea-box-app/internal/prediction"
	"github.com/emree-sen/idea-box-app/internal/service"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder implements llm.Observer, prediction.Observer and
// service.UseCaseObserver.
type Recorder struct {
	registry *prometheus.Registry

	llmRequestsTotal     *prometheus.CounterVec
	llmRequestDuration   *prometheus.HistogramVec
	predictionTotal      *prometheus.CounterVec
	predictionDuration   prometheus.Histogram
	storeOperationsTotal *prometheus.CounterVec
}

var (
	_ llm.Observer            = (*Recorder)(nil)
	_ prediction.Observer     = (*Recorder)(nil)
	_ service.UseCaseObserver = (*Recorder)(nil)
)

// NewRecorder creates a Recorder with its own registry.
func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)

	return &Recorder{
		registry: reg,
		llmRequestsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ideabox_llm_requests_total",
				Help: "Total number of model calls by task, model and status",
			},
			[]string{"task", "model", "status"},
		),
		llmRequestDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ideabox_llm_request_duration_seconds",
				Help:    "Duration of model calls in seconds, retries included",
				Buckets: []float64{.25, .5, 1, 2, 4, 8, 16, 32, 64},
			},
			[]string{"task", "model"},
		),
		predictionTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ideabox_prediction_requests_total",
				Help: "Total number of prediction calls by status",
			},
			[]string{"status"},
		),
		predictionDuration: f.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "ideabox_prediction_request_duration_seconds",
				Help:    "Duration of prediction calls in seconds",
				Buckets: prometheus.DefBuckets,
			},
		),
		storeOperationsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ideabox_store_operations_total",
				Help: "Total number of project store use cases by operation and status",
			},
			[]string{"operation", "status"},
		),
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

func (r *Recorder) OnCallComplete(e llm.LLMCallEvent) {
	status := "success"
	if !e.Success {
		status = e.ErrorCode
		if status == "" {
			status = "error"
		}
	}
	r.llmRequestsTotal.WithLabelValues(string(e.Task), e.Model, status).Inc()
	r.llmRequestDuration.WithLabelValues(string(e.Task), e.Model).
		Observe((time.Duration(e.LatencyMs) * time.Millisecond).Seconds())
}

func (r *Recorder) OnPrediction(e prediction.Event) {
	status := "success"
	if !e.Success {
		status = "error"
	}
	r.predictionTotal.WithLabelValues(status).Inc()
	r.predictionDuration.Observe((time.Duration(e.LatencyMs) * time.Millisecond).Seconds())
}

func (r *Recorder) ObserveUseCase(_ context.Context, e service.UseCaseEvent) {
	status := "success"
	if !e.Success {
		status = "error"
	}
	r.storeOperationsTotal.WithLabelValues(e.Name, status).Inc()
}
