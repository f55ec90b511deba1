// Package metrics exposes Prometheus collectors for extraction runs.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "brandkit"

// Recorder holds the collectors of one registry.
type Recorder struct {
	stageResults       *prometheus.CounterVec
	extractionDuration prometheus.Histogram
	imagesCurated      prometheus.Histogram
	gatherer           prometheus.Gatherer
}

// New creates the collectors and registers them with reg. A nil reg uses a fresh
// private registry, which keeps tests independent of the global one.
func New(reg *prometheus.Registry) *Recorder {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	r := &Recorder{
		stageResults: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "stage_results_total",
				Help:      "Extraction stage results by stage and outcome",
			},
			[]string{"stage", "outcome"},
		),
		extractionDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "extraction_duration_seconds",
				Help:      "Duration of complete extraction runs",
				Buckets:   prometheus.DefBuckets,
			},
		),
		imagesCurated: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "images_curated",
				Help:      "Number of curated images returned per extraction",
				Buckets:   prometheus.LinearBuckets(0, 1, 11),
			},
		),
		gatherer: reg,
	}
	reg.MustRegister(r.stageResults, r.extractionDuration, r.imagesCurated)
	return r
}

// ObserveStage counts one stage result, e.g. ("logo", "not_found").
func (r *Recorder) ObserveStage(stage, outcome string) {
	if r == nil {
		return
	}
	r.stageResults.WithLabelValues(stage, outcome).Inc()
}

// ObserveExtraction records the duration and curated image count of one run.
func (r *Recorder) ObserveExtraction(dur time.Duration, images int) {
	if r == nil {
		return
	}
	r.extractionDuration.Observe(dur.Seconds())
	r.imagesCurated.Observe(float64(images))
}

// Handler returns the http.Handler for /metrics.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.gatherer, promhttp.HandlerOpts{})
}
