// Package metrics exposes portfolio lifecycle counters to Prometheus.
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/tendant/simple-portfolio/pkg/portfolio"
)

const namespace = "portfolio"

// Recorder implements portfolio.MetricsRecorder on its own registry
type Recorder struct {
	registry *prometheus.Registry

	blobsStored       *prometheus.CounterVec
	blobsDeleted      *prometheus.CounterVec
	recordWrites      *prometheus.CounterVec
	currentCleared    prometheus.Counter
	photoExtractions  *prometheus.CounterVec
	httpRequests      *prometheus.CounterVec
	httpDurationHisto *prometheus.HistogramVec
}

var _ portfolio.MetricsRecorder = (*Recorder)(nil)

// New creates a Recorder. Go runtime and process collectors are registered
// alongside the portfolio metrics.
func New() *Recorder {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Recorder{
		registry: reg,
		blobsStored: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "blobs_stored_total",
			Help:      "Blobs written to the object store",
		}, []string{"kind"}),
		blobsDeleted: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "blob_deletes_total",
			Help:      "Blob delete attempts by outcome",
		}, []string{"kind", "outcome"}),
		recordWrites: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "record_writes_total",
			Help:      "Committed record writes",
		}, []string{"kind", "op"}),
		currentCleared: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "current_travel_cleared_total",
			Help:      "Travel entries unflagged because another entry became current",
		}),
		photoExtractions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "photo_metadata_extractions_total",
			Help:      "Photo metadata extractions by whether EXIF data was found",
		}, []string{"has_metadata"}),
		httpRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status",
		}, []string{"method", "route", "status"}),
		httpDurationHisto: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
}

// Registry returns the registry the recorder writes to
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Handler serves the registry in the Prometheus exposition format
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

func (r *Recorder) BlobStored(kind portfolio.Kind) {
	r.blobsStored.WithLabelValues(string(kind)).Inc()
}

func (r *Recorder) BlobDeleted(kind portfolio.Kind, outcome portfolio.BlobOutcome) {
	r.blobsDeleted.WithLabelValues(string(kind), string(outcome)).Inc()
}

func (r *Recorder) RecordWritten(kind portfolio.Kind, op string) {
	r.recordWrites.WithLabelValues(string(kind), op).Inc()
}

func (r *Recorder) CurrentTravelCleared(n int64) {
	if n > 0 {
		r.currentCleared.Add(float64(n))
	}
}

func (r *Recorder) PhotoMetadataExtracted(hasMetadata bool) {
	r.photoExtractions.WithLabelValues(strconv.FormatBool(hasMetadata)).Inc()
}

// ObserveRequest records one served HTTP request. route is the matched
// pattern, not the raw path, to keep label cardinality bounded.
func (r *Recorder) ObserveRequest(method, route string, status int, seconds float64) {
	r.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	r.httpDurationHisto.WithLabelValues(method, route).Observe(seconds)
}
