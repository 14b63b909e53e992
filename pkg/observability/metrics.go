package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "HTTP requests by method, route pattern and status code.",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency by method and route pattern.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})

	extractionCandidates = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "extraction_candidates",
		Help:    "Candidate names produced per extraction run.",
		Buckets: []float64{0, 1, 2, 3, 5, 8, 10, 15},
	})

	resolutionOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "resolution_outcomes_total",
		Help: "Name resolutions by outcome and resolving tier.",
	}, []string{"outcome", "source"})

	pipelineDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "pipeline_duration_seconds",
		Help:    "End-to-end extract+resolve+build pipeline latency.",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20},
	})
)

func RecordExtraction(candidates int) {
	extractionCandidates.Observe(float64(candidates))
}

// RecordResolution counts one resolution attempt. On success, source names
// the tier that located the place; failures are counted under source "none".
func RecordResolution(success bool, source string) {
	outcome := "success"
	if !success {
		outcome = "failure"
		source = "none"
	}
	resolutionOutcomes.WithLabelValues(outcome, source).Inc()
}

func ObservePipelineDuration(d time.Duration) {
	pipelineDuration.Observe(d.Seconds())
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// HTTPMetrics wraps the mux with request count and latency metrics. The
// matched route pattern, not the raw URL, is used as the path label to
// keep cardinality bounded.
func HTTPMetrics(mux *http.ServeMux) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		mux.ServeHTTP(rec, r)

		_, path := mux.Handler(r)
		if path == "" {
			path = "unmatched"
		}
		httpRequestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(rec.status)).Inc()
		httpRequestDuration.WithLabelValues(r.Method, path).Observe(time.Since(start).Seconds())
	})
}
