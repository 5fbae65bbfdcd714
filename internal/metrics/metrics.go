package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Counter: responses served from the fingerprint cache.
	CacheHitsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Total number of response cache hits.",
		},
	)

	// Counter: quota checks that reported an exhausted window.
	QuotaExceededTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "quota_exceeded_total",
			Help: "Total number of quota checks that reported exceeded.",
		},
	)

	// Counter: successful upstream round trips (the metered resource).
	UpstreamCallsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "upstream_calls_total",
			Help: "Total number of successful upstream understand/rank calls.",
		},
	)

	// Counter: requests answered by the offline rule engine, by reason.
	LocalFallbacksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "local_fallbacks_total",
			Help: "Total number of requests served by the local fallback path.",
		},
		[]string{"reason"}, // no_credential | quota | upstream_error
	)

	// Histogram: upstream call latency in seconds.
	UpstreamLatencySeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "upstream_latency_seconds",
			Help:    "Latency of upstream text-understanding calls in seconds.",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
		},
		[]string{"operation"}, // understand | rank
	)

	// Histogram: gateway HTTP latency in seconds.
	GatewayLatencySeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gateway_latency_seconds",
			Help:    "HTTP request latency for the gateway in seconds.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		},
		[]string{"path", "method", "status_code"},
	)
)

// Register is called once in main() to register metrics.
func Register() {
	prometheus.MustRegister(
		CacheHitsTotal,
		QuotaExceededTotal,
		UpstreamCallsTotal,
		LocalFallbacksTotal,
		UpstreamLatencySeconds,
		GatewayLatencySeconds,
	)
}

// Handler exposes the /metrics endpoint for Prometheus to scrape.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Middleware measures gateway latency for each HTTP request.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rec := &statusRecorder{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		next.ServeHTTP(rec, r)

		GatewayLatencySeconds.
			WithLabelValues(r.URL.Path, r.Method, strconv.Itoa(rec.statusCode)).
			Observe(time.Since(start).Seconds())
	})
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.statusCode = code
	r.ResponseWriter.WriteHeader(code)
}
