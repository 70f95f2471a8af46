package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tinylink-dev/tinylink/internal/health"
)

var (
	// HTTP metrics

	HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "tinylink",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency.",
		Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tinylink",
		Name:      "http_requests_total",
		Help:      "Total HTTP requests.",
	}, []string{"method", "path", "status"})

	// Domain metrics

	RedirectsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tinylink",
		Name:      "redirects_total",
		Help:      "Short-code redirect lookups, by outcome.",
	}, []string{"outcome"})

	ShortURLsCreatedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tinylink",
		Name:      "short_urls_created_total",
		Help:      "Short URLs created, by code origin (random or custom).",
	}, []string{"origin"})

	SignupsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "tinylink",
		Name:      "signups_total",
		Help:      "Accounts created.",
	})
)

func Register() {
	prometheus.MustRegister(
		HTTPRequestDuration,
		HTTPRequestsTotal,
		RedirectsTotal,
		ShortURLsCreatedTotal,
		SignupsTotal,
	)
}

// NewServer exposes /metrics plus liveness and readiness probes on a
// separate listener so they stay reachable when the API port saturates.
func NewServer(addr string, checker *health.Checker) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeHealth(w, checker.Liveness(r.Context()))
	})
	mux.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		writeHealth(w, checker.Readiness(r.Context()))
	})
	return &http.Server{Addr: addr, Handler: mux}
}

func writeHealth(w http.ResponseWriter, result health.Result) {
	w.Header().Set("Content-Type", "application/json")
	if result.Status != "up" {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	_ = result.Write(w)
}
