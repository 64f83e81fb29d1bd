package metrics

import (
	"encoding/json"
	"net/http"

	"github.com/larabeech/guestgate/internal/health"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Authentication metrics

	MagicLinksIssued = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "guestgate",
		Name:      "magic_links_issued_total",
		Help:      "Total magic link tokens issued.",
	})

	SessionsIssued = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "guestgate",
		Name:      "sessions_issued_total",
		Help:      "Total guest sessions issued, by auth method.",
	}, []string{"method"})

	AuthFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "guestgate",
		Name:      "auth_failures_total",
		Help:      "Total rejected authentication attempts, by auth method.",
	}, []string{"method"})

	RateLimited = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "guestgate",
		Name:      "rate_limited_total",
		Help:      "Total login requests rejected by the rate limiter.",
	})

	// Sweeper metrics

	SweptTokens = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "guestgate",
		Name:      "swept_tokens_total",
		Help:      "Total expired magic link tokens deleted by the sweeper.",
	})

	SweptSessions = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "guestgate",
		Name:      "swept_sessions_total",
		Help:      "Total expired guest sessions deleted by the sweeper.",
	})

	SweepDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "guestgate",
		Name:      "sweep_duration_seconds",
		Help:      "Time taken for one sweep cycle.",
		Buckets:   prometheus.DefBuckets,
	})

	// HTTP metrics

	HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "guestgate",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency.",
		Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "guestgate",
		Name:      "http_requests_total",
		Help:      "Total HTTP requests.",
	}, []string{"method", "path", "status"})
)

func Register() {
	prometheus.MustRegister(
		MagicLinksIssued,
		SessionsIssued,
		AuthFailures,
		RateLimited,
		SweptTokens,
		SweptSessions,
		SweepDuration,
		HTTPRequestDuration,
		HTTPRequestsTotal,
	)
}

// NewServer exposes /metrics plus liveness and readiness endpoints on
// a separate port from the API.
func NewServer(addr string, checker *health.Checker) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health/live", func(w http.ResponseWriter, r *http.Request) {
		writeHealth(w, checker.Liveness(r.Context()), http.StatusOK)
	})
	mux.HandleFunc("/health/ready", func(w http.ResponseWriter, r *http.Request) {
		result := checker.Readiness(r.Context())
		status := http.StatusOK
		if result.Status != "up" {
			status = http.StatusServiceUnavailable
		}
		writeHealth(w, result, status)
	})
	return &http.Server{Addr: addr, Handler: mux}
}

func writeHealth(w http.ResponseWriter, result health.HealthResult, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(result)
}
