package httpserver

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests served.",
		},
		[]string{"route", "method", "status"},
	)
	httpRequestDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)

	grpcUpstreamRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "grpc_upstream_requests_total",
			Help: "Total number of upstream gRPC calls made by the HTTP service.",
		},
		[]string{"method", "code"},
	)
	grpcUpstreamDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "grpc_upstream_duration_seconds",
			Help:    "Upstream gRPC call latency in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method"},
	)
)

func observeHTTPRequest(r *http.Request, status int, dur time.Duration) {
	route := routeLabel(r)
	httpRequestsTotal.WithLabelValues(route, r.Method, strconv.Itoa(status)).Inc()
	httpRequestDurationSeconds.WithLabelValues(route, r.Method).Observe(dur.Seconds())
}

func observeUpstreamGRPC(method, code string, dur time.Duration) {
	grpcUpstreamRequestsTotal.WithLabelValues(method, code).Inc()
	grpcUpstreamDurationSeconds.WithLabelValues(method).Observe(dur.Seconds())
}

// routeLabel uses the matched chi pattern so label cardinality stays bounded.
func routeLabel(r *http.Request) string {
	rc := chi.RouteContext(r.Context())
	if rc == nil {
		return "other"
	}
	if p := rc.RoutePattern(); p != "" {
		return p
	}
	return "other"
}
