package grpcserver

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	grpcServerHandledTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "grpc_server_handled_total",
			Help: "Total number of gRPC calls completed by the server.",
		},
		[]string{"method", "code"},
	)
	grpcServerHandlingSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "grpc_server_handling_seconds",
			Help:    "gRPC call latency in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method"},
	)
)

func observeHandled(method, code string, dur time.Duration) {
	grpcServerHandledTotal.WithLabelValues(method, code).Inc()
	grpcServerHandlingSeconds.WithLabelValues(method).Observe(dur.Seconds())
}
