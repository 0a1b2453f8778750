package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	readingsCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "meterreads_readings_created_total",
		Help: "Total number of meter readings stored.",
	})
	monthsEstimatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "meterreads_months_estimated_total",
		Help: "Total number of monthly usage records computed.",
	})
)
