package main

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type metrics struct {
	requests    *prometheus.CounterVec
	latency     *prometheus.HistogramVec
	steps       prometheus.Counter
	validations *prometheus.CounterVec
}

func newMetrics(reg prometheus.Registerer) *metrics {
	f := promauto.With(reg)
	return &metrics{
		requests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "trs",
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status code.",
		}, []string{"route", "status"}),
		latency: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "trs",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 8),
		}, []string{"route"}),
		steps: f.NewCounter(prometheus.CounterOpts{
			Namespace: "trs",
			Name:      "rewrite_steps_total",
			Help:      "Rewrite steps returned to clients.",
		}),
		validations: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "trs",
			Name:      "validations_total",
			Help:      "Validations by outcome.",
		}, []string{"outcome"}),
	}
}
