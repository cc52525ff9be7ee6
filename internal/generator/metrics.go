package generator

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	aiRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "slides_ai_requests_total",
			Help: "Total number of requests to the text generation backend.",
		},
		[]string{"backend", "status"}, // status: success, error, malformed
	)
	aiRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "slides_ai_request_duration_seconds",
			Help:    "Histogram of text generation request durations.",
			Buckets: []float64{.25, .5, 1, 2.5, 5, 10, 20, 40, 80, 120},
		},
		[]string{"backend"},
	)
)
