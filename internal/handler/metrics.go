package handler

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	presentationsCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "slides_presentations_created_total",
		Help: "Total number of successfully created presentations.",
	})

	presentationsConfiguredTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "slides_presentations_configured_total",
		Help: "Total number of successful presentation reconfigurations.",
	})

	presentationsDeletedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "slides_presentations_deleted_total",
		Help: "Total number of presentations deleted on request.",
	})

	downloadsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "slides_downloads_total",
		Help: "Total number of presentation downloads.",
	})

	requestErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "slides_request_errors_total",
			Help: "Total number of failed API requests by error kind.",
		},
		[]string{"kind"},
	)
)
