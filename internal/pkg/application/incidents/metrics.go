package incidents

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "sensormonitor"

var (
	transitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "incidents",
			Name:      "transitions_total",
			Help:      "Incident status transitions by source and target status",
		},
		[]string{"from", "to"},
	)

	incidentsOpened = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "incidents",
			Name:      "opened_total",
			Help:      "Total incidents opened",
		},
	)
)
