// Package metrics holds the process-wide Prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "pollroom"

var (
	RoomsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rooms_created_total",
		Help:      "Total number of poll rooms created",
	})

	RoomsLive = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "rooms_live",
		Help:      "Number of rooms currently held in memory",
	})

	RoomsEvicted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rooms_evicted_total",
		Help:      "Total number of rooms removed by the lifecycle sweep",
	})

	// VotesRecorded counts accepted votes per option id.
	VotesRecorded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "votes_recorded_total",
			Help:      "Total number of accepted votes",
		},
		[]string{"option_id"},
	)

	// IntentsRejected counts rejected intents by reason (room_not_found, already_voted, ...).
	IntentsRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "intents_rejected_total",
			Help:      "Total number of client intents answered with an error",
		},
		[]string{"reason"},
	)

	IntentDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "intent_duration_seconds",
			Help:      "Time spent handling one client intent",
			Buckets:   prometheus.ExponentialBuckets(0.00005, 2, 12),
		},
		[]string{"type"},
	)

	WSActiveConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "ws_active_connections",
		Help:      "Number of open WebSocket connections",
	})

	FramesDropped = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "frames_dropped_total",
		Help:      "Outbound frames dropped because a connection queue was full or closed",
	})
)
