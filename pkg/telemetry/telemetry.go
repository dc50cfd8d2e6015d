// Package telemetry exposes the process metrics served on /metrics.
package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// EventsProcessed counts inbound envelopes by event kind, including
	// rejected ones.
	EventsProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "corkboard_events_total",
		Help: "Inbound events processed, by event kind.",
	}, []string{"event"})

	// BroadcastsSent counts fan-outs, one per broadcast regardless of how
	// many clients received it.
	BroadcastsSent = promauto.NewCounter(prometheus.CounterOpts{
		Name: "corkboard_broadcasts_total",
		Help: "Events fanned out to all connected clients.",
	})

	// MessagesCreated counts log appends from both text submission and
	// file ingestion.
	MessagesCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "corkboard_messages_created_total",
		Help: "Messages appended to the log.",
	})

	// MessagesDeleted counts completed delete cascades.
	MessagesDeleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "corkboard_messages_deleted_total",
		Help: "Messages removed from the log.",
	})

	// UploadsAccepted counts file ingestions that completed their copy and
	// append.
	UploadsAccepted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "corkboard_uploads_total",
		Help: "File uploads ingested successfully.",
	})

	// ConnectionsActive tracks the current WebSocket client count.
	ConnectionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "corkboard_connections_active",
		Help: "Currently connected WebSocket clients.",
	})
)
