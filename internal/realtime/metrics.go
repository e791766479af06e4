package realtime

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	eventsReceived = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "boardsync_events_received_total",
			Help: "Total number of realtime events received from the stream",
		},
		[]string{"event"},
	)

	eventsSkipped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "boardsync_events_skipped_total",
			Help: "Events that did not mutate the graph, by reason",
		},
		[]string{"event", "reason"},
	)

	reconnectsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "boardsync_stream_reconnects_total",
			Help: "Times the event stream had to be re-established",
		},
	)
)

const (
	skipNotFound   = "not_found"
	skipStale      = "stale"
	skipBadPayload = "bad_payload"
	skipUnknown    = "unknown_event"
)
