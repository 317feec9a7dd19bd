package messaging

import "github.com/prometheus/client_golang/prometheus"

var (
	eventsPublished = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "events_published_total",
			Help: "Envelopes delivered live to the broker.",
		},
		[]string{"exchange"},
	)

	eventsSpooled = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "events_spooled_total",
			Help: "Envelopes written to the durable spool after a failed delivery.",
		},
		[]string{"exchange"},
	)

	eventsDrained = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "events_drained_total",
			Help: "Spooled envelopes delivered on a drain pass.",
		},
		[]string{"exchange"},
	)

	eventsDropped = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "events_dropped_total",
			Help: "Envelopes lost because both the broker and the spool failed.",
		},
		[]string{"exchange"},
	)
)

// RegisterMetrics registers the publisher metrics with the default registry.
// Call once from main.
func RegisterMetrics() {
	prometheus.MustRegister(eventsPublished, eventsSpooled, eventsDrained, eventsDropped)
}
