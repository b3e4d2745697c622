package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Metrics counts the dispatch pipeline's outcomes. Transport failures are
// swallowed by design, so the counter is the only place they remain visible.
type Metrics struct {
	PublishedEnvelopes prometheus.Counter
	TransportFailures  prometheus.Counter
	OfflineBuffered    prometheus.Counter
	OfflineDropped     prometheus.Counter
	StoreFailures      prometheus.Counter
}

func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

func New(reg *prometheus.Registry) *Metrics {
	m := &Metrics{
		PublishedEnvelopes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "notifications_published_envelopes_total",
			Help: "Envelopes successfully published to a topic.",
		}),
		TransportFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "notifications_transport_failures_total",
			Help: "Topic publishes that failed and were swallowed.",
		}),
		OfflineBuffered: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "notifications_offline_buffered_total",
			Help: "Messages routed to the offline buffer.",
		}),
		OfflineDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "notifications_offline_dropped_total",
			Help: "Offline messages dropped because the buffer was full.",
		}),
		StoreFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "notifications_store_failures_total",
			Help: "Store writes that failed in a delivery path.",
		}),
	}
	reg.MustRegister(
		m.PublishedEnvelopes,
		m.TransportFailures,
		m.OfflineBuffered,
		m.OfflineDropped,
		m.StoreFailures,
	)
	return m
}
