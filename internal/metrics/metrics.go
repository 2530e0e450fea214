// Package metrics exposes Prometheus counters for the polling pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Event kinds used as label values of the events counter.
const (
	KindNew       = "new"
	KindPriceDrop = "price_drop"
)

// Collector records pipeline metrics. A nil *Collector is valid and records nothing.
type Collector struct {
	ticks               prometheus.Counter
	subscriptionsPolled prometheus.Counter
	activeSubscriptions prometheus.Gauge
	fetchFailures       prometheus.Counter
	events              *prometheus.CounterVec
	sendFailures        prometheus.Counter
}

// NewCollector creates a Collector and registers its metrics with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		ticks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "wallbot_poll_ticks_total",
			Help: "Number of completed poll cycles",
		}),
		subscriptionsPolled: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "wallbot_subscriptions_polled_total",
			Help: "Number of subscription searches executed",
		}),
		activeSubscriptions: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "wallbot_active_subscriptions",
			Help: "Active subscriptions seen in the last poll cycle",
		}),
		fetchFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "wallbot_fetch_failures_total",
			Help: "Number of failed marketplace searches",
		}),
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "wallbot_events_total",
			Help: "Detected listing events by kind",
		}, []string{"kind"}),
		sendFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "wallbot_notification_failures_total",
			Help: "Number of notifications that could not be delivered",
		}),
	}

	reg.MustRegister(
		c.ticks,
		c.subscriptionsPolled,
		c.activeSubscriptions,
		c.fetchFailures,
		c.events,
		c.sendFailures,
	)

	return c
}

// RecordTick records a completed poll cycle over n active subscriptions.
func (c *Collector) RecordTick(n int) {
	if c == nil {
		return
	}
	c.ticks.Inc()
	c.activeSubscriptions.Set(float64(n))
}

func (c *Collector) RecordSubscriptionPolled() {
	if c == nil {
		return
	}
	c.subscriptionsPolled.Inc()
}

func (c *Collector) RecordFetchFailure() {
	if c == nil {
		return
	}
	c.fetchFailures.Inc()
}

// RecordEvent counts a NEW or PRICE_DROP event.
func (c *Collector) RecordEvent(kind string) {
	if c == nil {
		return
	}
	c.events.WithLabelValues(kind).Inc()
}

func (c *Collector) RecordSendFailure() {
	if c == nil {
		return
	}
	c.sendFailures.Inc()
}
