// Package metrics records relay activity.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector defines the metrics the relay reports. Labels never carry
// session identifiers.
type Collector interface {
	ConnectionOpened()
	ConnectionClosed()

	SessionRegistered()
	SessionRemoved(reason string)
	SessionJoined()

	MessageReceived(messageType string, sizeBytes int)
	MessageForwarded(messageType string)
	MessageRejected(messageType, reason string)
	SendDropped()

	// Handler returns an HTTP handler for the metrics endpoint.
	Handler() http.Handler
}

// PrometheusCollector implements Collector on a Prometheus registry.
type PrometheusCollector struct {
	gatherer prometheus.Gatherer

	activeConnections prometheus.Gauge
	connectionsTotal  prometheus.Counter

	activeSessions prometheus.Gauge
	registrations  prometheus.Counter
	removals       *prometheus.CounterVec
	joins          prometheus.Counter

	messagesReceived  *prometheus.CounterVec
	messagesForwarded *prometheus.CounterVec
	messagesRejected  *prometheus.CounterVec
	messageSize       *prometheus.HistogramVec
	sendDropped       prometheus.Counter
}

// NewPrometheusCollector registers the relay metrics on reg.
func NewPrometheusCollector(reg *prometheus.Registry) *PrometheusCollector {
	f := promauto.With(reg)
	return &PrometheusCollector{
		gatherer: reg,

		activeConnections: f.NewGauge(prometheus.GaugeOpts{
			Name: "relay_active_connections",
			Help: "Number of open signaling connections",
		}),
		connectionsTotal: f.NewCounter(prometheus.CounterOpts{
			Name: "relay_connections_total",
			Help: "Total number of accepted signaling connections",
		}),

		activeSessions: f.NewGauge(prometheus.GaugeOpts{
			Name: "relay_active_sessions",
			Help: "Number of sessions in the registry",
		}),
		registrations: f.NewCounter(prometheus.CounterOpts{
			Name: "relay_session_registrations_total",
			Help: "Total number of session registrations",
		}),
		removals: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "relay_session_removals_total",
				Help: "Total number of sessions removed from the registry",
			},
			[]string{"reason"},
		),
		joins: f.NewCounter(prometheus.CounterOpts{
			Name: "relay_session_joins_total",
			Help: "Total number of successful joins",
		}),

		messagesReceived: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "relay_messages_received_total",
				Help: "Total number of signaling messages received",
			},
			[]string{"message_type"},
		),
		messagesForwarded: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "relay_messages_forwarded_total",
				Help: "Total number of signaling messages forwarded to a peer",
			},
			[]string{"message_type"},
		),
		messagesRejected: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "relay_messages_rejected_total",
				Help: "Total number of signaling messages answered with an error",
			},
			[]string{"message_type", "reason"},
		),
		messageSize: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "relay_message_size_bytes",
				Help:    "Size of received signaling messages in bytes",
				Buckets: prometheus.ExponentialBuckets(64, 2, 10),
			},
			[]string{"message_type"},
		),
		sendDropped: f.NewCounter(prometheus.CounterOpts{
			Name: "relay_send_dropped_total",
			Help: "Messages dropped because a peer's send buffer was full",
		}),
	}
}

func (c *PrometheusCollector) ConnectionOpened() {
	c.activeConnections.Inc()
	c.connectionsTotal.Inc()
}

func (c *PrometheusCollector) ConnectionClosed() { c.activeConnections.Dec() }

func (c *PrometheusCollector) SessionRegistered() {
	c.activeSessions.Inc()
	c.registrations.Inc()
}

func (c *PrometheusCollector) SessionRemoved(reason string) {
	c.activeSessions.Dec()
	c.removals.WithLabelValues(reason).Inc()
}

func (c *PrometheusCollector) SessionJoined() { c.joins.Inc() }

func (c *PrometheusCollector) MessageReceived(messageType string, sizeBytes int) {
	c.messagesReceived.WithLabelValues(messageType).Inc()
	c.messageSize.WithLabelValues(messageType).Observe(float64(sizeBytes))
}

func (c *PrometheusCollector) MessageForwarded(messageType string) {
	c.messagesForwarded.WithLabelValues(messageType).Inc()
}

func (c *PrometheusCollector) MessageRejected(messageType, reason string) {
	c.messagesRejected.WithLabelValues(messageType, reason).Inc()
}

func (c *PrometheusCollector) SendDropped() { c.sendDropped.Inc() }

func (c *PrometheusCollector) Handler() http.Handler {
	return promhttp.HandlerFor(c.gatherer, promhttp.HandlerOpts{})
}

// Nop discards everything.
type Nop struct{}

func (Nop) ConnectionOpened()              {}
func (Nop) ConnectionClosed()              {}
func (Nop) SessionRegistered()             {}
func (Nop) SessionRemoved(string)          {}
func (Nop) SessionJoined()                 {}
func (Nop) MessageReceived(string, int)    {}
func (Nop) MessageForwarded(string)        {}
func (Nop) MessageRejected(string, string) {}
func (Nop) SendDropped()                   {}
func (Nop) Handler() http.Handler          { return http.NotFoundHandler() }

var (
	_ Collector = (*PrometheusCollector)(nil)
	_ Collector = Nop{}
)
