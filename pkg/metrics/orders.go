package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// OrderMetrics records checkout and lifecycle activity.
type OrderMetrics struct {
	checkoutDuration *prometheus.HistogramVec
	ordersCreated    *prometheus.CounterVec
	transitions      *prometheus.CounterVec
	lowStockAlerts   prometheus.Counter
	outboxPublished  *prometheus.CounterVec
}

// NewOrderMetrics registers the order metrics on the provided registerer.
func NewOrderMetrics(reg prometheus.Registerer) *OrderMetrics {
	if reg == nil {
		return &OrderMetrics{}
	}
	checkoutDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "checkout_duration_seconds",
		Help:    "Duration of checkout requests in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"outcome"})
	ordersCreated := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "orders_created_total",
		Help: "Orders materialized from checkout, by payment method.",
	}, []string{"payment_method"})
	transitions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "order_status_transitions_total",
		Help: "Order status transitions applied.",
	}, []string{"from", "to"})
	lowStockAlerts := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "product_low_stock_alerts_total",
		Help: "Low stock alerts emitted after delivery decrements.",
	})
	outboxPublished := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "outbox_events_published_total",
		Help: "Outbox events pushed to Pub/Sub, by event type.",
	}, []string{"event_type"})
	reg.MustRegister(checkoutDuration, ordersCreated, transitions, lowStockAlerts, outboxPublished)
	return &OrderMetrics{
		checkoutDuration: checkoutDuration,
		ordersCreated:    ordersCreated,
		transitions:      transitions,
		lowStockAlerts:   lowStockAlerts,
		outboxPublished:  outboxPublished,
	}
}

// ObserveCheckout records one checkout request duration with its outcome label.
func (m *OrderMetrics) ObserveCheckout(outcome string, duration time.Duration) {
	if m == nil || m.checkoutDuration == nil {
		return
	}
	m.checkoutDuration.WithLabelValues(normalizeLabel(outcome)).Observe(duration.Seconds())
}

// IncOrderCreated increments the created orders counter.
func (m *OrderMetrics) IncOrderCreated(paymentMethod string) {
	if m == nil || m.ordersCreated == nil {
		return
	}
	m.ordersCreated.WithLabelValues(normalizeLabel(paymentMethod)).Inc()
}

// IncTransition increments the status transition counter.
func (m *OrderMetrics) IncTransition(from, to string) {
	if m == nil || m.transitions == nil {
		return
	}
	m.transitions.WithLabelValues(normalizeLabel(from), normalizeLabel(to)).Inc()
}

// IncLowStockAlert increments the low stock alert counter.
func (m *OrderMetrics) IncLowStockAlert() {
	if m == nil || m.lowStockAlerts == nil {
		return
	}
	m.lowStockAlerts.Inc()
}

// IncOutboxPublished increments the published outbox event counter.
func (m *OrderMetrics) IncOutboxPublished(eventType string) {
	if m == nil || m.outboxPublished == nil {
		return
	}
	m.outboxPublished.WithLabelValues(normalizeLabel(eventType)).Inc()
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
