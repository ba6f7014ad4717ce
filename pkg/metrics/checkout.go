package metrics

import "github.com/prometheus/client_golang/prometheus"

// CheckoutMetrics counts checkout outcomes. Persistence failures are tracked
// separately because dispatch proceeds even when the order write fails.
type CheckoutMetrics struct {
	ordersSubmitted     prometheus.Counter
	persistenceFailures prometheus.Counter
	dispatches          *prometheus.CounterVec
}

// NewCheckoutMetrics registers the checkout counters on the provided registerer.
func NewCheckoutMetrics(reg prometheus.Registerer) *CheckoutMetrics {
	if reg == nil {
		return &CheckoutMetrics{}
	}
	ordersSubmitted := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "checkout_orders_submitted_total",
		Help: "Orders successfully written by the persistence gateway.",
	})
	persistenceFailures := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "checkout_persistence_failures_total",
		Help: "Order writes that failed but did not block dispatch.",
	})
	dispatches := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_dispatches_total",
		Help: "WhatsApp deep-link dispatches by kind.",
	}, []string{"kind"})
	reg.MustRegister(ordersSubmitted, persistenceFailures, dispatches)
	return &CheckoutMetrics{
		ordersSubmitted:     ordersSubmitted,
		persistenceFailures: persistenceFailures,
		dispatches:          dispatches,
	}
}

// IncOrdersSubmitted increments the persisted-order counter.
func (c *CheckoutMetrics) IncOrdersSubmitted() {
	if c == nil || c.ordersSubmitted == nil {
		return
	}
	c.ordersSubmitted.Inc()
}

// IncPersistenceFailure increments the tolerated-failure counter.
func (c *CheckoutMetrics) IncPersistenceFailure() {
	if c == nil || c.persistenceFailures == nil {
		return
	}
	c.persistenceFailures.Inc()
}

// IncDispatch increments the dispatch counter for the given kind
// ("checkout" or "inquiry").
func (c *CheckoutMetrics) IncDispatch(kind string) {
	if c == nil || c.dispatches == nil {
		return
	}
	if kind == "" {
		kind = "unknown"
	}
	c.dispatches.WithLabelValues(kind).Inc()
}
