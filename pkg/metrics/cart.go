package metrics

import "github.com/prometheus/client_golang/prometheus"

// CartMetrics observes cart mutations. The size histogram is fed the cart's
// item count after each change, so drop-off between browsing and checkout
// shows up as a shift in the distribution.
type CartMetrics struct {
	mutations prometheus.Counter
	cartSize  prometheus.Histogram
}

// NewCartMetrics registers the cart collectors on the provided registerer.
func NewCartMetrics(reg prometheus.Registerer) *CartMetrics {
	if reg == nil {
		return &CartMetrics{}
	}
	mutations := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cart_mutations_total",
		Help: "Cart adds, quantity changes, removals, and clears.",
	})
	cartSize := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "cart_items",
		Help:    "Total item count of a cart after a mutation.",
		Buckets: []float64{0, 1, 2, 3, 5, 8, 13, 21, 34},
	})
	reg.MustRegister(mutations, cartSize)
	return &CartMetrics{mutations: mutations, cartSize: cartSize}
}

// ObserveMutation records one cart mutation and the resulting item count.
func (c *CartMetrics) ObserveMutation(totalItems int) {
	if c == nil || c.mutations == nil {
		return
	}
	c.mutations.Inc()
	c.cartSize.Observe(float64(totalItems))
}
