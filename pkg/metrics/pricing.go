package metrics

import "github.com/prometheus/client_golang/prometheus"

// PricingMetrics counts discount resolutions by precedence level. All methods
// tolerate a nil receiver so wiring metrics stays optional.
type PricingMetrics struct {
	resolved *prometheus.CounterVec
}

// NewPricingMetrics registers the pricing counters on the provided registerer.
func NewPricingMetrics(reg prometheus.Registerer) *PricingMetrics {
	if reg == nil {
		return &PricingMetrics{}
	}
	resolved := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "discount_resolutions_total",
		Help: "Discount resolutions grouped by the precedence level that won.",
	}, []string{"source"})
	reg.MustRegister(resolved)
	return &PricingMetrics{resolved: resolved}
}

// IncResolved increments the counter for the winning source.
func (p *PricingMetrics) IncResolved(source string) {
	if p == nil || p.resolved == nil {
		return
	}
	p.resolved.WithLabelValues(source).Inc()
}
