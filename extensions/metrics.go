package extensions

import "github.com/prometheus/client_golang/prometheus"

// Metrics instruments the lens. All metrics are labeled by the kind of
// storage read: "tick_bitmap" or "tick_info".
type Metrics struct {
	loads        *prometheus.CounterVec
	loadErrors   *prometheus.CounterVec
	loadDuration *prometheus.HistogramVec
}

func NewMetrics(registry prometheus.Registerer) *Metrics {
	m := &Metrics{
		loads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "uniswapv4",
			Subsystem: "lens",
			Name:      "loads_total",
			Help:      "Number of successful extsload reads.",
		}, []string{"kind"}),
		loadErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "uniswapv4",
			Subsystem: "lens",
			Name:      "load_errors_total",
			Help:      "Number of failed extsload reads.",
		}, []string{"kind"}),
		loadDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "uniswapv4",
			Subsystem: "lens",
			Name:      "load_duration_seconds",
			Help:      "Latency of extsload reads.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"kind"}),
	}
	registry.MustRegister(m.loads, m.loadErrors, m.loadDuration)
	return m
}
