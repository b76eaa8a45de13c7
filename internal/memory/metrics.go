package memory

import "github.com/prometheus/client_golang/prometheus"

// Metrics exposes MemorySystem's per-tag statistics as Prometheus gauges.
// Registration is optional and never sits on the allocation hot path: a
// scrape calls GetStatistics() and sets the gauges from the snapshot.
type Metrics struct {
	system    *MemorySystem
	allocated *prometheus.GaugeVec
	peak      *prometheus.GaugeVec
	allocs    *prometheus.GaugeVec
	frees     *prometheus.GaugeVec
}

// NewMetrics builds the collector set for system. Call Describe/Collect
// through a standard prometheus.Registry, or embed Metrics directly since
// it implements prometheus.Collector.
func NewMetrics(system *MemorySystem) *Metrics {
	labels := []string{"tag"}
	return &Metrics{
		system: system,
		allocated: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "lampy", Subsystem: "memory", Name: "allocated_bytes",
			Help: "Bytes currently attributed to a memory tag.",
		}, labels),
		peak: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "lampy", Subsystem: "memory", Name: "peak_bytes",
			Help: "Peak bytes ever attributed to a memory tag.",
		}, labels),
		allocs: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "lampy", Subsystem: "memory", Name: "alloc_count",
			Help: "Cumulative allocation count per memory tag.",
		}, labels),
		frees: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "lampy", Subsystem: "memory", Name: "dealloc_count",
			Help: "Cumulative deallocation count per memory tag.",
		}, labels),
	}
}

func (m *Metrics) Describe(ch chan<- *prometheus.Desc) {
	m.allocated.Describe(ch)
	m.peak.Describe(ch)
	m.allocs.Describe(ch)
	m.frees.Describe(ch)
}

func (m *Metrics) Collect(ch chan<- prometheus.Metric) {
	for _, s := range m.system.GetStatistics() {
		label := s.Tag.String()
		m.allocated.WithLabelValues(label).Set(float64(s.Allocated))
		m.peak.WithLabelValues(label).Set(float64(s.Peak))
		m.allocs.WithLabelValues(label).Set(float64(s.AllocCount))
		m.frees.WithLabelValues(label).Set(float64(s.DeallocCount))
	}
	m.allocated.Collect(ch)
	m.peak.Collect(ch)
	m.allocs.Collect(ch)
	m.frees.Collect(ch)
}
