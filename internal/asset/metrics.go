package asset

import "github.com/prometheus/client_golang/prometheus"

// Metrics exposes import throughput and database size as Prometheus
// gauges/histograms, pulled the same way the memory and job systems are.
type Metrics struct {
	importDuration *prometheus.HistogramVec
	databaseSize   prometheus.GaugeFunc
}

// NewMetrics constructs Metrics bound to db's live size. Register it with
// a prometheus.Registerer to expose it.
func NewMetrics(db *Database) *Metrics {
	m := &Metrics{
		importDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "lampy",
			Subsystem: "asset",
			Name:      "import_duration_seconds",
			Help:      "Time spent importing one source asset, by asset type.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"type"}),
	}
	m.databaseSize = prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: "lampy",
		Subsystem: "asset",
		Name:      "database_records",
		Help:      "Number of records currently tracked by the asset database.",
	}, func() float64 { return float64(db.Len()) })
	return m
}

// ObserveImport records how long an import of the given type took.
func (m *Metrics) ObserveImport(t Type, seconds float64) {
	m.importDuration.WithLabelValues(t.String()).Observe(seconds)
}

// Describe implements prometheus.Collector.
func (m *Metrics) Describe(ch chan<- *prometheus.Desc) {
	m.importDuration.Describe(ch)
	m.databaseSize.Describe(ch)
}

// Collect implements prometheus.Collector.
func (m *Metrics) Collect(ch chan<- prometheus.Metric) {
	m.importDuration.Collect(ch)
	m.databaseSize.Collect(ch)
}
