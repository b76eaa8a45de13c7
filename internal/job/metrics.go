package job

import "github.com/prometheus/client_golang/prometheus"

// Metrics exposes job-system throughput counters to Prometheus. Like the
// memory package's Metrics, this is pull-based: Collect snapshots the
// atomic counters, never touching the scheduler's hot path.
type Metrics struct {
	system    *System
	submitted *prometheus.Desc
	completed *prometheus.Desc
	workers   *prometheus.Desc
}

func NewMetrics(system *System) *Metrics {
	return &Metrics{
		system: system,
		submitted: prometheus.NewDesc("lampy_job_submitted_total",
			"Total jobs submitted to the scheduler.", nil, nil),
		completed: prometheus.NewDesc("lampy_job_completed_total",
			"Total jobs that finished executing.", nil, nil),
		workers: prometheus.NewDesc("lampy_job_workers",
			"Configured worker goroutine count.", nil, nil),
	}
}

func (m *Metrics) Describe(ch chan<- *prometheus.Desc) {
	ch <- m.submitted
	ch <- m.completed
	ch <- m.workers
}

func (m *Metrics) Collect(ch chan<- prometheus.Metric) {
	s := m.system.StatsSnapshot()
	ch <- prometheus.MustNewConstMetric(m.submitted, prometheus.CounterValue, float64(s.Submitted))
	ch <- prometheus.MustNewConstMetric(m.completed, prometheus.CounterValue, float64(s.Completed))
	ch <- prometheus.MustNewConstMetric(m.workers, prometheus.GaugeValue, float64(s.Workers))
}
