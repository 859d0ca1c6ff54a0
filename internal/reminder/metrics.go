package reminder

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	globalMetrics *Metrics
	metricsOnce   sync.Once
)

// Metrics holds Prometheus metrics for the reminder sweep.
type Metrics struct {
	SweepsTotal        prometheus.Counter
	TasksDueTotal      prometheus.Counter
	RemindersSentTotal prometheus.Counter
	SendFailuresTotal  prometheus.Counter
	SweepDuration      prometheus.Histogram
}

// NewMetrics creates and registers the reminder metrics. Registration happens
// once per process; later calls return the same set.
func NewMetrics() *Metrics {
	metricsOnce.Do(func() {
		globalMetrics = &Metrics{
			SweepsTotal: promauto.NewCounter(prometheus.CounterOpts{
				Name: "reminder_sweeps_total",
				Help: "Total number of reminder sweeps run",
			}),
			TasksDueTotal: promauto.NewCounter(prometheus.CounterOpts{
				Name: "reminder_tasks_due_total",
				Help: "Total number of due tasks found by sweeps",
			}),
			RemindersSentTotal: promauto.NewCounter(prometheus.CounterOpts{
				Name: "reminder_sent_total",
				Help: "Total number of reminders delivered",
			}),
			SendFailuresTotal: promauto.NewCounter(prometheus.CounterOpts{
				Name: "reminder_send_failures_total",
				Help: "Total number of reminder deliveries that failed",
			}),
			SweepDuration: promauto.NewHistogram(prometheus.HistogramOpts{
				Name:    "reminder_sweep_duration_seconds",
				Help:    "Duration of reminder sweeps in seconds",
				Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
			}),
		}
	})
	return globalMetrics
}
