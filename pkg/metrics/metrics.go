package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PrintMetrics records outcomes and timings of print jobs and the BLE link.
type PrintMetrics struct {
	jobDuration *prometheus.HistogramVec
	jobs        *prometheus.CounterVec
	chunks      prometheus.Counter
	reconnects  prometheus.Counter
}

// NewPrintMetrics registers the print metrics on the provided registerer.
func NewPrintMetrics(reg prometheus.Registerer) *PrintMetrics {
	if reg == nil {
		return &PrintMetrics{}
	}
	jobDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "print_job_duration_seconds",
		Help:    "Duration of print jobs in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"action"})
	jobs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "print_jobs_total",
		Help: "Print jobs by action and result.",
	}, []string{"action", "result"})
	chunks := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "printer_chunks_written_total",
		Help: "Payload chunks written to the printer characteristic.",
	})
	reconnects := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "printer_reconnects_total",
		Help: "Automatic reconnect attempts after unexpected disconnects.",
	})
	reg.MustRegister(jobDuration, jobs, chunks, reconnects)
	return &PrintMetrics{
		jobDuration: jobDuration,
		jobs:        jobs,
		chunks:      chunks,
		reconnects:  reconnects,
	}
}

// ObserveJob records one finished print job.
func (p *PrintMetrics) ObserveJob(action string, result string, duration time.Duration) {
	if p == nil || p.jobs == nil {
		return
	}
	p.jobs.WithLabelValues(normalizeLabel(action), normalizeLabel(result)).Inc()
	p.jobDuration.WithLabelValues(normalizeLabel(action)).Observe(duration.Seconds())
}

// IncChunks adds written chunks to the transport counter.
func (p *PrintMetrics) IncChunks(n int) {
	if p == nil || p.chunks == nil {
		return
	}
	p.chunks.Add(float64(n))
}

// IncReconnect counts one automatic reconnect attempt.
func (p *PrintMetrics) IncReconnect() {
	if p == nil || p.reconnects == nil {
		return
	}
	p.reconnects.Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
