package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics bundles the prometheus instruments for notification dispatch and
// the periodic scheduler.
type Metrics struct {
	dispatchChannel *prometheus.CounterVec
	dispatchErrors  prometheus.Counter
	digestQueued    *prometheus.CounterVec

	jobRuns     *prometheus.CounterVec
	jobErrors   *prometheus.CounterVec
	jobTimeouts *prometheus.CounterVec
	jobDuration *prometheus.HistogramVec
}

const (
	ChannelEmail    = "email"
	ChannelInternal = "internal"
	ChannelSlack    = "slack"
)

// New registers the instruments on the given registerer. Pass a private
// registry in tests.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		dispatchChannel: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sentinel_notifications_dispatched_total",
			Help: "Notifications handed off per delivery channel.",
		}, []string{"channel"}),
		dispatchErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sentinel_notification_dispatch_errors_total",
			Help: "Per-subscriber dispatch failures.",
		}),
		digestQueued: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sentinel_digest_emails_queued_total",
			Help: "Digest delivery jobs queued per frequency.",
		}, []string{"frequency"}),
		jobRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sentinel_scheduler_job_runs_total",
			Help: "Scheduler job executions.",
		}, []string{"job"}),
		jobErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sentinel_scheduler_job_errors_total",
			Help: "Scheduler job failures.",
		}, []string{"job"}),
		jobTimeouts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sentinel_scheduler_job_timeouts_total",
			Help: "Scheduler jobs that hit their deadline.",
		}, []string{"job"}),
		jobDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "sentinel_scheduler_job_duration_seconds",
			Help:    "Scheduler job duration.",
			Buckets: prometheus.DefBuckets,
		}, []string{"job"}),
	}

	reg.MustRegister(
		m.dispatchChannel,
		m.dispatchErrors,
		m.digestQueued,
		m.jobRuns,
		m.jobErrors,
		m.jobTimeouts,
		m.jobDuration,
	)
	return m
}

func (m *Metrics) IncDispatched(channel string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.dispatchChannel.WithLabelValues(channel).Add(float64(n))
}

func (m *Metrics) IncDispatchErrors(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.dispatchErrors.Add(float64(n))
}

func (m *Metrics) IncDigestQueued(frequency string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.digestQueued.WithLabelValues(frequency).Add(float64(n))
}

func (m *Metrics) IncJobRun(job string) {
	if m == nil {
		return
	}
	m.jobRuns.WithLabelValues(job).Inc()
}

func (m *Metrics) IncJobError(job string) {
	if m == nil {
		return
	}
	m.jobErrors.WithLabelValues(job).Inc()
}

func (m *Metrics) IncJobTimeout(job string) {
	if m == nil {
		return
	}
	m.jobTimeouts.WithLabelValues(job).Inc()
}

func (m *Metrics) ObserveJobDuration(job string, d time.Duration) {
	if m == nil {
		return
	}
	m.jobDuration.WithLabelValues(job).Observe(d.Seconds())
}
