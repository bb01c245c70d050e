package session

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics collects Prometheus metrics for one or more sessions. Series are
// labelled by role ("cp" or "pd").
type Metrics struct {
	polls         *prometheus.CounterVec
	pollDuration  *prometheus.HistogramVec
	deliveries    *prometheus.CounterVec
	handlerFaults *prometheus.CounterVec
	submissions   *prometheus.CounterVec
	online        *prometheus.GaugeVec
	secure        *prometheus.GaugeVec
}

// NewMetrics creates the session metrics and registers them with reg. A nil
// reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		polls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "osdp",
			Subsystem: "session",
			Name:      "polls_total",
			Help:      "Number of engine poll iterations.",
		}, []string{"role"}),
		pollDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "osdp",
			Subsystem: "session",
			Name:      "poll_duration_seconds",
			Help:      "Time spent inside one engine poll, including callbacks.",
			Buckets:   []float64{.0001, .0005, .001, .005, .01, .05, .1},
		}, []string{"role"}),
		deliveries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "osdp",
			Subsystem: "session",
			Name:      "deliveries_total",
			Help:      "Events or commands queued for the application.",
		}, []string{"role", "type"}),
		handlerFaults: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "osdp",
			Subsystem: "session",
			Name:      "handler_faults_total",
			Help:      "Application handler errors and panics.",
		}, []string{"role"}),
		submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "osdp",
			Subsystem: "session",
			Name:      "submissions_total",
			Help:      "Commands or events submitted to the engine.",
		}, []string{"role", "result"}),
		online: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "osdp",
			Subsystem: "session",
			Name:      "devices_online",
			Help:      "Devices currently online.",
		}, []string{"role"}),
		secure: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "osdp",
			Subsystem: "session",
			Name:      "devices_sc_active",
			Help:      "Devices with an active secure channel.",
		}, []string{"role"}),
	}
	if reg != nil {
		reg.MustRegister(m.polls, m.pollDuration, m.deliveries, m.handlerFaults, m.submissions, m.online, m.secure)
	}
	return m
}

// The methods below accept a nil receiver so call sites need no guard.

func (m *Metrics) observePoll(role string, d time.Duration) {
	if m == nil {
		return
	}
	m.polls.WithLabelValues(role).Inc()
	m.pollDuration.WithLabelValues(role).Observe(d.Seconds())
}

func (m *Metrics) delivered(role, typ string) {
	if m == nil {
		return
	}
	m.deliveries.WithLabelValues(role, typ).Inc()
}

func (m *Metrics) handlerFault(role string) {
	if m == nil {
		return
	}
	m.handlerFaults.WithLabelValues(role).Inc()
}

func (m *Metrics) submitted(role string, accepted bool) {
	if m == nil {
		return
	}
	result := "rejected"
	if accepted {
		result = "accepted"
	}
	m.submissions.WithLabelValues(role, result).Inc()
}

func (m *Metrics) setStatus(role string, online, secure int) {
	if m == nil {
		return
	}
	m.online.WithLabelValues(role).Set(float64(online))
	m.secure.WithLabelValues(role).Set(float64(secure))
}
