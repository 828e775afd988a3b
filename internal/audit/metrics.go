package audit

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus metrics for the audit engine. Every component
// accepts a nil *Metrics so unit tests avoid duplicate registration.
type Metrics struct {
	Recorded              prometheus.Counter
	PersistFailures       prometheus.Counter
	SerializationFailures prometheus.Counter
	PolicyLookupFailures  prometheus.Counter
	SweepDeleted          prometheus.Counter
	SweepFailures         prometheus.Counter
	TrailReadFailures     prometheus.Counter
}

// NewMetrics creates and registers the audit engine metrics.
func NewMetrics() *Metrics {
	return &Metrics{
		Recorded: promauto.NewCounter(prometheus.CounterOpts{
			Name: "clinicore_audit_recorded_total",
			Help: "Total number of audit entries successfully persisted",
		}),
		PersistFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "clinicore_audit_persist_failures_total",
			Help: "Total number of audit entries lost to persistence failures",
		}),
		SerializationFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "clinicore_audit_serialization_failures_total",
			Help: "Total number of detail payloads dropped because serialization failed",
		}),
		PolicyLookupFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "clinicore_audit_policy_lookup_failures_total",
			Help: "Total number of retention policy lookups that failed",
		}),
		SweepDeleted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "clinicore_audit_sweep_deleted_total",
			Help: "Total number of expired audit entries removed by the sweeper",
		}),
		SweepFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "clinicore_audit_sweep_failures_total",
			Help: "Total number of sweeper runs that failed",
		}),
		TrailReadFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "clinicore_audit_trail_read_failures_total",
			Help: "Total number of trail reads degraded to empty by storage failures",
		}),
	}
}

func (m *Metrics) IncRecorded() {
	if m != nil {
		m.Recorded.Inc()
	}
}

func (m *Metrics) IncPersistFailures() {
	if m != nil {
		m.PersistFailures.Inc()
	}
}

func (m *Metrics) IncSerializationFailures() {
	if m != nil {
		m.SerializationFailures.Inc()
	}
}

func (m *Metrics) IncPolicyLookupFailures() {
	if m != nil {
		m.PolicyLookupFailures.Inc()
	}
}

func (m *Metrics) AddSweepDeleted(n int64) {
	if m != nil && n > 0 {
		m.SweepDeleted.Add(float64(n))
	}
}

func (m *Metrics) IncSweepFailures() {
	if m != nil {
		m.SweepFailures.Inc()
	}
}

func (m *Metrics) IncTrailReadFailures() {
	if m != nil {
		m.TrailReadFailures.Inc()
	}
}
