package metrics

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"
)

// AuthMetrics records counters for the login and audit pipelines.
type AuthMetrics struct {
	loginAttempts *prometheus.CounterVec
	auditRecords  *prometheus.CounterVec
	auditFailures prometheus.Counter
}

// NewAuthMetrics registers the auth pipeline metrics on the provided
// registerer. A nil registerer yields a no-op instance for tests.
func NewAuthMetrics(reg prometheus.Registerer) *AuthMetrics {
	if reg == nil {
		return &AuthMetrics{}
	}
	loginAttempts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "login_attempts_total",
		Help: "Login attempts by outcome.",
	}, []string{"result"})
	auditRecords := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "audit_records_total",
		Help: "Audit entries written, by action.",
	}, []string{"action"})
	auditFailures := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "audit_record_failures_total",
		Help: "Audit entry writes that failed.",
	})
	reg.MustRegister(loginAttempts, auditRecords, auditFailures)
	return &AuthMetrics{
		loginAttempts: loginAttempts,
		auditRecords:  auditRecords,
		auditFailures: auditFailures,
	}
}

// IncLogin increments the login counter for the given outcome.
func (m *AuthMetrics) IncLogin(result string) {
	if m == nil || m.loginAttempts == nil {
		return
	}
	m.loginAttempts.WithLabelValues(normalizeLabel(result)).Inc()
}

// IncAuditRecord increments the audit write counter for the given action.
func (m *AuthMetrics) IncAuditRecord(action string) {
	if m == nil || m.auditRecords == nil {
		return
	}
	m.auditRecords.WithLabelValues(normalizeLabel(action)).Inc()
}

// IncAuditFailure increments the audit failure counter.
func (m *AuthMetrics) IncAuditFailure() {
	if m == nil || m.auditFailures == nil {
		return
	}
	m.auditFailures.Inc()
}

func normalizeLabel(value string) string {
	value = strings.TrimSpace(strings.ToLower(value))
	if value == "" {
		return "unknown"
	}
	return value
}
