package service

import "github.com/prometheus/client_golang/prometheus"

// Metrics counts core outcomes. A nil *Metrics records nothing.
type Metrics struct {
	Registrations *prometheus.CounterVec
	Logins        *prometheus.CounterVec
	Denials       *prometheus.CounterVec
	Invites       *prometheus.CounterVec
}

// NewMetrics creates and registers the service metrics.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Registrations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "orgauth_registrations_total",
			Help: "Registration attempts by outcome",
		}, []string{"outcome"}),
		Logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "orgauth_logins_total",
			Help: "Login attempts by outcome",
		}, []string{"outcome"}),
		Denials: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "orgauth_authorization_denials_total",
			Help: "Ownership checks that denied the caller, by reason",
		}, []string{"reason"}),
		Invites: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "orgauth_invites_total",
			Help: "Invite dispatch attempts by outcome",
		}, []string{"outcome"}),
	}

	reg.MustRegister(m.Registrations, m.Logins, m.Denials, m.Invites)
	return m
}

func (m *Metrics) registration(outcome string) {
	if m != nil {
		m.Registrations.WithLabelValues(outcome).Inc()
	}
}

func (m *Metrics) login(outcome string) {
	if m != nil {
		m.Logins.WithLabelValues(outcome).Inc()
	}
}

func (m *Metrics) denial(reason string) {
	if m != nil {
		m.Denials.WithLabelValues(reason).Inc()
	}
}

func (m *Metrics) invite(outcome string) {
	if m != nil {
		m.Invites.WithLabelValues(outcome).Inc()
	}
}
