package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	loginsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_logins_total",
			Help: "Login attempts by outcome",
		},
		[]string{"outcome"},
	)

	registrationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_registrations_total",
			Help: "Registration attempts by outcome",
		},
		[]string{"outcome"},
	)

	lockoutsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "auth_lockouts_triggered_total",
			Help: "Account lockouts triggered by repeated failures",
		},
	)

	sessionEvictionsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "auth_session_evictions_total",
			Help: "Sessions evicted by the concurrent-session cap",
		},
	)
)
