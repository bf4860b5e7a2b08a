package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	registrationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "accounts_registrations_total",
			Help: "Registration attempts by result",
		},
		[]string{"result"},
	)

	activationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "accounts_activations_total",
			Help: "Activation link checks by outcome",
		},
		[]string{"outcome"},
	)

	activationMailsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "accounts_activation_emails_total",
			Help: "Activation emails by delivery result",
		},
		[]string{"result"},
	)

	loginsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "accounts_logins_total",
			Help: "Login attempts by result",
		},
		[]string{"result"},
	)

	purgedAccountsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "accounts_purged_inactive_total",
			Help: "Never-activated accounts removed by housekeeping",
		},
	)
)
