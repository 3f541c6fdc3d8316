// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import "github.com/prometheus/client_golang/prometheus"

// Outcome labels of the authentication counters.
const (
	outcomeSuccess           = "success"
	outcomeTwoFactorRequired = "two_factor_required"
	outcomeInvalidCredential = "invalid_credentials"
	outcomeInvalidCode       = "invalid_code"
	outcomeExpired           = "expired"
	outcomeError             = "error"
)

// Metrics exposes Prometheus collectors for the identity backend.
// A nil *Metrics records nothing.
type Metrics struct {
	logins    *prometheus.CounterVec
	refreshes *prometheus.CounterVec
}

// NewMetrics registers the identity collectors against registerer.
func NewMetrics(registerer prometheus.Registerer) *Metrics {
	metrics := &Metrics{
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "quinca_auth_logins_total",
			Help: "Login and two-factor attempts by outcome",
		}, []string{"outcome"}),
		refreshes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "quinca_auth_refresh_total",
			Help: "Access token refresh attempts by outcome",
		}, []string{"outcome"}),
	}
	registerer.MustRegister(metrics.logins, metrics.refreshes)
	return metrics
}

func (metrics *Metrics) login(outcome string) {
	if metrics == nil {
		return
	}
	metrics.logins.WithLabelValues(outcome).Inc()
}

func (metrics *Metrics) refresh(outcome string) {
	if metrics == nil {
		return
	}
	metrics.refreshes.WithLabelValues(outcome).Inc()
}
