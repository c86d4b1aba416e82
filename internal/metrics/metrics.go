package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	loginSuccessTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "astroflux_login_success_total",
		Help: "Total number of successful admin logins",
	})
	loginFailedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "astroflux_login_failed_total",
		Help: "Total number of failed admin login attempts",
	})
	lockoutsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "astroflux_account_lockouts_total",
		Help: "Total number of account lockouts triggered",
	})
	rateLimitedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "astroflux_rate_limited_total",
		Help: "Total number of requests rejected by the rate limiter",
	}, []string{"endpoint"})
	apiRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "astroflux_public_api_requests_total",
		Help: "Total number of public API requests served",
	}, []string{"endpoint"})
	importRunsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "astroflux_import_runs_total",
		Help: "Total number of horoscope import attempts by source and result",
	}, []string{"source", "result"})
)

// Register registers Prometheus collectors. Call once at startup.
func Register(registry *prometheus.Registry) {
	registry.MustRegister(
		loginSuccessTotal, loginFailedTotal, lockoutsTotal,
		rateLimitedTotal, apiRequestsTotal, importRunsTotal,
	)
}

// IncLoginSuccess increments the successful logins counter.
func IncLoginSuccess() { loginSuccessTotal.Inc() }

// IncLoginFailed increments the failed logins counter.
func IncLoginFailed() { loginFailedTotal.Inc() }

// IncLockout increments the lockouts counter.
func IncLockout() { lockoutsTotal.Inc() }

// IncRateLimited increments the rejected requests counter for an endpoint.
func IncRateLimited(endpoint string) { rateLimitedTotal.WithLabelValues(endpoint).Inc() }

// IncAPIRequest increments the public API requests counter for an endpoint.
func IncAPIRequest(endpoint string) { apiRequestsTotal.WithLabelValues(endpoint).Inc() }

// IncImportRun increments the import attempts counter.
func IncImportRun(source, result string) { importRunsTotal.WithLabelValues(source, result).Inc() }
