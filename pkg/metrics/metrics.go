package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "techlab"

var (
	RateLimitAllowed = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "rate_limit_allowed_total", Help: "Number of allowed requests by limiter type."},
		[]string{"limiter"},
	)
	RateLimitRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "rate_limit_rejected_total", Help: "Number of rejected requests by limiter type."},
		[]string{"limiter"},
	)
	// SignInTotal counts sign-in attempts by outcome: success, invalid_request,
	// not_found, unauthorized, invalid_state, issuance_error.
	SignInTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "auth_sign_in_total", Help: "Number of sign-in attempts by outcome."},
		[]string{"outcome"},
	)
	UserOperations = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "user_operations_total", Help: "Number of user record operations by operation and status."},
		[]string{"operation", "status"},
	)
)

func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(RateLimitAllowed)
	reg.MustRegister(RateLimitRejected)
	reg.MustRegister(SignInTotal)
	reg.MustRegister(UserOperations)
}
