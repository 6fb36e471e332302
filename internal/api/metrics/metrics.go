// Package metrics defines the custom Prometheus metrics of the shifts API.
// HTTP request metrics come from echoprometheus; these cover account and
// shift activity the router cannot see.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "shifts"

// ── Account metrics ───────────────────────────────────────────────────────────

// AuthAttemptsTotal counts signup and login attempts.
// Labels:
//   - action: "signup" or "login"
//   - result: "success" or "failure"
var AuthAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_attempts_total",
		Help:      "Total number of signup and login attempts, by outcome.",
	},
	[]string{"action", "result"},
)

// AuthRejectionsTotal counts requests the auth gate turned away.
var AuthRejectionsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_rejections_total",
		Help:      "Total number of requests rejected for missing, invalid or revoked tokens.",
	},
)

// SessionsClosedTotal counts logouts.
// Label:
//   - scope: "single" (one token) or "all" (every token of the user)
var SessionsClosedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sessions_closed_total",
		Help:      "Total number of logouts, by scope.",
	},
	[]string{"scope"},
)

// AccountsDeletedTotal counts deleted accounts.
var AccountsDeletedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "accounts_deleted_total",
		Help:      "Total number of deleted accounts.",
	},
)

// ── Shift metrics ─────────────────────────────────────────────────────────────

// ShiftsCreatedTotal counts shift creations.
// Label:
//   - result: "created", or "replayed" when an Idempotency-Key matched
var ShiftsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "shifts_created_total",
		Help:      "Total number of shift create requests, by result.",
	},
	[]string{"result"},
)

// ShiftsDeletedTotal counts shifts deleted one at a time.
var ShiftsDeletedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "shifts_deleted_total",
		Help:      "Total number of shifts deleted by id.",
	},
)

// Outcome returns the result label for err.
func Outcome(err error) string {
	if err != nil {
		return "failure"
	}
	return "success"
}
