// Package metrics defines and registers all custom Prometheus metrics for
// the LocalLink booking API. It is the single source of truth for metric
// names, labels, and help strings.
//
// Metrics are registered with the default registry via promauto at package
// load; the /metrics endpoint is mounted by the router.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "locallink"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// SignupsTotal counts successful registrations.
// Label:
//   - role: the role the account was created with ("client" or "provider")
var SignupsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "signups_total",
		Help:      "Total number of accounts created, by role.",
	},
	[]string{"role"},
)

// LoginsTotal counts login attempts by outcome.
// Label:
//   - result: "success", "invalid_credentials", "disabled", or "throttled"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// PasswordHashDuration measures bcrypt hashing latency. Hashing is
// intentionally CPU-expensive; this histogram makes cost regressions visible.
var PasswordHashDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "password_hash_duration_seconds",
		Help:      "Duration of password hashing operations.",
		Buckets:   prometheus.DefBuckets,
	},
)

// ── Booking metrics ───────────────────────────────────────────────────────────

// BookingsCreatedTotal counts newly created bookings. Every booking starts
// in the pending state.
var BookingsCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "bookings_created_total",
		Help:      "Total number of bookings created.",
	},
)

// BookingStatusChangesTotal counts applied status transitions.
// Labels:
//   - status: the new booking status
//   - actor: "client" (self-service path) or "staff" (admin/provider path)
var BookingStatusChangesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "booking_status_changes_total",
		Help:      "Total number of booking status transitions applied, by new status and actor.",
	},
	[]string{"status", "actor"},
)

// CascadeDeletesTotal counts rows removed by cascade deletes.
// Label:
//   - entity: the dependent entity removed ("service" or "booking")
var CascadeDeletesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cascade_deletes_total",
		Help:      "Total number of dependent rows removed by cascade deletes, by entity.",
	},
	[]string{"entity"},
)
