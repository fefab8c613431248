// Package metrics defines and registers all custom Prometheus metrics for
// the NOMI platform API. It is the single source of truth for metric
// names, labels, and help strings.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "nomi"

// ── Auth policy metrics ───────────────────────────────────────────────────────

// AuthResolutionsTotal counts credential resolution attempts.
// Labels:
//   - scheme: "token", "session", or "none" when no credential was present
//   - result: "ok" or "fail"
var AuthResolutionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_resolutions_total",
		Help:      "Total number of credential resolution attempts, by scheme and result.",
	},
	[]string{"scheme", "result"},
)

// GateRejectionsTotal counts authorization gate rejections.
// Label:
//   - reason: "forbidden-role" or "forbidden-unverified"
var GateRejectionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "gate_rejections_total",
		Help:      "Total number of authorization gate rejections, by reason.",
	},
	[]string{"reason"},
)

// LoginsTotal counts successful logins by credential scheme.
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of successful logins, by credential scheme.",
	},
	[]string{"scheme"},
)

// ── Marketplace metrics ───────────────────────────────────────────────────────

// OrdersCreatedTotal counts orders placed through checkout.
var OrdersCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "orders_created_total",
		Help:      "Total number of orders placed.",
	},
)

// OrderTransitionsTotal counts order status transitions.
// Label:
//   - status: the status the order moved to (e.g. "paid", "cancelled")
var OrderTransitionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "order_transitions_total",
		Help:      "Total number of order status transitions, by target status.",
	},
	[]string{"status"},
)
