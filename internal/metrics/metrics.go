// Package metrics defines and registers the custom Prometheus metrics of the
// qvideo catalog API. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics are registered with the default registry through promauto when the
// package is first imported.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "qvideo"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// AuthenticationsTotal counts credential verifications.
// Labels:
//   - method: "password", "cache" or "token"
//   - result: "success" or "failure"
var AuthenticationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "authentications_total",
		Help:      "Total number of credential verifications, by method and result.",
	},
	[]string{"method", "result"},
)

// RegistrationsTotal counts newly registered users.
// Label:
//   - role: "ADMIN" or "CUSTOMER"
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of registered users, by role.",
	},
	[]string{"role"},
)

// CredentialCacheTotal counts verification cache lookups.
// Label:
//   - result: "hit", "miss" or "error"
var CredentialCacheTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "credential_cache_total",
		Help:      "Total number of credential cache lookups, labelled by result.",
	},
	[]string{"result"},
)

// AccessDeniedTotal counts requests rejected by the access control layer.
// Label:
//   - reason: "unauthenticated" or "forbidden"
var AccessDeniedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "access_denied_total",
		Help:      "Total number of requests rejected before reaching a handler.",
	},
	[]string{"reason"},
)

// ── Catalog metrics ───────────────────────────────────────────────────────────

// VideoMutationsTotal counts successful catalog writes.
// Label:
//   - operation: "create", "update" or "delete"
var VideoMutationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "video_mutations_total",
		Help:      "Total number of catalog mutations, by operation.",
	},
	[]string{"operation"},
)
