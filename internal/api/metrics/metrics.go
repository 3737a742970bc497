// Package metrics defines and registers all custom Prometheus metrics for the
// Energy Bank API. It is the single source of truth for metric names, labels,
// and help strings. Metrics register with the default registry via promauto
// at package load.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "energybank"

// ── Mining metrics ────────────────────────────────────────────────────────────

// HeartbeatsProcessedTotal counts heartbeats that completed accrual.
// Label:
//   - rank: the user's bonus rank at the time ("Bronze" … "Diamond")
var HeartbeatsProcessedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "heartbeats_processed_total",
		Help:      "Total number of mining heartbeats successfully processed.",
	},
	[]string{"rank"},
)

// HeartbeatErrorsTotal counts heartbeats that failed.
// Label:
//   - reason: short failure description (e.g. "apply_failed")
var HeartbeatErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "heartbeat_errors_total",
		Help:      "Total number of mining heartbeats that failed processing.",
	},
	[]string{"reason"},
)

// BalanceAccruedTotal accumulates the monetary amount credited by heartbeats.
var BalanceAccruedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "balance_accrued_total",
		Help:      "Total currency units credited to balances by mining accrual.",
	},
)

// HeartbeatDuration measures heartbeat handling from user load to persistence.
var HeartbeatDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "heartbeat_duration_seconds",
		Help:      "Duration of heartbeat processing.",
		Buckets:   prometheus.DefBuckets,
	},
)

// ── Ledger metrics ────────────────────────────────────────────────────────────

// TransactionsCreatedTotal counts new ledger entries by type.
// Label:
//   - type: "deposit", "withdrawal" or "purchase"
var TransactionsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "transactions_created_total",
		Help:      "Total number of transactions created, by type.",
	},
	[]string{"type"},
)

// SettlementsTotal counts admin settlements.
// Labels:
//   - type: the settled transaction's type
//   - status: "completed" or "failed"
var SettlementsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "settlements_total",
		Help:      "Total number of admin settlements, by transaction type and outcome.",
	},
	[]string{"type", "status"},
)
