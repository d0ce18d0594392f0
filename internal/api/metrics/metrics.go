// Package metrics defines the custom Prometheus metrics for the store API.
// It is the single source of truth for metric names, labels, and help strings.
// Registration happens implicitly via promauto against the default registry.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "mercadito"

// --- Auth metrics ---

// CodesIssuedTotal counts one-time codes persisted and successfully emailed.
// Label:
//   - purpose: "activation", "login", or "reset"
var CodesIssuedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "codes_issued_total",
		Help:      "Total number of one-time verification codes issued, by purpose.",
	},
	[]string{"purpose"},
)

// EmailsSentTotal counts outbound email attempts.
// Labels:
//   - purpose: "activation", "login", or "reset"
//   - result: "ok" or "error"
var EmailsSentTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "emails_sent_total",
		Help:      "Total number of outbound email attempts, by purpose and result.",
	},
	[]string{"purpose", "result"},
)

// --- Cart metrics ---

// CartItemsAddedTotal counts successful cart line merges (new line or
// quantity update).
var CartItemsAddedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cart_items_added_total",
		Help:      "Total number of successful cart add operations.",
	},
)

// StockRejectionsTotal counts cart adds rejected by the stock ceiling.
var StockRejectionsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cart_stock_rejections_total",
		Help:      "Total number of cart add operations rejected because the requested quantity exceeded stock.",
	},
)
