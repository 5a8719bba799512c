// Package metrics exposes Prometheus instrumentation for the matching
// engine. Collectors are registered on the default registry and served
// from the /metrics endpoint.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// OrdersSubmitted counts incoming orders by kind and outcome.
	// Outcomes: filled, partial, rested, killed, discarded, rejected.
	OrdersSubmitted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "clob_orders_submitted_total",
		Help: "Incoming orders by kind and outcome",
	}, []string{"kind", "outcome"})

	// TradesExecuted counts generated trades
	TradesExecuted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "clob_trades_executed_total",
		Help: "Trades produced by the matching engine",
	})

	// TradeVolume accumulates executed quantity
	TradeVolume = promauto.NewCounter(prometheus.CounterOpts{
		Name: "clob_trade_volume_total",
		Help: "Total executed quantity across all trades",
	})

	// StoreErrors counts failed writes to attached trade stores
	StoreErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "clob_trade_store_errors_total",
		Help: "Failed trade mirror writes",
	})

	// RestingOrders tracks the number of open orders per side
	RestingOrders = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "clob_resting_orders",
		Help: "Open resting orders per book side",
	}, []string{"side"})
)
