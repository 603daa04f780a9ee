// Package metrics mirrors the engine's atomic stats block into a
// Prometheus registry for local operational visibility. It is an
// ambient addition: the spec's §6 network surface is exactly the
// telemetry TCP port, so this package never binds an HTTP listener
// itself — an embedder wires promhttp.Handler() onto its own mux if it
// wants these scraped.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Collector holds the engine's operational gauges and counters.
type Collector struct {
	Registry *prometheus.Registry

	OrdersGenerated prometheus.Counter
	TradesExecuted  prometheus.Counter
	MidPrice        prometheus.Gauge
	BestBid         prometheus.Gauge
	BestAsk         prometheus.Gauge
	ClientsConnected prometheus.Gauge
	OrdersPerSecond prometheus.Gauge
}

// New creates a Collector with all series registered against a fresh
// registry.
func New(symbol string) *Collector {
	reg := prometheus.NewRegistry()
	constLabels := prometheus.Labels{"symbol": symbol}

	c := &Collector{
		Registry: reg,
		OrdersGenerated: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "hfengine_orders_generated_total",
			Help:        "Total synthetic orders submitted to the book.",
			ConstLabels: constLabels,
		}),
		TradesExecuted: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "hfengine_trades_executed_total",
			Help:        "Total trades executed by the matching engine.",
			ConstLabels: constLabels,
		}),
		MidPrice: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "hfengine_mid_price",
			Help:        "Current mid price.",
			ConstLabels: constLabels,
		}),
		BestBid: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "hfengine_best_bid",
			Help:        "Current best bid price.",
			ConstLabels: constLabels,
		}),
		BestAsk: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "hfengine_best_ask",
			Help:        "Current best ask price.",
			ConstLabels: constLabels,
		}),
		ClientsConnected: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "hfengine_clients_connected",
			Help:        "Current number of accepted telemetry clients.",
			ConstLabels: constLabels,
		}),
		OrdersPerSecond: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "hfengine_orders_per_second",
			Help:        "Session-average generator throughput.",
			ConstLabels: constLabels,
		}),
	}

	reg.MustRegister(
		c.OrdersGenerated,
		c.TradesExecuted,
		c.MidPrice,
		c.BestBid,
		c.BestAsk,
		c.ClientsConnected,
		c.OrdersPerSecond,
	)

	return c
}
