package generator

import (
	"math"
	"sync/atomic"
)

// Stats is the block of individually-atomic scalars the Generator
// exposes read-only to the Telemetry Publisher. There is no
// cross-field snapshot by design: a reader may observe ordersGenerated
// advance between reading currentPrice and high/low.
type Stats struct {
	ordersGenerated atomic.Uint64
	tradesExecuted  atomic.Uint64
	currentPrice    atomic.Uint64 // math.Float64bits
	highPrice       atomic.Uint64
	lowPrice        atomic.Uint64
	ordersPerSecond atomic.Uint64
	running         atomic.Bool
}

func storeFloat(a *atomic.Uint64, v float64) { a.Store(math.Float64bits(v)) }
func loadFloat(a *atomic.Uint64) float64     { return math.Float64frombits(a.Load()) }

// OrdersGenerated returns the total number of orders produced so far.
func (s *Stats) OrdersGenerated() uint64 { return s.ordersGenerated.Load() }

// TradesExecuted returns the trade count mirrored from the order book.
func (s *Stats) TradesExecuted() uint64 { return s.tradesExecuted.Load() }

// CurrentPrice returns the generator's current mid price.
func (s *Stats) CurrentPrice() float64 { return loadFloat(&s.currentPrice) }

// HighPrice returns the session high mid price.
func (s *Stats) HighPrice() float64 { return loadFloat(&s.highPrice) }

// LowPrice returns the session low mid price.
func (s *Stats) LowPrice() float64 { return loadFloat(&s.lowPrice) }

// OrdersPerSecond returns the session-average throughput
// (cumulative orders / cumulative elapsed seconds), not an EWMA.
func (s *Stats) OrdersPerSecond() float64 { return loadFloat(&s.ordersPerSecond) }

// Running reports whether the generator's worker is active.
func (s *Stats) Running() bool { return s.running.Load() }
