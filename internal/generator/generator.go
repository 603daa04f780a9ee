// Package generator produces a stochastic stream of synthetic limit
// orders at an approximate target rate, driving an order book with a
// mean-reverting random-walk mid price.
package generator

import (
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/marketsim/hfengine/internal/orderbook"
	"go.uber.org/zap"
)

// PriceCallback is invoked every callbackInterval orders, on the
// generator's own worker thread.
type PriceCallback func(price float64, ordersSoFar uint64)

// Generator is the sole mutator of its Book in normal operation. It
// owns one worker thread, started and stopped explicitly.
type Generator struct {
	book   *orderbook.Book
	logger *zap.Logger

	basePrice             float64
	targetOrdersPerSecond float64
	batchSize             int
	callbackInterval      uint64
	priceCallback         PriceCallback

	Stats Stats

	mu      sync.Mutex
	running atomic.Bool
	stopCh  chan struct{}
	wg      sync.WaitGroup
	rng     *rand.Rand
}

// New creates a Generator anchored at basePrice, feeding orders into book.
func New(book *orderbook.Book, basePrice float64, logger *zap.Logger) *Generator {
	return &Generator{
		book:      book,
		logger:    logger,
		basePrice: basePrice,
		batchSize: 10000,
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// SetBatchSize overrides the default batch size used for rate pacing.
func (g *Generator) SetBatchSize(n int) {
	if n > 0 {
		g.batchSize = n
	}
}

// SetPriceCallback installs the optional periodic callback, invoked
// every interval orders on the generator's worker thread. Passing a
// zero interval disables it.
func (g *Generator) SetPriceCallback(interval uint64, cb PriceCallback) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.callbackInterval = interval
	g.priceCallback = cb
}

// Start spawns the worker thread targeting the given orders/second. A
// second Start while already running is a no-op.
func (g *Generator) Start(targetOrdersPerSecond float64) {
	if !g.running.CompareAndSwap(false, true) {
		return
	}

	g.mu.Lock()
	g.targetOrdersPerSecond = targetOrdersPerSecond
	g.stopCh = make(chan struct{})
	g.mu.Unlock()

	g.Stats.running.Store(true)
	g.wg.Add(1)
	go g.run()
}

// Stop signals the worker to exit and joins it. Idempotent.
func (g *Generator) Stop() {
	if !g.running.CompareAndSwap(true, false) {
		return
	}
	g.mu.Lock()
	stopCh := g.stopCh
	g.mu.Unlock()
	close(stopCh)
	g.wg.Wait()
	g.Stats.running.Store(false)
}

func (g *Generator) run() {
	defer g.wg.Done()

	start := time.Now()
	mid := g.basePrice
	high := g.basePrice
	low := g.basePrice
	var ordersSoFar uint64

	for {
		select {
		case <-g.stopCh:
			return
		default:
		}

		for i := 0; i < g.batchSize; i++ {
			select {
			case <-g.stopCh:
				return
			default:
			}

			mid = mid * (1 + (g.rng.Float64()*0.02 - 0.01))
			mid += (g.basePrice - mid) * 0.0001

			if mid > high {
				high = mid
			}
			if mid < low {
				low = mid
			}

			side := orderbook.Bid
			if g.rng.Float64() < 0.5 {
				side = orderbook.Ask
			}
			offset := 0.5 + g.rng.Float64()*4.5
			size := 0.001 + g.rng.Float64()*1.999

			price := mid - offset
			if side == orderbook.Ask {
				price = mid + offset
			}

			if _, err := g.book.Add(side, price, size); err != nil {
				g.logger.Debug("generator submitted invalid order", zap.Error(err))
				continue
			}

			ordersSoFar++
			storeFloat(&g.Stats.currentPrice, mid)
			storeFloat(&g.Stats.highPrice, high)
			storeFloat(&g.Stats.lowPrice, low)
			g.Stats.ordersGenerated.Store(ordersSoFar)

			if g.callbackInterval > 0 && ordersSoFar%g.callbackInterval == 0 && g.priceCallback != nil {
				g.priceCallback(mid, ordersSoFar)
			}
		}

		g.Stats.tradesExecuted.Store(g.book.TradeCount())

		elapsed := time.Since(start)
		expected := time.Duration(float64(ordersSoFar) / g.targetOrdersPerSecond * float64(time.Second))
		if elapsed > 0 {
			storeFloat(&g.Stats.ordersPerSecond, float64(ordersSoFar)/elapsed.Seconds())
		}
		if elapsed < expected {
			select {
			case <-time.After(expected - elapsed):
			case <-g.stopCh:
				return
			}
		}
	}
}
