package telemetry

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/marketsim/hfengine/internal/generator"
	"github.com/marketsim/hfengine/internal/metrics"
	"github.com/marketsim/hfengine/internal/orderbook"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Broadcaster is the subset of transport.Server the Publisher needs.
type Broadcaster interface {
	Broadcast(payload []byte)
}

// Publisher owns one worker thread that wakes at its configured
// interval, samples the book and generator, and broadcasts one record.
type Publisher struct {
	book      *orderbook.Book
	gen       *generator.Generator
	out       Broadcaster
	metrics   *metrics.Collector
	logger    *zap.Logger
	depth     int
	interval  time.Duration

	// lastOrdersTotal is the OrdersGenerated reading as of the previous
	// sample, used to turn the generator's cumulative counter into the
	// delta a prometheus.Counter expects from Add. Only ever touched
	// from the single worker goroutine in run/sample.
	lastOrdersTotal uint64

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// New creates a Publisher that samples book and gen every interval and
// broadcasts through out. metrics may be nil to skip mirroring.
func New(book *orderbook.Book, gen *generator.Generator, out Broadcaster, metricsCollector *metrics.Collector, interval time.Duration, depth int, logger *zap.Logger) *Publisher {
	return &Publisher{
		book:     book,
		gen:      gen,
		out:      out,
		metrics:  metricsCollector,
		logger:   logger,
		depth:    depth,
		interval: interval,
	}
}

// Start spawns the sampling worker. A second Start while running is a no-op.
func (p *Publisher) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.running {
		return
	}
	p.running = true

	ctx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel

	p.wg.Add(1)
	go p.run(ctx)
}

// Stop signals the worker to exit and joins it. Idempotent.
func (p *Publisher) Stop() {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return
	}
	p.running = false
	cancel := p.cancel
	p.mu.Unlock()

	cancel()
	p.wg.Wait()
}

func (p *Publisher) run(ctx context.Context) {
	defer p.wg.Done()

	// A rate.Limiter with one token per interval gives the same
	// best-effort cadence a ticker-with-sleep-residual would: Wait
	// already accounts for time spent building and broadcasting the
	// previous record.
	limiter := rate.NewLimiter(rate.Every(p.interval), 1)

	for {
		if err := limiter.Wait(ctx); err != nil {
			return
		}

		payload, err := p.sample()
		if err != nil {
			p.logger.Warn("failed to marshal telemetry record", zap.Error(err))
			continue
		}
		p.out.Broadcast(payload)
	}
}

func (p *Publisher) sample() ([]byte, error) {
	bestBid := p.book.BestBid()
	bestAsk := p.book.BestAsk()
	spread := p.book.Spread()
	mid := p.book.MidPrice()

	bids := p.book.TopBids(p.depth)
	asks := p.book.TopAsks(p.depth)

	totalOrders := p.gen.Stats.OrdersGenerated()

	rec := record{
		Type:            "telemetry",
		Timestamp:       time.Now().UnixMilli(),
		Symbol:          p.book.Symbol(),
		Price:           price2f(p.gen.Stats.CurrentPrice()),
		High:            price2f(p.gen.Stats.HighPrice()),
		Low:             price2f(p.gen.Stats.LowPrice()),
		BestBid:         price2f(bestBid),
		BestAsk:         price2f(bestAsk),
		Spread:          price2f(spread),
		MidPrice:        price2f(mid),
		OrdersPerSecond: ops0f(p.gen.Stats.OrdersPerSecond()),
		TotalOrders:     totalOrders,
		TotalTrades:     p.book.TradeCount(),
		Bids:            toDepthEntries(bids),
		Asks:            toDepthEntries(asks),
	}

	if p.metrics != nil {
		p.metrics.MidPrice.Set(mid)
		p.metrics.BestBid.Set(bestBid)
		p.metrics.BestAsk.Set(bestAsk)
		p.metrics.OrdersPerSecond.Set(p.gen.Stats.OrdersPerSecond())
		if totalOrders > p.lastOrdersTotal {
			p.metrics.OrdersGenerated.Add(float64(totalOrders - p.lastOrdersTotal))
		}
		p.lastOrdersTotal = totalOrders
	}

	return json.Marshal(rec)
}

func toDepthEntries(levels []orderbook.PriceLevel) []depthEntry {
	out := make([]depthEntry, 0, len(levels))
	for _, l := range levels {
		out = append(out, depthEntry{Price: price2f(l.Price), Size: size4f(l.Quantity)})
	}
	return out
}
