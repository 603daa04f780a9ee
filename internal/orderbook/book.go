package orderbook

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/marketsim/hfengine/internal/engineerr"
	"go.uber.org/zap"
)

// Book is a single-instrument order book. It is not internally
// lock-free: a coarse mutex guards every public call except Symbol and
// the atomic TradeCount/OrderCount reads, which is the
// default the matching algorithm's spec recommends for a book shared
// between one mutator and best-effort readers.
type Book struct {
	symbol string
	logger *zap.Logger

	mu       sync.Mutex
	bids     *ladder
	asks     *ladder
	index    map[int64]*Order
	nextID   int64
	lastPx   float64
	callback TradeCallback

	tradeCount atomic.Uint64
	orderCount atomic.Uint64
}

// New creates an empty order book for the given instrument symbol.
func New(symbol string, logger *zap.Logger) *Book {
	return &Book{
		symbol: symbol,
		logger: logger,
		bids:   newLadder(Bid),
		asks:   newLadder(Ask),
		index:  make(map[int64]*Order),
	}
}

// Symbol returns the book's instrument identifier.
func (b *Book) Symbol() string { return b.symbol }

// SetTradeCallback installs the single sink invoked synchronously,
// once per trade, from inside Add. The callback must not block; a
// consumer that needs to do real work should hand it to its own queue.
func (b *Book) SetTradeCallback(cb TradeCallback) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.callback = cb
}

// Add creates an order with a freshly allocated id and the current
// nanosecond timestamp, matches it against the opposite ladder, and
// rests any residual quantity. It returns the resting id, or 0 if the
// order was fully filled and never rested.
func (b *Book) Add(side Side, price, quantity float64) (int64, error) {
	if price <= 0 || quantity <= 0 {
		return 0, engineerr.New(engineerr.InvalidArgument, "price and quantity must be positive")
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	order := &Order{
		ID:        b.nextID,
		Side:      side,
		Price:     price,
		Quantity:  quantity,
		Timestamp: time.Now().UnixNano(),
	}

	b.match(order)
	b.orderCount.Add(1)

	if order.Quantity <= 0 {
		return 0, nil
	}

	var own *ladder
	if side == Bid {
		own = b.bids
	} else {
		own = b.asks
	}
	level := own.getOrCreate(price)
	level.push(order)
	b.index[order.ID] = order

	return order.ID, nil
}

// Cancel removes a resting order by id. It returns false if the id is
// not (or no longer) resting.
func (b *Book) Cancel(id int64) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	order, ok := b.index[id]
	if !ok {
		return false
	}

	var own *ladder
	if order.Side == Bid {
		own = b.bids
	} else {
		own = b.asks
	}
	level, ok := own.get(order.Price)
	if ok {
		level.remove(order)
		if level.empty() {
			own.removeLevel(order.Price)
		}
	}
	delete(b.index, id)
	return true
}

// BestBid returns the highest bid price, or 0 if the bid ladder is empty.
func (b *Book) BestBid() float64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.bids.bestPrice()
}

// BestAsk returns the lowest ask price, or 0 if the ask ladder is empty.
func (b *Book) BestAsk() float64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.asks.bestPrice()
}

// Spread returns bestAsk - bestBid, or 0 if either side is empty.
func (b *Book) Spread() float64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.spreadLocked()
}

func (b *Book) spreadLocked() float64 {
	bid, ok1 := b.bids.best()
	ask, ok2 := b.asks.best()
	if !ok1 || !ok2 {
		return 0
	}
	return ask.price - bid.price
}

// MidPrice returns (bestBid+bestAsk)/2 if both sides are populated,
// otherwise the last traded price, or 0 if there has been no trade.
func (b *Book) MidPrice() float64 {
	b.mu.Lock()
	defer b.mu.Unlock()

	bid, ok1 := b.bids.best()
	ask, ok2 := b.asks.best()
	if ok1 && ok2 {
		return (bid.price + ask.price) / 2
	}
	return b.lastPx
}

// TopBids returns up to n (price, aggregateQuantity) pairs, best first.
func (b *Book) TopBids(n int) []PriceLevel {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.bids.top(n)
}

// TopAsks returns up to n (price, aggregateQuantity) pairs, best first.
func (b *Book) TopAsks(n int) []PriceLevel {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.asks.top(n)
}

// TradeCount returns the number of trades executed so far.
func (b *Book) TradeCount() uint64 { return b.tradeCount.Load() }

// OrderCount returns the number of orders accepted by Add so far.
func (b *Book) OrderCount() uint64 { return b.orderCount.Load() }

// Clear drops both ladders, the id index, and the trade counter. The
// id allocator is not reset.
func (b *Book) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.bids = newLadder(Bid)
	b.asks = newLadder(Ask)
	b.index = make(map[int64]*Order)
	b.tradeCount.Store(0)
	b.lastPx = 0
}
