// Package orderbook implements a price-time-priority limit order book
// for a single instrument: two price-indexed ladders of FIFO queues,
// an id index for O(1) cancel, and the matching procedure that crosses
// an incoming order against the opposite ladder.
package orderbook

import "container/list"

// Side identifies which ladder an order belongs to.
type Side int8

const (
	Bid Side = iota
	Ask
)

func (s Side) String() string {
	if s == Bid {
		return "BID"
	}
	return "ASK"
}

// Order is the book's resting/incoming unit. Quantity is decremented
// in place during matching; an order with Quantity <= 0 is filled.
type Order struct {
	ID        int64
	Side      Side
	Price     float64
	Quantity  float64
	Timestamp int64

	// elem is this order's slot in its price level's FIFO queue, set
	// only while the order is resting.
	elem *list.Element
}

// Trade records one match between a resting maker and an incoming
// aggressor. Price is always the maker's price.
type Trade struct {
	BidOrderID int64
	AskOrderID int64
	Price      float64
	Quantity   float64
	Timestamp  int64
}

// TradeCallback is invoked synchronously, once per trade, on the
// caller's thread for every trade produced inside Add.
type TradeCallback func(Trade)

// PriceLevel is a read-only view of one aggregated price level,
// returned by TopBids/TopAsks.
type PriceLevel struct {
	Price    float64
	Quantity float64
}
