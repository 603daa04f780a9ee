package orderbook

import (
	rbt "github.com/emirpasic/gods/v2/trees/redblacktree"
)

// priceComparator orders prices ascending; both ladders share it and
// differ only in which end of the tree counts as "best".
func priceComparator(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// ladder is one side of the book: an ordered map from price to a FIFO
// queue of resting orders, realised as a red-black tree (the same
// ordered-map-of-price-levels architecture the pack's sharded price
// tree uses) so the best price is always a single tree-extremum away
// and a new price level costs O(log n) instead of a full resort.
type ladder struct {
	side   Side
	levels *rbt.Tree[float64, *priceLevel]
}

func newLadder(side Side) *ladder {
	return &ladder{
		side:   side,
		levels: rbt.NewWith[float64, *priceLevel](priceComparator),
	}
}

// best returns the level with the best price for this side: highest
// for bids, lowest for asks.
func (l *ladder) best() (*priceLevel, bool) {
	var node *rbt.Node[float64, *priceLevel]
	if l.side == Bid {
		node = l.levels.Right()
	} else {
		node = l.levels.Left()
	}
	if node == nil {
		return nil, false
	}
	return node.Value, true
}

func (l *ladder) bestPrice() float64 {
	level, ok := l.best()
	if !ok {
		return 0
	}
	return level.price
}

func (l *ladder) getOrCreate(price float64) *priceLevel {
	if level, found := l.levels.Get(price); found {
		return level
	}
	level := newPriceLevel(price)
	l.levels.Put(price, level)
	return level
}

func (l *ladder) get(price float64) (*priceLevel, bool) {
	return l.levels.Get(price)
}

func (l *ladder) removeLevel(price float64) {
	l.levels.Remove(price)
}

func (l *ladder) empty() bool {
	return l.levels.Empty()
}

// top returns up to n levels in best-to-worst order.
func (l *ladder) top(n int) []PriceLevel {
	if n <= 0 {
		return nil
	}
	out := make([]PriceLevel, 0, n)
	it := l.levels.Iterator()
	if l.side == Bid {
		// Bids: best is the highest price, so walk the tree descending.
		for it.End(); it.Prev() && len(out) < n; {
			level := it.Value()
			out = append(out, PriceLevel{Price: level.price, Quantity: level.qty})
		}
	} else {
		// Asks: best is the lowest price, walk the tree ascending.
		for it.Begin(); it.Next() && len(out) < n; {
			level := it.Value()
			out = append(out, PriceLevel{Price: level.price, Quantity: level.qty})
		}
	}
	return out
}
