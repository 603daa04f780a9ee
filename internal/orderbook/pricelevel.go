package orderbook

import "container/list"

// priceLevel is one price's FIFO queue of resting orders, plus the
// aggregate resting quantity at that price. This is the HashMap+list
// layout the pack's NASDAQ-style price trees use: O(1) append, O(1)
// removal via the order's own stored list.Element, O(1) front peek.
type priceLevel struct {
	price  float64
	orders *list.List
	qty    float64
}

func newPriceLevel(price float64) *priceLevel {
	return &priceLevel{price: price, orders: list.New()}
}

func (pl *priceLevel) push(o *Order) {
	o.elem = pl.orders.PushBack(o)
	pl.qty += o.Quantity
}

func (pl *priceLevel) front() *Order {
	if pl.orders.Len() == 0 {
		return nil
	}
	return pl.orders.Front().Value.(*Order)
}

// fill reduces the level's aggregate quantity by the filled amount,
// called at the moment a resting order is partially or fully matched.
func (pl *priceLevel) fill(qty float64) {
	pl.qty -= qty
}

// popFront removes the order currently at the head of the queue. The
// caller is responsible for having already accounted for its quantity
// via fill.
func (pl *priceLevel) popFront() {
	front := pl.orders.Front()
	if front == nil {
		return
	}
	order := front.Value.(*Order)
	pl.orders.Remove(front)
	order.elem = nil
}

// remove removes a specific resting order from the queue (used by
// cancel), adjusting the aggregate quantity.
func (pl *priceLevel) remove(o *Order) {
	if o.elem == nil {
		return
	}
	pl.orders.Remove(o.elem)
	o.elem = nil
	pl.qty -= o.Quantity
}

func (pl *priceLevel) empty() bool {
	return pl.orders.Len() == 0
}
