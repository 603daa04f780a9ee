package orderbook

import "time"

// match crosses the incoming order against the opposite ladder under
// price-time priority, emitting one Trade callback per fill, in
// execution order, before returning. The maker's resting price always
// wins; the aggressor's own price is only the admissibility bound.
func (b *Book) match(incoming *Order) {
	opposite := b.asks
	if incoming.Side == Ask {
		opposite = b.bids
	}

	for incoming.Quantity > 0 {
		level, ok := opposite.best()
		if !ok {
			break
		}
		if incoming.Side == Bid && incoming.Price < level.price {
			break
		}
		if incoming.Side == Ask && incoming.Price > level.price {
			break
		}

		for incoming.Quantity > 0 && !level.empty() {
			maker := level.front()
			fillQty := incoming.Quantity
			if maker.Quantity < fillQty {
				fillQty = maker.Quantity
			}
			fillPrice := maker.Price

			b.emitTrade(incoming, maker, fillPrice, fillQty)

			incoming.Quantity -= fillQty
			maker.Quantity -= fillQty
			level.fill(fillQty)

			if maker.Quantity <= 0 {
				delete(b.index, maker.ID)
				level.popFront()
			}
		}

		if level.empty() {
			opposite.removeLevel(level.price)
		}
	}
}

func (b *Book) emitTrade(incoming, maker *Order, price, quantity float64) {
	trade := Trade{
		Price:     price,
		Quantity:  quantity,
		Timestamp: time.Now().UnixNano(),
	}
	if incoming.Side == Bid {
		trade.BidOrderID = incoming.ID
		trade.AskOrderID = maker.ID
	} else {
		trade.BidOrderID = maker.ID
		trade.AskOrderID = incoming.ID
	}

	if b.callback != nil {
		b.callback(trade)
	}
	b.lastPx = price
	b.tradeCount.Add(1)
}
