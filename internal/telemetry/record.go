// Package telemetry periodically samples the order book and generator
// stats into a single text record and hands it to the transport server
// for broadcast.
package telemetry

import (
	"encoding/json"
	"fmt"
)

// depthEntry is one aggregated price level in a telemetry record.
type depthEntry struct {
	Price json.Number `json:"price"`
	Size  json.Number `json:"size"`
}

// record is the wire shape of one telemetry broadcast, matching the
// schema in spec.md §6 exactly (field names and types are the
// external contract).
type record struct {
	Type            string       `json:"type"`
	Timestamp       int64        `json:"timestamp"`
	Symbol          string       `json:"symbol"`
	Price           json.Number  `json:"price"`
	High            json.Number  `json:"high"`
	Low             json.Number  `json:"low"`
	BestBid         json.Number  `json:"bestBid"`
	BestAsk         json.Number  `json:"bestAsk"`
	Spread          json.Number  `json:"spread"`
	MidPrice        json.Number  `json:"midPrice"`
	OrdersPerSecond json.Number  `json:"ordersPerSecond"`
	TotalOrders     uint64       `json:"totalOrders"`
	TotalTrades     uint64       `json:"totalTrades"`
	Bids            []depthEntry `json:"bids"`
	Asks            []depthEntry `json:"asks"`
}

// price2f formats a price-like field with two fractional digits.
func price2f(v float64) json.Number {
	return json.Number(fmt.Sprintf("%.2f", v))
}

// size4f formats a depth size with four fractional digits.
func size4f(v float64) json.Number {
	return json.Number(fmt.Sprintf("%.4f", v))
}

// ops0f formats orders-per-second with zero fractional digits.
func ops0f(v float64) json.Number {
	return json.Number(fmt.Sprintf("%.0f", v))
}
