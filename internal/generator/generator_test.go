package generator

import (
	"testing"
	"time"

	"github.com/marketsim/hfengine/internal/orderbook"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestGeneratorProducesOrdersAndStats(t *testing.T) {
	book := orderbook.New("BTCUSDT", zap.NewNop())
	g := New(book, 50000.0, zap.NewNop())
	g.SetBatchSize(50)

	g.Start(5000)
	require.Eventually(t, func() bool {
		return g.Stats.OrdersGenerated() > 0
	}, time.Second, 5*time.Millisecond)

	g.Stop()

	assert.False(t, g.Stats.Running())
	assert.Greater(t, g.Stats.OrdersGenerated(), uint64(0))
	assert.Greater(t, g.Stats.CurrentPrice(), 0.0)
	assert.GreaterOrEqual(t, book.OrderCount(), g.Stats.OrdersGenerated())
}

func TestGeneratorDoubleStartIsNoop(t *testing.T) {
	book := orderbook.New("BTCUSDT", zap.NewNop())
	g := New(book, 50000.0, zap.NewNop())
	g.SetBatchSize(10)

	g.Start(1000)
	g.Start(1000) // no-op, must not spawn a second worker
	time.Sleep(20 * time.Millisecond)
	g.Stop()
}

func TestGeneratorPriceCallback(t *testing.T) {
	book := orderbook.New("BTCUSDT", zap.NewNop())
	g := New(book, 50000.0, zap.NewNop())
	g.SetBatchSize(10)

	callbackFired := make(chan uint64, 1)
	g.SetPriceCallback(20, func(price float64, ordersSoFar uint64) {
		select {
		case callbackFired <- ordersSoFar:
		default:
		}
	})

	g.Start(5000)
	defer g.Stop()

	select {
	case n := <-callbackFired:
		assert.GreaterOrEqual(t, n, uint64(20))
	case <-time.After(time.Second):
		t.Fatal("price callback never fired")
	}
}
