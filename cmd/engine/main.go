// Command engine runs a single-instrument high-frequency market
// simulation: an order book, a stochastic order generator driving it,
// and a telemetry publisher broadcasting book state to any client that
// completes the transport's upgrade handshake. The process surface is
// fixed at compile time; there are no flags and no environment
// variables to read.
package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/marketsim/hfengine/internal/config"
	"github.com/marketsim/hfengine/internal/engineerr"
	"github.com/marketsim/hfengine/internal/generator"
	"github.com/marketsim/hfengine/internal/metrics"
	"github.com/marketsim/hfengine/internal/orderbook"
	"github.com/marketsim/hfengine/internal/telemetry"
	"github.com/marketsim/hfengine/internal/transport"
	"go.uber.org/zap"
)

func main() {
	cfg := config.Default()
	if err := config.Validate(cfg); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("failed to create logger: %v", err)
	}
	defer logger.Sync()

	book, gen, srv, pub, err := build(cfg, logger)
	if err != nil {
		logger.Fatal("failed to build engine", zap.Error(err))
	}

	start(book, gen, srv, pub, cfg, logger)

	waitForShutdown(logger)

	stop(gen, srv, pub, logger)
	logger.Info("engine shutdown complete")
}

// build wires the book, generator, transport server, and telemetry
// publisher together, connecting the book's trade callback to the
// metrics collector. It starts nothing.
func build(cfg config.Config, logger *zap.Logger) (*orderbook.Book, *generator.Generator, *transport.Server, *telemetry.Publisher, error) {
	collector := metrics.New(cfg.Symbol)

	book := orderbook.New(cfg.Symbol, logger.Named("orderbook"))
	book.SetTradeCallback(func(t orderbook.Trade) {
		collector.TradesExecuted.Inc()
	})

	gen := generator.New(book, cfg.BasePrice, logger.Named("generator"))
	gen.SetBatchSize(cfg.GeneratorBatchSize)
	if cfg.PriceCallbackInterval > 0 {
		gen.SetPriceCallback(cfg.PriceCallbackInterval, func(price float64, ordersSoFar uint64) {
			logger.Info("generator price checkpoint",
				zap.Float64("price", price), zap.Uint64("orders_so_far", ordersSoFar))
		})
	}

	srv, err := transport.New(cfg.TransportAddr, cfg.HandshakePoolSize, collector.ClientsConnected, logger.Named("transport"))
	if err != nil {
		return nil, nil, nil, nil, engineerr.Wrap(err, engineerr.TransportSetupFailure, "failed to build transport server")
	}

	pub := telemetry.New(book, gen, srv, collector, cfg.BroadcastInterval, cfg.DepthLevels, logger.Named("telemetry"))

	return book, gen, srv, pub, nil
}

// start brings the engine up in the order the transport must be ready
// before any telemetry can reach a client, and the generator must be
// producing before telemetry has anything interesting to sample.
func start(book *orderbook.Book, gen *generator.Generator, srv *transport.Server, pub *telemetry.Publisher, cfg config.Config, logger *zap.Logger) {
	gen.Start(cfg.TargetOrdersPerSecond)
	logger.Info("generator started", zap.Float64("target_orders_per_second", cfg.TargetOrdersPerSecond))

	if !srv.Start() {
		logger.Fatal("transport server failed to start", zap.String("addr", cfg.TransportAddr))
	}
	logger.Info("transport server listening", zap.String("addr", cfg.TransportAddr))

	pub.Start()
	logger.Info("telemetry publisher started", zap.Duration("interval", cfg.BroadcastInterval))
}

// stop shuts components down publisher first so no broadcast races a
// closing transport, then the generator so the book stops mutating,
// then the transport itself. This is not the reverse of the start
// order: the transport is started before the publisher but stopped last.
func stop(gen *generator.Generator, srv *transport.Server, pub *telemetry.Publisher, logger *zap.Logger) {
	pub.Stop()
	logger.Info("telemetry publisher stopped")

	gen.Stop()
	logger.Info("generator stopped")

	srv.Stop()
	logger.Info("transport server stopped")
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	logger.Info("received shutdown signal", zap.String("signal", sig.String()))
}
