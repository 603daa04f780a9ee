// Package config holds the engine's startup parameters. The process
// surface is hard-coded (spec: no flags, no environment variables), so
// Config exists to give every component a single, validated struct
// instead of scattering literals, following the teacher's pattern of a
// typed Config validated with go-playground/validator at startup.
package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// Config is the complete set of parameters a single engine process is
// started with.
type Config struct {
	// Symbol is the instrument identifier carried in every telemetry
	// record. The spec's literal test scenarios assume "BTCUSDT".
	Symbol string `validate:"required"`

	// BasePrice anchors the generator's mean-reversion target.
	BasePrice float64 `validate:"gt=0"`

	// TargetOrdersPerSecond is the generator's pacing target.
	TargetOrdersPerSecond float64 `validate:"gt=0"`

	// GeneratorBatchSize is the number of orders produced between rate
	// checks.
	GeneratorBatchSize int `validate:"gt=0"`

	// PriceCallbackInterval, if non-zero, fires the generator's optional
	// priceCallback every this many orders.
	PriceCallbackInterval uint64

	// TransportAddr is the TCP address the transport server listens on.
	TransportAddr string `validate:"required"`

	// HandshakePoolSize bounds the number of concurrent upgrade
	// handshakes in flight.
	HandshakePoolSize int `validate:"gt=0"`

	// BroadcastInterval is the Telemetry Publisher's sampling cadence.
	BroadcastInterval time.Duration `validate:"gt=0"`

	// DepthLevels is how many price levels the telemetry record carries
	// per side.
	DepthLevels int `validate:"gt=0"`
}

// Default returns the hard-coded configuration the process surface
// specifies: instrument BTCUSDT, a base price, and an OPS target.
func Default() Config {
	return Config{
		Symbol:                "BTCUSDT",
		BasePrice:             50000.0,
		TargetOrdersPerSecond: 100000,
		GeneratorBatchSize:    10000,
		PriceCallbackInterval: 0,
		TransportAddr:         ":9001",
		HandshakePoolSize:     256,
		BroadcastInterval:     50 * time.Millisecond,
		DepthLevels:           10,
	}
}

// Validate checks the configuration is internally consistent, failing
// fast at process startup rather than letting a worker thread panic or
// spin later.
func Validate(cfg Config) error {
	v := validator.New()
	if err := v.Struct(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}
