package service

import (
	"time"

	"github.com/Sternrassler/ebay-access-client/pkg/telemetry"
	"github.com/Sternrassler/ebay-access-client/pkg/transport"
	"go.opentelemetry.io/otel/trace"
)

// DefaultMaxTimeRange is the longest span a single marketplace query may
// cover.
const DefaultMaxTimeRange = 119 * 24 * time.Hour

// Config holds the service configuration.
type Config struct {
	// MaxTimeRange bounds the span of one ranged query.
	MaxTimeRange time.Duration

	// MaxConcurrency bounds concurrent calls within one fan-out batch. A
	// windowed listing walk nests page batches inside its window batch and
	// caps the calls in flight across both at MaxConcurrency.
	MaxConcurrency int

	// OperationTimeout bounds a whole operation, zero disables it.
	OperationTimeout time.Duration

	// CallTimeout bounds every single transport call, zero disables it.
	CallTimeout time.Duration

	// InventoryBatchSize splits inventory updates into chunks of at most
	// this many requests. Zero sends all requests in one call.
	InventoryBatchSize int

	// WorkingStart is the earliest date listings can exist.
	WorkingStart time.Time

	// Now returns the current time (default time.Now).
	Now func() time.Time

	// Authenticator serves the auth operations. Optional.
	Authenticator transport.Authenticator

	// Telemetry receives operation events (default: a Recorder on the
	// service logger).
	Telemetry telemetry.Telemetry

	// Tracer starts one span per operation (default: the global tracer
	// provider).
	Tracer trace.Tracer
}

// DefaultConfig returns the default service configuration.
func DefaultConfig() Config {
	return Config{
		MaxTimeRange:     DefaultMaxTimeRange,
		MaxConcurrency:   10,
		OperationTimeout: 10 * time.Minute,
		CallTimeout:      60 * time.Second,
		WorkingStart:     time.Date(1995, 1, 1, 0, 0, 0, 0, time.UTC),
		Now:              time.Now,
	}
}
