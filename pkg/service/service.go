package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Sternrassler/ebay-access-client/pkg/logging"
	"github.com/Sternrassler/ebay-access-client/pkg/pagination"
	"github.com/Sternrassler/ebay-access-client/pkg/telemetry"
	"github.com/Sternrassler/ebay-access-client/pkg/transport"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/Sternrassler/ebay-access-client/pkg/service"

// Operation names.
const (
	OpFetchOrdersByRange         = "FetchOrdersByRange"
	OpFetchOrdersByIDs           = "FetchOrdersByIDs"
	OpFetchSaleRecordNumbers     = "FetchSaleRecordNumbers"
	OpFetchOrdersWithItemDetails = "FetchOrdersWithItemDetails"
	OpFetchActiveListings        = "FetchActiveListings"
	OpFetchListingsByDateRange   = "FetchListingsByDateRange"
	OpFetchListingDetailsByRange = "FetchListingDetailsByDateRange"
	OpFetchAllListingDetails     = "FetchAllListingDetails"
	OpUpdateInventory            = "UpdateInventory"
	OpGetUserToken               = "GetUserToken"
	OpGetUserSessionID           = "GetUserSessionID"
	OpGetAuthURI                 = "GetAuthURI"
	OpFetchUserToken             = "FetchUserToken"
)

// Service is the marketplace orchestrator.
type Service struct {
	transport transport.Transport
	walker    *pagination.Walker
	config    Config
	logger    zerolog.Logger
	telemetry telemetry.Telemetry
	tracer    trace.Tracer
}

// New creates a new service over t.
func New(t transport.Transport, cfg Config) (*Service, error) {
	if t == nil {
		return nil, fmt.Errorf("transport is required")
	}
	if cfg.MaxTimeRange <= 0 {
		return nil, fmt.Errorf("max_time_range must be positive (got %s)", cfg.MaxTimeRange)
	}
	if cfg.MaxConcurrency < 1 {
		return nil, fmt.Errorf("max_concurrency must be >= 1 (got %d)", cfg.MaxConcurrency)
	}
	if cfg.InventoryBatchSize < 0 {
		return nil, fmt.Errorf("inventory_batch_size must be >= 0 (got %d)", cfg.InventoryBatchSize)
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	logger := logging.NewLogger("service")

	if cfg.CallTimeout > 0 {
		t = transport.Chain(t, transport.WithTimeout(cfg.CallTimeout))
	}
	if cfg.Telemetry == nil {
		cfg.Telemetry = telemetry.NewRecorder(logger)
	}
	if cfg.Tracer == nil {
		cfg.Tracer = otel.Tracer(tracerName)
	}

	walker := pagination.NewWalker(pagination.Config{MaxConcurrency: cfg.MaxConcurrency}, logger)

	return &Service{
		transport: t,
		walker:    walker,
		config:    cfg,
		logger:    logger,
		telemetry: cfg.Telemetry,
		tracer:    cfg.Tracer,
	}, nil
}

// summary renders a result for telemetry and counts its items.
type summary[T any] func(T) (string, int)

// run wraps one public operation with a correlation mark, a span, the
// operation timeout and telemetry events. Failures come back as
// *OperationError.
func run[T any](ctx context.Context, s *Service, op, input string, sum summary[T], fn func(ctx context.Context) (T, error)) (T, error) {
	mark := telemetry.NewMark()

	ctx, span := s.tracer.Start(ctx, op, trace.WithAttributes(
		attribute.String("ebay.operation", op),
		attribute.String("ebay.mark", mark),
	))
	defer span.End()

	if s.config.OperationTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.config.OperationTimeout)
		defer cancel()
	}

	ev := telemetry.Event{Operation: op, Mark: mark, Params: input}
	s.telemetry.Started(ctx, ev)
	start := time.Now()

	out, err := fn(ctx)
	ev.Duration = time.Since(start)

	if err != nil {
		opErr := &OperationError{Operation: op, Input: input, Mark: mark, Err: err}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.telemetry.Failed(ctx, ev, opErr)
		var zero T
		return zero, opErr
	}

	ev.Result, ev.Items = sum(out)
	span.SetAttributes(attribute.Int("ebay.items", ev.Items))
	s.telemetry.Ended(ctx, ev)
	return out, nil
}

// runAuth wraps one auth operation. Failures come back as *AuthError.
func runAuth[T any](ctx context.Context, s *Service, op, input string, fn func(ctx context.Context, auth transport.Authenticator) (T, error)) (T, error) {
	ctx, span := s.tracer.Start(ctx, op, trace.WithAttributes(attribute.String("ebay.operation", op)))
	defer span.End()

	var out T
	var err error
	if s.config.Authenticator == nil {
		err = ErrNoAuthenticator
	} else {
		out, err = fn(ctx, s.config.Authenticator)
	}

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.logger.Error().
			Err(err).
			Str(logging.FieldOperation, op).
			Str("params", input).
			Msg("Auth operation failed")
		var zero T
		return zero, &AuthError{Operation: op, Input: input, Err: err}
	}
	return out, nil
}

// emptyResponse reports a transport that answered with neither a response
// nor an error.
func emptyResponse(call string) error {
	return transport.NewError(call, transport.ErrorClassNetwork, transport.ErrEmptyResponse)
}
