// Package telemetry receives operation lifecycle events from the service
// layer. It is write-only from the caller's perspective.
package telemetry

import (
	"context"
	"errors"
	"time"

	"github.com/Sternrassler/ebay-access-client/pkg/apierror"
	"github.com/Sternrassler/ebay-access-client/pkg/logging"
	"github.com/Sternrassler/ebay-access-client/pkg/metrics"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Event describes one operation invocation.
type Event struct {
	Operation string
	Mark      string
	Params    string

	// Result and Items are set on completion.
	Result string
	Items  int

	Duration time.Duration
}

// Telemetry receives operation lifecycle events.
type Telemetry interface {
	Started(ctx context.Context, ev Event)
	Ended(ctx context.Context, ev Event)
	Failed(ctx context.Context, ev Event, err error)
}

// NewMark returns a fresh correlation token.
func NewMark() string {
	return uuid.NewString()
}

// Recorder logs events with zerolog and records operation metrics.
type Recorder struct {
	logger zerolog.Logger
}

var _ Telemetry = (*Recorder)(nil)

// NewRecorder creates a recorder writing to logger.
func NewRecorder(logger zerolog.Logger) *Recorder {
	return &Recorder{logger: logger}
}

// Started logs the operation and its parameters.
func (r *Recorder) Started(ctx context.Context, ev Event) {
	logger := logging.WithMark(r.logger, ev.Operation, ev.Mark)
	logger.Info().
		Str("params", ev.Params).
		Msg("Operation started")
}

// Ended logs the result summary and records a successful operation.
func (r *Recorder) Ended(ctx context.Context, ev Event) {
	logger := logging.WithMark(r.logger, ev.Operation, ev.Mark)
	logger.Info().
		Str("params", ev.Params).
		Str("result", ev.Result).
		Int("items", ev.Items).
		Dur("duration", ev.Duration).
		Msg("Operation ended")

	metrics.ObserveOperation(ev.Operation, metrics.StatusOK, ev.Items, ev.Duration)
}

// Failed logs err and records the operation as failed, or as an API
// error when err carries embedded API errors.
func (r *Recorder) Failed(ctx context.Context, ev Event, err error) {
	status := metrics.StatusFailed
	if errors.Is(err, apierror.ErrAPI) {
		status = metrics.StatusAPIError
	}

	logger := logging.WithMark(r.logger, ev.Operation, ev.Mark)
	logger.Error().
		Err(err).
		Str("params", ev.Params).
		Str("status", status).
		Dur("duration", ev.Duration).
		Msg("Operation failed")

	metrics.ObserveOperation(ev.Operation, status, 0, ev.Duration)
}

// Nop discards all events.
type Nop struct{}

// Started does nothing.
func (Nop) Started(context.Context, Event) {}

// Ended does nothing.
func (Nop) Ended(context.Context, Event) {}

// Failed does nothing.
func (Nop) Failed(context.Context, Event, error) {}
