// Package apierror aggregates the domain-level errors embedded in a batch
// of marketplace responses.
//
// Aggregation is all or nothing: if any response in the batch carries an
// embedded error, the whole batch fails and every payload is discarded.
// Errors are never dropped or retried here.
package apierror

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Sternrassler/ebay-access-client/pkg/model"
)

// ErrAPI matches any *AggregatedError through errors.Is.
var ErrAPI = errors.New("marketplace api error")

// Response is any transport response that can carry embedded API errors.
type Response interface {
	APIErrors() []model.APIError
}

// AggregatedError is the union of all embedded errors of a batch, in
// response order.
type AggregatedError struct {
	Errors []model.APIError
}

// Error implements the error interface.
func (e *AggregatedError) Error() string {
	parts := make([]string, 0, len(e.Errors))
	for _, apiErr := range e.Errors {
		parts = append(parts, apiErr.String())
	}
	return fmt.Sprintf("%d api error(s): %s", len(e.Errors), strings.Join(parts, "; "))
}

// Is reports ErrAPI as a match.
func (e *AggregatedError) Is(target error) bool {
	return target == ErrAPI
}

// Codes returns the error codes in order.
func (e *AggregatedError) Codes() []int {
	codes := make([]int, 0, len(e.Errors))
	for _, apiErr := range e.Errors {
		codes = append(codes, apiErr.Code)
	}
	return codes
}

// HasCode reports whether any aggregated error carries the code.
func (e *AggregatedError) HasCode(code int) bool {
	for _, apiErr := range e.Errors {
		if apiErr.Code == code {
			return true
		}
	}
	return false
}

// Check returns an *AggregatedError if any response carries embedded
// errors, nil otherwise.
func Check[R Response](responses ...R) error {
	var collected []model.APIError
	for _, r := range responses {
		collected = append(collected, r.APIErrors()...)
	}
	if len(collected) == 0 {
		return nil
	}
	return &AggregatedError{Errors: collected}
}

// Aggregate fails the batch if any response carries embedded errors and
// otherwise returns the concatenation of every response's payload.
// Responses must not be nil.
func Aggregate[R Response, T any](responses []R, payload func(R) []T) ([]T, error) {
	if err := Check(responses...); err != nil {
		return nil, err
	}

	var out []T
	for _, r := range responses {
		out = append(out, payload(r)...)
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}
