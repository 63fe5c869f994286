// Package fanout runs independent sub-calls of one logical operation
// concurrently and joins them with a wait-for-all barrier.
//
// A failing unit never cancels its siblings: every unit runs to completion
// and the caller inspects the joined error only after the whole batch is
// done. Cancelling the context passed to Run cancels every in-flight unit
// and prevents queued units from starting.
package fanout

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// DefaultLimit is used when Run is called with a non-positive limit.
const DefaultLimit = 10

// UnitError reports the failure of one unit of a batch.
type UnitError struct {
	Index int
	Err   error
}

func (e *UnitError) Error() string {
	return fmt.Sprintf("unit %d: %v", e.Index, e.Err)
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *UnitError) Unwrap() error {
	return e.Err
}

// Run calls fn for every index in [0, n) with at most limit calls in
// flight. It returns once all units have finished. The returned error joins
// one *UnitError per failed unit, in index order, or is nil.
func Run(ctx context.Context, n, limit int, fn func(ctx context.Context, i int) error) error {
	if n <= 0 {
		return nil
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > n {
		limit = n
	}

	queue := make(chan int, n)
	for i := 0; i < n; i++ {
		queue <- i
	}
	close(queue)

	errs := make([]error, n)

	var wg sync.WaitGroup
	for w := 0; w < limit; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range queue {
				// Queued units still get an error slot so the caller sees
				// which ones never ran.
				if err := ctx.Err(); err != nil {
					errs[i] = &UnitError{Index: i, Err: err}
					continue
				}
				if err := fn(ctx, i); err != nil {
					errs[i] = &UnitError{Index: i, Err: err}
				}
			}
		}()
	}
	wg.Wait()

	return errors.Join(errs...)
}

// Collect runs fn for every index like Run and gathers the results in
// index order. Results of failed units are left at their zero value.
func Collect[T any](ctx context.Context, n, limit int, fn func(ctx context.Context, i int) (T, error)) ([]T, error) {
	results := make([]T, max(n, 0))
	err := Run(ctx, n, limit, func(ctx context.Context, i int) error {
		v, err := fn(ctx, i)
		if err != nil {
			return err
		}
		results[i] = v
		return nil
	})
	return results, err
}

// Gate bounds the calls in flight across nested batches of one operation.
// Only leaf calls hold a slot, never the units that spawn inner batches, so
// nesting cannot deadlock.
type Gate struct {
	slots chan struct{}
}

// NewGate creates a gate admitting limit calls at once. A non-positive
// limit uses DefaultLimit.
func NewGate(limit int) *Gate {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Gate{slots: make(chan struct{}, limit)}
}

// Do runs fn once a slot is free. It returns ctx's error without running fn
// when ctx ends first.
func (g *Gate) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	select {
	case g.slots <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}
	defer func() { <-g.slots }()
	return fn(ctx)
}
