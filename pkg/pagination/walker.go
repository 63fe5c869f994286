package pagination

import (
	"context"
	"fmt"
	"time"

	"github.com/Sternrassler/ebay-access-client/pkg/fanout"
	"github.com/Sternrassler/ebay-access-client/pkg/model"
	"github.com/rs/zerolog"
)

// Config holds walker configuration
type Config struct {
	// MaxConcurrency is the maximum number of pages fetched in parallel
	MaxConcurrency int
	// Timeout per page fetch, zero disables it
	Timeout time.Duration
}

// DefaultConfig returns the default walker configuration
func DefaultConfig() Config {
	return Config{
		MaxConcurrency: 10,
		Timeout:        30 * time.Second,
	}
}

// Page is one page of a paged query, or the aggregate of all of them.
type Page[T any] struct {
	Items  []T
	State  model.PaginationState
	Errors []model.APIError
}

// APIErrors implements apierror.Response.
func (p Page[T]) APIErrors() []model.APIError {
	return p.Errors
}

// FromListings converts a listing response into a page.
func FromListings(resp *model.ListingsResponse) Page[model.Item] {
	if resp == nil {
		return Page[model.Item]{}
	}
	return Page[model.Item]{
		Items:  resp.Items,
		State:  resp.Pagination,
		Errors: resp.Errors,
	}
}

// FetchFunc fetches a single page by its 1-based number.
type FetchFunc[T any] func(ctx context.Context, page int) (Page[T], error)

// Walker fetches all pages of a query.
type Walker struct {
	config Config
	logger zerolog.Logger
}

// NewWalker creates a new walker
func NewWalker(config Config, logger zerolog.Logger) *Walker {
	if config.MaxConcurrency <= 0 {
		config.MaxConcurrency = 10
	}
	return &Walker{
		config: config,
		logger: logger,
	}
}

// Walk fetches every page and returns their aggregate. Items keep page
// order; embedded API errors from all pages are unioned in page order.
//
// A transport failure on page 1 returns immediately. A transport failure on
// a later page is reported only after all other pages finished, together
// with the partial aggregate.
func Walk[T any](ctx context.Context, w *Walker, fetch FetchFunc[T]) (Page[T], error) {
	start := time.Now()

	first, err := fetchPage(ctx, w, fetch, 1)
	if err != nil {
		return Page[T]{}, fmt.Errorf("fetch first page: %w", err)
	}

	totalPages := first.State.TotalPages
	if totalPages <= 1 {
		w.logger.Debug().
			Int("pages", 1).
			Int("items", len(first.Items)).
			Dur("duration", time.Since(start)).
			Msg("Walk complete (single page)")
		first.State.PageNumber = 1
		first.State.TotalPages = max(totalPages, 1)
		return first, nil
	}

	w.logger.Debug().
		Int("total_pages", totalPages).
		Int("total_entries", first.State.TotalEntries).
		Msg("Starting parallel page walk")

	pages := make([]Page[T], totalPages)
	pages[0] = first

	fetchErr := fanout.Run(ctx, totalPages-1, w.config.MaxConcurrency, func(ctx context.Context, i int) error {
		pageNum := i + 2
		page, err := fetchPage(ctx, w, fetch, pageNum)
		if err != nil {
			w.logger.Warn().
				Err(err).
				Int("page", pageNum).
				Msg("Page fetch failed")
			return fmt.Errorf("page %d: %w", pageNum, err)
		}
		pages[i+1] = page

		if pageNum%50 == 0 {
			w.logger.Debug().
				Int("page", pageNum).
				Int("total", totalPages).
				Msg("Walk progress")
		}
		return nil
	})

	result := merge(pages, first.State)

	if fetchErr != nil {
		return result, fmt.Errorf("walk pages (total %d): %w", totalPages, fetchErr)
	}

	w.logger.Debug().
		Int("pages", totalPages).
		Int("items", len(result.Items)).
		Int("api_errors", len(result.Errors)).
		Dur("duration", time.Since(start)).
		Msg("Walk complete")

	return result, nil
}

func fetchPage[T any](ctx context.Context, w *Walker, fetch FetchFunc[T], page int) (Page[T], error) {
	if w.config.Timeout <= 0 {
		return fetch(ctx, page)
	}
	pageCtx, cancel := context.WithTimeout(ctx, w.config.Timeout)
	defer cancel()
	return fetch(pageCtx, page)
}

func merge[T any](pages []Page[T], firstState model.PaginationState) Page[T] {
	size := 0
	for _, p := range pages {
		size += len(p.Items)
	}

	result := Page[T]{
		Items: make([]T, 0, size),
		State: model.PaginationState{
			PageNumber:   len(pages),
			TotalPages:   len(pages),
			TotalEntries: firstState.TotalEntries,
		},
	}
	for _, p := range pages {
		result.Items = append(result.Items, p.Items...)
		result.Errors = append(result.Errors, p.Errors...)
	}
	return result
}
