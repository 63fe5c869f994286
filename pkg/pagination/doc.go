// Package pagination walks every page of one logical marketplace query.
//
// The marketplace reports the total page count with every page, so the
// walker fetches page 1 alone, then fans pages 2..N out concurrently once
// the count is known.
//
// Example usage:
//
//	walker := pagination.NewWalker(pagination.DefaultConfig(), logger)
//	all, err := pagination.Walk(ctx, walker, func(ctx context.Context, page int) (pagination.Page[model.Item], error) {
//		resp, err := t.FetchListings(ctx, window, model.ListingRangeStartTime, page)
//		if err != nil {
//			return pagination.Page[model.Item]{}, err
//		}
//		return pagination.FromListings(resp), nil
//	})
//
// The walker:
//   - Fetches the first page to learn the total page count
//   - Fetches the remaining pages with bounded concurrency
//   - Waits for every page even when some carry API errors
//   - Concatenates payloads in page order and unions embedded errors
//
// Whether embedded errors are fatal is decided by the caller.
package pagination
