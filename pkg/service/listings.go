package service

import (
	"context"
	"time"

	"github.com/Sternrassler/ebay-access-client/pkg/apierror"
	"github.com/Sternrassler/ebay-access-client/pkg/dedupe"
	"github.com/Sternrassler/ebay-access-client/pkg/fanout"
	"github.com/Sternrassler/ebay-access-client/pkg/model"
	"github.com/Sternrassler/ebay-access-client/pkg/pagination"
	"github.com/Sternrassler/ebay-access-client/pkg/telemetry"
	"github.com/Sternrassler/ebay-access-client/pkg/timewindow"
	"github.com/Sternrassler/ebay-access-client/pkg/transport"
	"github.com/Sternrassler/ebay-access-client/pkg/variation"
)

type listingFetch func(ctx context.Context, window model.TimeWindow, kind model.ListingTimeRange, page int) (*model.ListingsResponse, error)

func summarizeItems(items []model.Item) (string, int) {
	return telemetry.Items(items), len(items)
}

// FetchActiveListings returns the listings ending within the next maximum
// query span, one item per variation.
func (s *Service) FetchActiveListings(ctx context.Context) ([]model.Item, error) {
	now := s.config.Now()
	window := model.TimeWindow{Start: now, End: now.Add(s.config.MaxTimeRange)}

	return run(ctx, s, OpFetchActiveListings, telemetry.Range(window.Start, window.End), summarizeItems,
		func(ctx context.Context) ([]model.Item, error) {
			page, err := s.walkListings(ctx, s.newGate(), window, model.ListingRangeEndTime, true)
			if err != nil {
				return nil, err
			}
			if err := apierror.Check(page); err != nil {
				return nil, err
			}
			return finishItems(page.Items), nil
		})
}

// FetchListingsByDateRange returns the listings ending within [from, to],
// one item per variation.
func (s *Service) FetchListingsByDateRange(ctx context.Context, from, to time.Time) ([]model.Item, error) {
	return run(ctx, s, OpFetchListingsByDateRange, telemetry.Range(from, to), summarizeItems,
		func(ctx context.Context) ([]model.Item, error) {
			pages, err := s.walkRange(ctx, from, to, model.ListingRangeEndTime, true)
			if err != nil {
				return nil, err
			}
			items, err := apierror.Aggregate(pages, itemsOf)
			if err != nil {
				return nil, err
			}
			return finishItems(items), nil
		})
}

// FetchListingDetailsByDateRange returns full detail for the listings
// started within [from, to], one item per variation.
func (s *Service) FetchListingDetailsByDateRange(ctx context.Context, from, to time.Time) ([]model.Item, error) {
	return run(ctx, s, OpFetchListingDetailsByRange, telemetry.Range(from, to), summarizeItems,
		func(ctx context.Context) ([]model.Item, error) {
			return s.listingDetails(ctx, from, to)
		})
}

// FetchAllListingDetails returns full detail for every listing started
// since Config.WorkingStart.
func (s *Service) FetchAllListingDetails(ctx context.Context) ([]model.Item, error) {
	from, to := s.config.WorkingStart, s.config.Now()
	return run(ctx, s, OpFetchAllListingDetails, telemetry.Range(from, to), summarizeItems,
		func(ctx context.Context) ([]model.Item, error) {
			return s.listingDetails(ctx, from, to)
		})
}

func (s *Service) listingDetails(ctx context.Context, from, to time.Time) ([]model.Item, error) {
	pages, err := s.walkRange(ctx, from, to, model.ListingRangeStartTime, false)
	if err != nil {
		return nil, err
	}
	items, err := apierror.Aggregate(pages, itemsOf)
	if err != nil {
		return nil, err
	}

	ids := uniqueItemIDs(dedupe.Keys(items, dedupe.ItemID))
	details, err := s.itemDetails(ctx, ids)
	if err != nil {
		return nil, err
	}

	detailed := make([]model.Item, 0, len(ids))
	for _, id := range ids {
		detailed = append(detailed, details[id])
	}
	return finishItems(detailed), nil
}

// walkRange walks every window of [from, to]. The first window is walked
// alone and fails fast on embedded errors; the remaining windows are
// walked concurrently. Window and page fan-out share one gate, so at most
// MaxConcurrency listing calls are in flight.
func (s *Service) walkRange(ctx context.Context, from, to time.Time, kind model.ListingTimeRange, custom bool) ([]pagination.Page[model.Item], error) {
	windows, err := timewindow.Windows(from, to, s.config.MaxTimeRange)
	if err != nil {
		return nil, err
	}
	if len(windows) == 0 {
		return nil, nil
	}

	gate := s.newGate()
	first, err := s.walkListings(ctx, gate, windows[0], kind, custom)
	if err != nil {
		return nil, err
	}
	if err := apierror.Check(first); err != nil {
		return nil, err
	}

	rest, err := fanout.Collect(ctx, len(windows)-1, s.config.MaxConcurrency,
		func(ctx context.Context, i int) (pagination.Page[model.Item], error) {
			return s.walkListings(ctx, gate, windows[i+1], kind, custom)
		})
	if err != nil {
		return nil, err
	}

	s.logger.Debug().
		Int("windows", len(windows)).
		Str("kind", string(kind)).
		Msg("Range walked")

	return append([]pagination.Page[model.Item]{first}, rest...), nil
}

// walkListings fetches every page of one window with the lightweight
// (custom) or the standard listing call. Every call passes through gate.
func (s *Service) walkListings(ctx context.Context, gate *fanout.Gate, window model.TimeWindow, kind model.ListingTimeRange, custom bool) (pagination.Page[model.Item], error) {
	call, fetch := transport.CallGetSellerList, listingFetch(s.transport.FetchListings)
	if custom {
		call, fetch = transport.CallGetSellerListCustom, s.transport.FetchListingsCustom
	}

	return pagination.Walk(ctx, s.walker, func(ctx context.Context, page int) (pagination.Page[model.Item], error) {
		var resp *model.ListingsResponse
		err := gate.Do(ctx, func(ctx context.Context) error {
			var err error
			resp, err = fetch(ctx, window, kind, page)
			return err
		})
		if err != nil {
			return pagination.Page[model.Item]{}, err
		}
		if resp == nil {
			return pagination.Page[model.Item]{}, emptyResponse(call)
		}
		return pagination.FromListings(resp), nil
	})
}

func (s *Service) newGate() *fanout.Gate {
	return fanout.NewGate(s.config.MaxConcurrency)
}

// itemDetails fetches the detail of every id concurrently.
func (s *Service) itemDetails(ctx context.Context, ids []string) (map[string]model.Item, error) {
	ids = uniqueItemIDs(ids)

	details, err := fanout.Collect(ctx, len(ids), s.config.MaxConcurrency,
		func(ctx context.Context, i int) (model.Item, error) {
			item, err := s.transport.FetchItemDetail(ctx, ids[i])
			if err != nil {
				return model.Item{}, err
			}
			if item == nil {
				return model.Item{}, emptyResponse(transport.CallGetItem)
			}
			return *item, nil
		})
	if err != nil {
		return nil, err
	}

	byID := make(map[string]model.Item, len(ids))
	for i, id := range ids {
		byID[id] = details[i]
	}
	return byID, nil
}

// finishItems drops listings repeated across pages, then expands composite
// items into one item per variation.
func finishItems(items []model.Item) []model.Item {
	return variation.Expand(dedupe.ItemsByID(items))
}

// uniqueItemIDs drops empty and repeated ids, keeping first occurrences.
func uniqueItemIDs(ids []string) []string {
	out := dedupe.By(ids, func(id string) string { return id })
	kept := out[:0]
	for _, id := range out {
		if id != "" {
			kept = append(kept, id)
		}
	}
	return kept
}

func itemsOf(p pagination.Page[model.Item]) []model.Item {
	return p.Items
}

