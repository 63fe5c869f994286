package service

import (
	"context"
	"time"

	"github.com/Sternrassler/ebay-access-client/pkg/model"
)

// FetchOrdersByRangeAsync runs FetchOrdersByRange in the background.
func (s *Service) FetchOrdersByRangeAsync(ctx context.Context, from, to time.Time) *Future[[]model.Order] {
	return async(func() ([]model.Order, error) { return s.FetchOrdersByRange(ctx, from, to) })
}

// FetchOrdersByIDsAsync runs FetchOrdersByIDs in the background.
func (s *Service) FetchOrdersByIDsAsync(ctx context.Context, ids []string) *Future[[]string] {
	return async(func() ([]string, error) { return s.FetchOrdersByIDs(ctx, ids) })
}

// FetchSaleRecordNumbersAsync runs FetchSaleRecordNumbers in the background.
func (s *Service) FetchSaleRecordNumbersAsync(ctx context.Context, ids []string) *Future[[]string] {
	return async(func() ([]string, error) { return s.FetchSaleRecordNumbers(ctx, ids) })
}

// FetchOrdersWithItemDetailsAsync runs FetchOrdersWithItemDetails in the
// background.
func (s *Service) FetchOrdersWithItemDetailsAsync(ctx context.Context, from, to time.Time) *Future[[]model.Order] {
	return async(func() ([]model.Order, error) { return s.FetchOrdersWithItemDetails(ctx, from, to) })
}

// FetchActiveListingsAsync runs FetchActiveListings in the background.
func (s *Service) FetchActiveListingsAsync(ctx context.Context) *Future[[]model.Item] {
	return async(func() ([]model.Item, error) { return s.FetchActiveListings(ctx) })
}

// FetchListingsByDateRangeAsync runs FetchListingsByDateRange in the
// background.
func (s *Service) FetchListingsByDateRangeAsync(ctx context.Context, from, to time.Time) *Future[[]model.Item] {
	return async(func() ([]model.Item, error) { return s.FetchListingsByDateRange(ctx, from, to) })
}

// FetchListingDetailsByDateRangeAsync runs FetchListingDetailsByDateRange
// in the background.
func (s *Service) FetchListingDetailsByDateRangeAsync(ctx context.Context, from, to time.Time) *Future[[]model.Item] {
	return async(func() ([]model.Item, error) { return s.FetchListingDetailsByDateRange(ctx, from, to) })
}

// FetchAllListingDetailsAsync runs FetchAllListingDetails in the background.
func (s *Service) FetchAllListingDetailsAsync(ctx context.Context) *Future[[]model.Item] {
	return async(func() ([]model.Item, error) { return s.FetchAllListingDetails(ctx) })
}

// UpdateInventoryAsync runs UpdateInventory in the background.
func (s *Service) UpdateInventoryAsync(ctx context.Context, requests []model.InventoryStatusRequest) *Future[[]model.InventoryStatusResponse] {
	return async(func() ([]model.InventoryStatusResponse, error) { return s.UpdateInventory(ctx, requests) })
}
