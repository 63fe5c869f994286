package transport

import (
	"context"
	"time"

	"github.com/Sternrassler/ebay-access-client/pkg/model"
)

// Middleware wraps a Transport.
type Middleware func(Transport) Transport

// Chain wraps base with the middleware. The first middleware is the
// outermost one.
func Chain(base Transport, mw ...Middleware) Transport {
	t := base
	for i := len(mw) - 1; i >= 0; i-- {
		t = mw[i](t)
	}
	return t
}

// Around runs next, the wrapped call, for the named call.
type Around func(ctx context.Context, call string, next func(ctx context.Context) error) error

// Intercept returns a middleware that routes every call through around.
func Intercept(around Around) Middleware {
	return func(next Transport) Transport {
		return &intercepted{next: next, around: around}
	}
}

// WithTimeout bounds every call by d.
func WithTimeout(d time.Duration) Middleware {
	return Intercept(func(ctx context.Context, call string, next func(context.Context) error) error {
		if d <= 0 {
			return next(ctx)
		}
		callCtx, cancel := context.WithTimeout(ctx, d)
		defer cancel()
		return next(callCtx)
	})
}

type intercepted struct {
	next   Transport
	around Around
}

func invoke[T any](ctx context.Context, t *intercepted, call string, fn func(context.Context) (T, error)) (T, error) {
	var out T
	err := t.around(ctx, call, func(ctx context.Context) error {
		var err error
		out, err = fn(ctx)
		return err
	})
	return out, err
}

func (t *intercepted) FetchOrdersByRange(ctx context.Context, window model.TimeWindow, kind model.OrderTimeRange) (*model.OrdersResponse, error) {
	return invoke(ctx, t, CallGetOrders, func(ctx context.Context) (*model.OrdersResponse, error) {
		return t.next.FetchOrdersByRange(ctx, window, kind)
	})
}

func (t *intercepted) FetchOrdersByIDs(ctx context.Context, ids []string) (*model.OrdersResponse, error) {
	return invoke(ctx, t, CallGetOrders, func(ctx context.Context) (*model.OrdersResponse, error) {
		return t.next.FetchOrdersByIDs(ctx, ids)
	})
}

func (t *intercepted) FetchSaleRecord(ctx context.Context, saleRecordNumber string) (*model.OrdersResponse, error) {
	return invoke(ctx, t, CallGetSellingManagerOrder, func(ctx context.Context) (*model.OrdersResponse, error) {
		return t.next.FetchSaleRecord(ctx, saleRecordNumber)
	})
}

func (t *intercepted) FetchListingsCustom(ctx context.Context, window model.TimeWindow, kind model.ListingTimeRange, page int) (*model.ListingsResponse, error) {
	return invoke(ctx, t, CallGetSellerListCustom, func(ctx context.Context) (*model.ListingsResponse, error) {
		return t.next.FetchListingsCustom(ctx, window, kind, page)
	})
}

func (t *intercepted) FetchListings(ctx context.Context, window model.TimeWindow, kind model.ListingTimeRange, page int) (*model.ListingsResponse, error) {
	return invoke(ctx, t, CallGetSellerList, func(ctx context.Context) (*model.ListingsResponse, error) {
		return t.next.FetchListings(ctx, window, kind, page)
	})
}

func (t *intercepted) FetchItemDetail(ctx context.Context, itemID string) (*model.Item, error) {
	return invoke(ctx, t, CallGetItem, func(ctx context.Context) (*model.Item, error) {
		return t.next.FetchItemDetail(ctx, itemID)
	})
}

func (t *intercepted) ReviseInventory(ctx context.Context, requests []model.InventoryStatusRequest) (*model.ReviseInventoryResponse, error) {
	return invoke(ctx, t, CallReviseInventoryStatus, func(ctx context.Context) (*model.ReviseInventoryResponse, error) {
		return t.next.ReviseInventory(ctx, requests)
	})
}
