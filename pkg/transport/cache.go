package transport

import (
	"context"
	"errors"
	"strconv"

	"github.com/Sternrassler/ebay-access-client/pkg/cache"
	"github.com/Sternrassler/ebay-access-client/pkg/model"
	"github.com/rs/zerolog"
)

// WithItemCache serves FetchItemDetail from mgr and stores fetched detail
// in it. Successful inventory revisions invalidate the touched items.
// Cache faults are logged and never fail a call.
func WithItemCache(mgr *cache.Manager, account string, logger zerolog.Logger) Middleware {
	return func(next Transport) Transport {
		return &itemCache{Transport: next, mgr: mgr, account: account, logger: logger}
	}
}

type itemCache struct {
	Transport
	mgr     *cache.Manager
	account string
	logger  zerolog.Logger
}

func (c *itemCache) FetchItemDetail(ctx context.Context, itemID string) (*model.Item, error) {
	item, err := c.mgr.GetItem(ctx, c.account, itemID)
	if err == nil {
		return item, nil
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		c.logger.Warn().Err(err).Str("item_id", itemID).Msg("Item cache read failed")
	}

	item, err = c.Transport.FetchItemDetail(ctx, itemID)
	if err != nil || item == nil {
		return item, err
	}

	if err := c.mgr.SetItem(ctx, c.account, item); err != nil {
		c.logger.Warn().Err(err).Str("item_id", itemID).Msg("Item cache write failed")
	}
	return item, nil
}

func (c *itemCache) ReviseInventory(ctx context.Context, requests []model.InventoryStatusRequest) (*model.ReviseInventoryResponse, error) {
	resp, err := c.Transport.ReviseInventory(ctx, requests)
	if err != nil || resp == nil {
		return resp, err
	}

	ids := make([]string, 0, len(resp.Items))
	for _, it := range resp.Items {
		if it.ItemID != 0 {
			ids = append(ids, strconv.FormatInt(it.ItemID, 10))
		}
	}
	if err := c.mgr.InvalidateItems(ctx, c.account, ids...); err != nil {
		c.logger.Warn().Err(err).Msg("Item cache invalidation failed")
	}
	return resp, nil
}
