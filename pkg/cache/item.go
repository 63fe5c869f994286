package cache

import (
	"context"
	"fmt"

	"github.com/Sternrassler/ebay-access-client/pkg/model"
)

// GetItem returns the cached detail of an item.
func (m *Manager) GetItem(ctx context.Context, account, itemID string) (*model.Item, error) {
	entry, err := m.Get(ctx, Key{Kind: KindItem, Account: account, ID: itemID})
	if err != nil {
		return nil, err
	}

	var item model.Item
	if err := entry.Decode(&item); err != nil {
		return nil, err
	}
	return &item, nil
}

// SetItem stores the detail of an item for the configured TTL.
func (m *Manager) SetItem(ctx context.Context, account string, item *model.Item) error {
	if item == nil || item.ItemID == "" {
		return fmt.Errorf("cache item: missing item id")
	}

	entry, err := NewEntry(item, m.config.TTL)
	if err != nil {
		return err
	}
	return m.Set(ctx, Key{Kind: KindItem, Account: account, ID: item.ItemID}, entry)
}

// InvalidateItems drops the cached detail of the given items.
func (m *Manager) InvalidateItems(ctx context.Context, account string, itemIDs ...string) error {
	for _, id := range itemIDs {
		if err := m.Delete(ctx, Key{Kind: KindItem, Account: account, ID: id}); err != nil {
			return err
		}
	}
	return nil
}
