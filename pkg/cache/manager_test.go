package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Sternrassler/ebay-access-client/pkg/model"
	"github.com/redis/go-redis/v9"
)

// setupTestRedis connects to a local Redis on a dedicated DB or skips.
func setupTestRedis(t *testing.T) *redis.Client {
	t.Helper()

	client := redis.NewClient(&redis.Options{
		Addr: "localhost:6379",
		DB:   15, // Use a separate DB for tests
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("Redis not available for testing: %v", err)
	}

	if err := client.FlushDB(ctx).Err(); err != nil {
		t.Fatalf("Failed to flush test DB: %v", err)
	}

	t.Cleanup(func() {
		client.FlushDB(context.Background())
		client.Close()
	})

	return client
}

func TestManager_MemoryOnly(t *testing.T) {
	manager := NewManager(nil, DefaultConfig())
	ctx := context.Background()
	key := Key{Kind: KindItem, Account: "seller", ID: "1"}

	if _, err := manager.Get(ctx, key); !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("Get() on empty cache error = %v, want ErrCacheMiss", err)
	}

	entry, err := NewEntry(map[string]int{"qty": 3}, time.Minute)
	if err != nil {
		t.Fatalf("NewEntry() error = %v", err)
	}
	if err := manager.Set(ctx, key, entry); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	got, err := manager.Get(ctx, key)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if string(got.Data) != string(entry.Data) {
		t.Errorf("Data = %s, want %s", got.Data, entry.Data)
	}

	if err := manager.Delete(ctx, key); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := manager.Get(ctx, key); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("Get() after Delete error = %v, want ErrCacheMiss", err)
	}
}

func TestManager_SetExpiredIsNoop(t *testing.T) {
	manager := NewManager(nil, DefaultConfig())
	ctx := context.Background()
	key := Key{Kind: KindItem, ID: "stale"}

	entry := &Entry{Data: []byte(`{}`), Expires: time.Now().Add(-time.Second)}
	if err := manager.Set(ctx, key, entry); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if _, err := manager.Get(ctx, key); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("Get() error = %v, want ErrCacheMiss", err)
	}
}

func TestManager_SetNil(t *testing.T) {
	manager := NewManager(nil, DefaultConfig())
	if err := manager.Set(context.Background(), Key{ID: "x"}, nil); err == nil {
		t.Error("Set(nil) error = nil, want error")
	}
}

func TestManager_ItemHelpers(t *testing.T) {
	manager := NewManager(nil, DefaultConfig())
	ctx := context.Background()

	item := &model.Item{ItemID: "110001", SKU: "SKU-1", Quantity: 4, Title: "Widget"}
	if err := manager.SetItem(ctx, "seller", item); err != nil {
		t.Fatalf("SetItem() error = %v", err)
	}

	got, err := manager.GetItem(ctx, "seller", "110001")
	if err != nil {
		t.Fatalf("GetItem() error = %v", err)
	}
	if got.SKU != "SKU-1" || got.Quantity != 4 {
		t.Errorf("GetItem() = %+v, want SKU-1 qty 4", got)
	}

	if _, err := manager.GetItem(ctx, "other", "110001"); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("GetItem() for other account error = %v, want ErrCacheMiss", err)
	}

	if err := manager.InvalidateItems(ctx, "seller", "110001"); err != nil {
		t.Fatalf("InvalidateItems() error = %v", err)
	}
	if _, err := manager.GetItem(ctx, "seller", "110001"); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("GetItem() after invalidate error = %v, want ErrCacheMiss", err)
	}

	if err := manager.SetItem(ctx, "seller", &model.Item{}); err == nil {
		t.Error("SetItem() without id error = nil, want error")
	}
}

func TestManager_RedisFallthrough(t *testing.T) {
	client := setupTestRedis(t)
	ctx := context.Background()
	key := Key{Kind: KindItem, Account: "seller", ID: "2"}

	writer := NewManager(client, DefaultConfig())
	entry, err := NewEntry(map[string]string{"sku": "A"}, time.Minute)
	if err != nil {
		t.Fatalf("NewEntry() error = %v", err)
	}
	if err := writer.Set(ctx, key, entry); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	// A second manager has a cold L1 and must read through to Redis.
	reader := NewManager(client, DefaultConfig())
	got, err := reader.Get(ctx, key)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if string(got.Data) != string(entry.Data) {
		t.Errorf("Data = %s, want %s", got.Data, entry.Data)
	}

	ttl := client.TTL(ctx, key.String()).Val()
	if ttl <= 0 || ttl > time.Minute {
		t.Errorf("redis TTL = %v, want within (0, 1m]", ttl)
	}
}

func TestManager_RedisInvalidEntry(t *testing.T) {
	client := setupTestRedis(t)
	ctx := context.Background()
	key := Key{Kind: KindItem, ID: "broken"}

	client.Set(ctx, key.String(), "not json", time.Minute)

	manager := NewManager(client, Config{})
	if _, err := manager.Get(ctx, key); !errors.Is(err, ErrInvalidEntry) {
		t.Errorf("Get() error = %v, want ErrInvalidEntry", err)
	}
}
