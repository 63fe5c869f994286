// Package cache provides a two-layer cache for marketplace item detail.
//
// The first layer is an in-process expirable LRU, the second an optional
// Redis backend shared between processes. Reads fall through L1 to Redis
// and populate L1 on a Redis hit.
//
// # Basic Usage
//
//	redisClient := redis.NewClient(&redis.Options{
//		Addr: "localhost:6379",
//	})
//
//	manager := cache.NewManager(redisClient, cache.DefaultConfig())
//
//	key := cache.Key{Kind: cache.KindItem, Account: "seller", ID: "110001"}
//
//	entry, err := manager.Get(ctx, key)
//	if errors.Is(err, cache.ErrCacheMiss) {
//		// fetch from the marketplace
//	}
//
// Item detail has typed helpers:
//
//	item, err := manager.GetItem(ctx, "seller", "110001")
//	err = manager.SetItem(ctx, "seller", item)
//
// # Metrics
//
//   - ebay_cache_hits_total{layer="memory|redis"} - Cache hits
//   - ebay_cache_misses_total - Cache misses
//   - ebay_cache_size_bytes{layer="redis"} - Bytes written to Redis
//   - ebay_cache_errors_total{operation} - Cache operation errors
//
// Listing quantities change with every sale, so entries carry a short TTL
// and callers that need live stock must bypass the cache.
package cache
