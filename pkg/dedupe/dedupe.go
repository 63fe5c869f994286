// Package dedupe collapses entities that share an identity key.
//
// Identity is defined only by the key function passed in. When several
// entities share a key, the first one in input order wins and the others
// are dropped, whatever their payload. Key functions must be total and
// deterministic.
package dedupe

import "github.com/Sternrassler/ebay-access-client/pkg/model"

// By returns one entity per key, keeping the first occurrence and the
// input order of the survivors.
func By[T any, K comparable](items []T, keyOf func(T) K) []T {
	seen := make(map[K]struct{}, len(items))
	out := make([]T, 0, len(items))
	for _, item := range items {
		k := keyOf(item)
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, item)
	}
	return out
}

// OrderID keys an order by its primary identifier.
func OrderID(o model.Order) string { return o.OrderID }

// SaleRecordNumber keys an order by its sale record number.
func SaleRecordNumber(o model.Order) string { return o.SaleRecordNumber }

// OrdersByID collapses orders sharing an order id.
func OrdersByID(orders []model.Order) []model.Order {
	return By(orders, OrderID)
}

// OrdersBySaleRecord collapses orders sharing a sale record number. It is
// used to confirm which candidate sale records exist remotely.
func OrdersBySaleRecord(orders []model.Order) []model.Order {
	return By(orders, SaleRecordNumber)
}

// ItemID keys a listing by its item id.
func ItemID(i model.Item) string { return i.ItemID }

// ItemsByID collapses listings sharing an item id. It runs before variation
// expansion: expanded variants share their parent's id and may carry no SKU.
func ItemsByID(items []model.Item) []model.Item {
	return By(items, ItemID)
}

// Keys maps entities to their keys, preserving order.
func Keys[T any, K comparable](items []T, keyOf func(T) K) []K {
	out := make([]K, 0, len(items))
	for _, item := range items {
		out = append(out, keyOf(item))
	}
	return out
}

// ConfirmExisting returns the candidates that appear in found, in candidate
// order. A candidate listed twice is returned twice.
func ConfirmExisting[K comparable](candidates, found []K) []K {
	present := make(map[K]struct{}, len(found))
	for _, k := range found {
		present[k] = struct{}{}
	}

	out := make([]K, 0, len(candidates))
	for _, c := range candidates {
		if _, ok := present[c]; ok {
			out = append(out, c)
		}
	}
	return out
}
