package cache

import (
	"strings"
)

// Key kinds.
const (
	KindItem = "item"
)

// Key identifies a cached marketplace object.
type Key struct {
	// Kind is the object type, e.g. KindItem.
	Kind string

	// Account scopes the entry to a seller account. Empty for shared data.
	Account string

	// ID is the marketplace identifier of the object.
	ID string
}

// String generates a deterministic cache key string.
// Format: ebay:kind:account:id
//
// Example:
//
//	ebay:item:seller:110001
func (k Key) String() string {
	parts := []string{"ebay"}

	if kind := strings.TrimSpace(k.Kind); kind != "" {
		parts = append(parts, kind)
	}
	if k.Account != "" {
		parts = append(parts, k.Account)
	}
	parts = append(parts, k.ID)

	return strings.Join(parts, ":")
}
