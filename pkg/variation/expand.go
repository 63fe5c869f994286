// Package variation splits multi-variation listings into one item per
// sellable variant.
package variation

import "github.com/Sternrassler/ebay-access-client/pkg/model"

// Expand returns the items with every composite item that owns more than
// one variation replaced by one item per variation. Each expanded item
// keeps the parent's identifier and fields but takes SKU and quantity from
// its variation and is no longer composite.
//
// Items that are not composite, or composite with zero or one variation,
// are emitted unchanged. Output follows input order, then variation order.
func Expand(items []model.Item) []model.Item {
	out := make([]model.Item, 0, len(items))
	for _, item := range items {
		if !isMultiVariation(item) {
			out = append(out, item)
			continue
		}
		for _, v := range item.Variations {
			out = append(out, split(item, v))
		}
	}
	return out
}

func isMultiVariation(item model.Item) bool {
	return item.IsComposite && len(item.Variations) > 1
}

func split(parent model.Item, v model.Variation) model.Item {
	child := parent
	child.SKU = v.SKU
	child.Quantity = v.Quantity
	child.IsComposite = false
	child.Variations = nil
	return child
}
