package model

import "time"

// ListingTimeRange selects which listing timestamp a time window filters on.
type ListingTimeRange string

const (
	// ListingRangeStartTime filters listings by start time.
	ListingRangeStartTime ListingTimeRange = "start_time"

	// ListingRangeEndTime filters listings by end time.
	ListingRangeEndTime ListingTimeRange = "end_time"
)

// Item is a listing. A composite item represents a multi-variation listing
// and owns its Variations in listing order.
type Item struct {
	ItemID string `json:"item_id"`

	// SKU may be empty until resolved through an item detail call.
	SKU string `json:"sku,omitempty"`

	Quantity    int         `json:"quantity"`
	Title       string      `json:"title,omitempty"`
	StartTime   time.Time   `json:"start_time,omitempty"`
	EndTime     time.Time   `json:"end_time,omitempty"`
	IsComposite bool        `json:"is_composite,omitempty"`
	Variations  []Variation `json:"variations,omitempty"`
}

// Variation is one sellable variant of a composite item.
type Variation struct {
	SKU      string `json:"sku"`
	Quantity int    `json:"quantity"`
}

// ItemKey identifies an item after variation expansion.
type ItemKey struct {
	ItemID string
	SKU    string
}

// Key returns the identity of the item.
func (i Item) Key() ItemKey {
	return ItemKey{ItemID: i.ItemID, SKU: i.SKU}
}

// ListingsResponse is one page of a listing query.
type ListingsResponse struct {
	Items      []Item          `json:"items,omitempty"`
	Pagination PaginationState `json:"pagination"`
	Errors     []APIError      `json:"errors,omitempty"`
}

// APIErrors implements apierror.Response.
func (r *ListingsResponse) APIErrors() []APIError {
	if r == nil {
		return nil
	}
	return r.Errors
}

// PaginationState tracks progress through a paged query.
type PaginationState struct {
	PageNumber   int `json:"page_number"`
	TotalPages   int `json:"total_pages"`
	TotalEntries int `json:"total_entries"`
}

// IsLast reports whether the page is the final one.
func (p PaginationState) IsLast() bool {
	return p.PageNumber >= p.TotalPages
}
