package model

// InventoryStatusRequest asks the marketplace to set the quantity of one
// item or variation. ItemID may be zero when the SKU alone identifies it.
type InventoryStatusRequest struct {
	ItemID   int64  `json:"item_id,omitempty"`
	SKU      string `json:"sku,omitempty"`
	Quantity int    `json:"quantity"`
}

// InventoryStatusResponse echoes an updated item or variation.
type InventoryStatusResponse struct {
	ItemID     int64   `json:"item_id"`
	SKU        string  `json:"sku,omitempty"`
	Quantity   int     `json:"quantity"`
	StartPrice float64 `json:"start_price,omitempty"`
}

// ReviseInventoryResponse is the typed result of a bulk inventory update.
type ReviseInventoryResponse struct {
	Items  []InventoryStatusResponse `json:"items,omitempty"`
	Errors []APIError                `json:"errors,omitempty"`
}

// APIErrors implements apierror.Response.
func (r *ReviseInventoryResponse) APIErrors() []APIError {
	if r == nil {
		return nil
	}
	return r.Errors
}
