package model

import "time"

// OrderTimeRange selects which order timestamp a time window filters on.
type OrderTimeRange string

const (
	// OrderRangeModTime filters orders by last modification time.
	OrderRangeModTime OrderTimeRange = "mod_time"

	// OrderRangeCreateTime filters orders by creation time.
	OrderRangeCreateTime OrderTimeRange = "create_time"
)

// Order is a marketplace order.
type Order struct {
	// OrderID is the primary, stable order identifier.
	OrderID string `json:"order_id"`

	// SaleRecordNumber is the seller-side secondary identifier.
	SaleRecordNumber string `json:"sale_record_number"`

	Status      string    `json:"status,omitempty"`
	CreatedTime time.Time `json:"created_time"`

	// ModifiedTime is zero for an order never changed since creation.
	ModifiedTime time.Time     `json:"modified_time,omitempty"`
	Transactions []Transaction `json:"transactions,omitempty"`
}

// LastModified returns the time of the latest change to the order.
func (o Order) LastModified() time.Time {
	if o.ModifiedTime.IsZero() {
		return o.CreatedTime
	}
	return o.ModifiedTime
}

// Transaction is a single line of an order. It references exactly one item.
type Transaction struct {
	TransactionID string `json:"transaction_id"`
	Quantity      int    `json:"quantity"`
	Item          Item   `json:"item"`
}

// OrdersResponse is the typed result of every order-returning transport call.
type OrdersResponse struct {
	Orders []Order    `json:"orders,omitempty"`
	Errors []APIError `json:"errors,omitempty"`
}

// APIErrors implements apierror.Response.
func (r *OrdersResponse) APIErrors() []APIError {
	if r == nil {
		return nil
	}
	return r.Errors
}
