// Package transport defines the marketplace Transport collaborator and the
// middleware that wraps it with timeouts, metrics, retries, call-quota
// gating and item-detail caching.
//
// A Transport executes single, well-formed calls and returns typed
// responses. Domain-level failures come back embedded in the response;
// only faults that prevent a response are returned as errors.
package transport

import (
	"context"

	"github.com/Sternrassler/ebay-access-client/pkg/model"
)

// Call names, used for logging and metric labels.
const (
	CallGetOrders              = "GetOrders"
	CallGetSellingManagerOrder = "GetSellingManagerSoldListings"
	CallGetSellerListCustom    = "GetSellerListCustom"
	CallGetSellerList          = "GetSellerList"
	CallGetItem                = "GetItem"
	CallReviseInventoryStatus  = "ReviseInventoryStatus"
)

// Transport executes marketplace calls.
type Transport interface {
	// FetchOrdersByRange returns orders inside one window of at most the
	// maximum query span.
	FetchOrdersByRange(ctx context.Context, window model.TimeWindow, kind model.OrderTimeRange) (*model.OrdersResponse, error)

	// FetchOrdersByIDs returns the orders among ids that exist.
	FetchOrdersByIDs(ctx context.Context, ids []string) (*model.OrdersResponse, error)

	// FetchSaleRecord returns the orders matching one sale record number.
	FetchSaleRecord(ctx context.Context, saleRecordNumber string) (*model.OrdersResponse, error)

	// FetchListingsCustom returns one page of the lightweight listing query.
	FetchListingsCustom(ctx context.Context, window model.TimeWindow, kind model.ListingTimeRange, page int) (*model.ListingsResponse, error)

	// FetchListings returns one page of the standard listing query.
	FetchListings(ctx context.Context, window model.TimeWindow, kind model.ListingTimeRange, page int) (*model.ListingsResponse, error)

	// FetchItemDetail returns a single item with full detail.
	FetchItemDetail(ctx context.Context, itemID string) (*model.Item, error)

	// ReviseInventory updates quantities and echoes the updated items.
	ReviseInventory(ctx context.Context, requests []model.InventoryStatusRequest) (*model.ReviseInventoryResponse, error)
}

// Authenticator executes the session and token acquisition calls.
type Authenticator interface {
	GetSessionID(ctx context.Context) (string, error)
	GetAuthURI(ctx context.Context, sessionID string) (string, error)
	AuthenticateUser(ctx context.Context, sessionID string) error
	FetchToken(ctx context.Context, sessionID string) (model.UserToken, error)
}
