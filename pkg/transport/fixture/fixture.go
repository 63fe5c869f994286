// Package fixture provides an in-memory Transport and Authenticator served
// from a canned JSON dataset. It backs the sandbox mode of cmd/ebay-sync
// and end-to-end tests.
package fixture

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"slices"
	"strconv"
	"sync"
	"time"

	"github.com/Sternrassler/ebay-access-client/pkg/logging"
	"github.com/Sternrassler/ebay-access-client/pkg/model"
	"github.com/Sternrassler/ebay-access-client/pkg/transport"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// DefaultPageSize is used when the dataset does not set one.
const DefaultPageSize = 100

// Embedded error codes reported by the fixture.
const (
	// CodeItemNotFound is reported by item detail calls for unknown ids.
	CodeItemNotFound = 17

	// CodeUnknownInventory is reported for inventory requests that match
	// no listing or variation.
	CodeUnknownInventory = 21919196
)

// Dataset is the content of a fixture file.
type Dataset struct {
	PageSize int           `json:"page_size"`
	Orders   []model.Order `json:"orders"`
	Items    []model.Item  `json:"items"`
}

// Transport serves marketplace calls from a Dataset. Inventory updates
// mutate the dataset held in memory.
type Transport struct {
	mu     sync.RWMutex
	data   Dataset
	logger zerolog.Logger
}

var _ transport.Transport = (*Transport)(nil)

// New creates a fixture transport over data.
func New(data Dataset) *Transport {
	if data.PageSize <= 0 {
		data.PageSize = DefaultPageSize
	}
	return &Transport{
		data:   data,
		logger: logging.NewLogger("fixture"),
	}
}

// Load reads a JSON dataset from path.
func Load(path string) (*Transport, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture: %w", err)
	}

	var data Dataset
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("decode fixture %s: %w", path, err)
	}

	t := New(data)
	t.logger.Info().
		Str("path", path).
		Int("orders", len(data.Orders)).
		Int("items", len(data.Items)).
		Msg("Fixture loaded")
	return t, nil
}

func (t *Transport) FetchOrdersByRange(ctx context.Context, window model.TimeWindow, kind model.OrderTimeRange) (*model.OrdersResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, transport.NewError(transport.CallGetOrders, transport.ErrorClassNetwork, err)
	}
	return t.orders(func(o model.Order) bool {
		at := o.LastModified()
		if kind == model.OrderRangeCreateTime {
			at = o.CreatedTime
		}
		return within(window, at)
	}), nil
}

func (t *Transport) FetchOrdersByIDs(ctx context.Context, ids []string) (*model.OrdersResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, transport.NewError(transport.CallGetOrders, transport.ErrorClassNetwork, err)
	}
	return t.orders(func(o model.Order) bool { return slices.Contains(ids, o.OrderID) }), nil
}

func (t *Transport) FetchSaleRecord(ctx context.Context, saleRecordNumber string) (*model.OrdersResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, transport.NewError(transport.CallGetSellingManagerOrder, transport.ErrorClassNetwork, err)
	}
	return t.orders(func(o model.Order) bool { return o.SaleRecordNumber == saleRecordNumber }), nil
}

func (t *Transport) FetchListingsCustom(ctx context.Context, window model.TimeWindow, kind model.ListingTimeRange, page int) (*model.ListingsResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, transport.NewError(transport.CallGetSellerListCustom, transport.ErrorClassNetwork, err)
	}
	resp := t.listings(window, kind, page)
	// The lightweight query omits descriptive fields.
	for i := range resp.Items {
		resp.Items[i].Title = ""
	}
	return resp, nil
}

func (t *Transport) FetchListings(ctx context.Context, window model.TimeWindow, kind model.ListingTimeRange, page int) (*model.ListingsResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, transport.NewError(transport.CallGetSellerList, transport.ErrorClassNetwork, err)
	}
	return t.listings(window, kind, page), nil
}

func (t *Transport) FetchItemDetail(ctx context.Context, itemID string) (*model.Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, transport.NewError(transport.CallGetItem, transport.ErrorClassNetwork, err)
	}

	t.mu.RLock()
	defer t.mu.RUnlock()

	for _, item := range t.data.Items {
		if item.ItemID == itemID {
			out := cloneItem(item)
			return &out, nil
		}
	}
	return nil, transport.NewError(transport.CallGetItem, transport.ErrorClassClient,
		fmt.Errorf("item %s not found (code %d)", itemID, CodeItemNotFound))
}

func (t *Transport) ReviseInventory(ctx context.Context, requests []model.InventoryStatusRequest) (*model.ReviseInventoryResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, transport.NewError(transport.CallReviseInventoryStatus, transport.ErrorClassNetwork, err)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	resp := &model.ReviseInventoryResponse{}
	for _, req := range requests {
		updated, ok := t.revise(req)
		if !ok {
			resp.Errors = append(resp.Errors, model.APIError{
				Code:         CodeUnknownInventory,
				ShortMessage: "Unknown inventory",
				LongMessage:  fmt.Sprintf("no listing matches item %d sku %q", req.ItemID, req.SKU),
			})
			continue
		}
		resp.Items = append(resp.Items, updated)
	}

	t.logger.Debug().
		Int("requests", len(requests)).
		Int("updated", len(resp.Items)).
		Int("api_errors", len(resp.Errors)).
		Msg("Inventory revised")

	return resp, nil
}

// revise applies req to the first listing or variation it matches. The
// caller holds the write lock.
func (t *Transport) revise(req model.InventoryStatusRequest) (model.InventoryStatusResponse, bool) {
	for i := range t.data.Items {
		item := &t.data.Items[i]
		if req.ItemID != 0 && item.ItemID != strconv.FormatInt(req.ItemID, 10) {
			continue
		}

		id, _ := strconv.ParseInt(item.ItemID, 10, 64)

		for j := range item.Variations {
			v := &item.Variations[j]
			if req.SKU != "" && v.SKU == req.SKU {
				v.Quantity = req.Quantity
				return model.InventoryStatusResponse{ItemID: id, SKU: v.SKU, Quantity: v.Quantity}, true
			}
		}
		if req.SKU == "" || item.SKU == req.SKU {
			item.Quantity = req.Quantity
			return model.InventoryStatusResponse{ItemID: id, SKU: item.SKU, Quantity: item.Quantity}, true
		}
	}
	return model.InventoryStatusResponse{}, false
}

func (t *Transport) orders(match func(model.Order) bool) *model.OrdersResponse {
	t.mu.RLock()
	defer t.mu.RUnlock()

	resp := &model.OrdersResponse{Orders: []model.Order{}}
	for _, o := range t.data.Orders {
		if match(o) {
			resp.Orders = append(resp.Orders, o)
		}
	}
	return resp
}

func (t *Transport) listings(window model.TimeWindow, kind model.ListingTimeRange, page int) *model.ListingsResponse {
	t.mu.RLock()
	defer t.mu.RUnlock()

	var matched []model.Item
	for _, item := range t.data.Items {
		at := item.EndTime
		if kind == model.ListingRangeStartTime {
			at = item.StartTime
		}
		if within(window, at) {
			matched = append(matched, cloneItem(item))
		}
	}

	size := t.data.PageSize
	totalPages := max((len(matched)+size-1)/size, 1)
	page = max(page, 1)

	start := min((page-1)*size, len(matched))
	end := min(start+size, len(matched))

	return &model.ListingsResponse{
		Items: matched[start:end],
		Pagination: model.PaginationState{
			PageNumber:   page,
			TotalPages:   totalPages,
			TotalEntries: len(matched),
		},
	}
}

// Authenticator completes every sign-in immediately and issues tokens
// valid for TokenTTL.
type Authenticator struct {
	// SignInURL is the base of generated sign-in pages.
	SignInURL string
	TokenTTL  time.Duration

	mu       sync.Mutex
	sessions map[string]bool
}

var _ transport.Authenticator = (*Authenticator)(nil)

// NewAuthenticator creates a fixture authenticator.
func NewAuthenticator() *Authenticator {
	return &Authenticator{
		SignInURL: "https://signin.sandbox.example/ws/eBayISAPI.dll?SignIn",
		TokenTTL:  24 * time.Hour,
		sessions:  make(map[string]bool),
	}
}

func (a *Authenticator) GetSessionID(ctx context.Context) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	id := uuid.NewString()
	a.sessions[id] = false
	return id, nil
}

func (a *Authenticator) GetAuthURI(ctx context.Context, sessionID string) (string, error) {
	return fmt.Sprintf("%s&SessID=%s", a.SignInURL, sessionID), nil
}

func (a *Authenticator) AuthenticateUser(ctx context.Context, sessionID string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if _, ok := a.sessions[sessionID]; !ok {
		return fmt.Errorf("unknown session %s", sessionID)
	}
	a.sessions[sessionID] = true
	return nil
}

func (a *Authenticator) FetchToken(ctx context.Context, sessionID string) (model.UserToken, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.sessions[sessionID] {
		return model.UserToken{}, fmt.Errorf("session %s is not authenticated", sessionID)
	}
	return model.UserToken{
		Token:   "sandbox-" + sessionID,
		Expires: time.Now().Add(a.TokenTTL).UTC(),
	}, nil
}

func within(w model.TimeWindow, at time.Time) bool {
	return !at.Before(w.Start) && !at.After(w.End)
}

func cloneItem(item model.Item) model.Item {
	item.Variations = slices.Clone(item.Variations)
	return item
}
