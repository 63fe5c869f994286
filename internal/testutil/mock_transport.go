// Package testutil provides testing utilities for the marketplace client.
package testutil

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Sternrassler/ebay-access-client/pkg/model"
	"github.com/Sternrassler/ebay-access-client/pkg/transport"
)

// MockTransport is a programmable transport.Transport for tests.
//
// Each call is routed to the matching handler field. A nil handler answers
// with an empty response. Calls are counted per call name and the peak
// number of concurrent calls is tracked.
type MockTransport struct {
	OrdersByRange  func(ctx context.Context, window model.TimeWindow, kind model.OrderTimeRange) (*model.OrdersResponse, error)
	OrdersByIDs    func(ctx context.Context, ids []string) (*model.OrdersResponse, error)
	SaleRecord     func(ctx context.Context, saleRecordNumber string) (*model.OrdersResponse, error)
	ListingsCustom func(ctx context.Context, window model.TimeWindow, kind model.ListingTimeRange, page int) (*model.ListingsResponse, error)
	Listings       func(ctx context.Context, window model.TimeWindow, kind model.ListingTimeRange, page int) (*model.ListingsResponse, error)
	ItemDetail     func(ctx context.Context, itemID string) (*model.Item, error)
	Revise         func(ctx context.Context, requests []model.InventoryStatusRequest) (*model.ReviseInventoryResponse, error)

	// Delay is slept before every call unless ctx ends first.
	Delay time.Duration

	mu       sync.Mutex
	counts   map[string]int
	inFlight int
	peak     int
}

var _ transport.Transport = (*MockTransport)(nil)

// NewMockTransport creates a mock with no handlers.
func NewMockTransport() *MockTransport {
	return &MockTransport{counts: make(map[string]int)}
}

// CallCount returns how often the named call was issued.
func (m *MockTransport) CallCount(call string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.counts[call]
}

// TotalCalls returns the number of calls issued.
func (m *MockTransport) TotalCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	total := 0
	for _, n := range m.counts {
		total += n
	}
	return total
}

// PeakConcurrency returns the highest number of calls seen in flight.
func (m *MockTransport) PeakConcurrency() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.peak
}

// Reset clears all tracking counters.
func (m *MockTransport) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counts = make(map[string]int)
	m.inFlight = 0
	m.peak = 0
}

func (m *MockTransport) enter(ctx context.Context, call string) (func(), error) {
	m.mu.Lock()
	if m.counts == nil {
		m.counts = make(map[string]int)
	}
	m.counts[call]++
	m.inFlight++
	if m.inFlight > m.peak {
		m.peak = m.inFlight
	}
	m.mu.Unlock()

	leave := func() {
		m.mu.Lock()
		m.inFlight--
		m.mu.Unlock()
	}

	if m.Delay > 0 {
		timer := time.NewTimer(m.Delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			leave()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
	return leave, nil
}

func (m *MockTransport) FetchOrdersByRange(ctx context.Context, window model.TimeWindow, kind model.OrderTimeRange) (*model.OrdersResponse, error) {
	leave, err := m.enter(ctx, transport.CallGetOrders)
	if err != nil {
		return nil, err
	}
	defer leave()
	if m.OrdersByRange == nil {
		return &model.OrdersResponse{}, nil
	}
	return m.OrdersByRange(ctx, window, kind)
}

func (m *MockTransport) FetchOrdersByIDs(ctx context.Context, ids []string) (*model.OrdersResponse, error) {
	leave, err := m.enter(ctx, transport.CallGetOrders)
	if err != nil {
		return nil, err
	}
	defer leave()
	if m.OrdersByIDs == nil {
		return &model.OrdersResponse{}, nil
	}
	return m.OrdersByIDs(ctx, ids)
}

func (m *MockTransport) FetchSaleRecord(ctx context.Context, saleRecordNumber string) (*model.OrdersResponse, error) {
	leave, err := m.enter(ctx, transport.CallGetSellingManagerOrder)
	if err != nil {
		return nil, err
	}
	defer leave()
	if m.SaleRecord == nil {
		return &model.OrdersResponse{}, nil
	}
	return m.SaleRecord(ctx, saleRecordNumber)
}

func (m *MockTransport) FetchListingsCustom(ctx context.Context, window model.TimeWindow, kind model.ListingTimeRange, page int) (*model.ListingsResponse, error) {
	leave, err := m.enter(ctx, transport.CallGetSellerListCustom)
	if err != nil {
		return nil, err
	}
	defer leave()
	if m.ListingsCustom == nil {
		return &model.ListingsResponse{}, nil
	}
	return m.ListingsCustom(ctx, window, kind, page)
}

func (m *MockTransport) FetchListings(ctx context.Context, window model.TimeWindow, kind model.ListingTimeRange, page int) (*model.ListingsResponse, error) {
	leave, err := m.enter(ctx, transport.CallGetSellerList)
	if err != nil {
		return nil, err
	}
	defer leave()
	if m.Listings == nil {
		return &model.ListingsResponse{}, nil
	}
	return m.Listings(ctx, window, kind, page)
}

func (m *MockTransport) FetchItemDetail(ctx context.Context, itemID string) (*model.Item, error) {
	leave, err := m.enter(ctx, transport.CallGetItem)
	if err != nil {
		return nil, err
	}
	defer leave()
	if m.ItemDetail == nil {
		return &model.Item{ItemID: itemID}, nil
	}
	return m.ItemDetail(ctx, itemID)
}

func (m *MockTransport) ReviseInventory(ctx context.Context, requests []model.InventoryStatusRequest) (*model.ReviseInventoryResponse, error) {
	leave, err := m.enter(ctx, transport.CallReviseInventoryStatus)
	if err != nil {
		return nil, err
	}
	defer leave()
	if m.Revise == nil {
		return &model.ReviseInventoryResponse{}, nil
	}
	return m.Revise(ctx, requests)
}

// MockAuthenticator is a programmable transport.Authenticator.
type MockAuthenticator struct {
	SessionID string
	Token     model.UserToken

	// Err, when set, is returned by every call.
	Err error
}

var _ transport.Authenticator = (*MockAuthenticator)(nil)

func (a *MockAuthenticator) GetSessionID(ctx context.Context) (string, error) {
	if a.Err != nil {
		return "", a.Err
	}
	return a.SessionID, nil
}

func (a *MockAuthenticator) GetAuthURI(ctx context.Context, sessionID string) (string, error) {
	if a.Err != nil {
		return "", a.Err
	}
	return fmt.Sprintf("https://signin.example.test/ws?SignIn&SessID=%s", sessionID), nil
}

func (a *MockAuthenticator) AuthenticateUser(ctx context.Context, sessionID string) error {
	return a.Err
}

func (a *MockAuthenticator) FetchToken(ctx context.Context, sessionID string) (model.UserToken, error) {
	if a.Err != nil {
		return model.UserToken{}, a.Err
	}
	return a.Token, nil
}
