package fixture_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/Sternrassler/ebay-access-client/pkg/apierror"
	"github.com/Sternrassler/ebay-access-client/pkg/model"
	"github.com/Sternrassler/ebay-access-client/pkg/service"
	"github.com/Sternrassler/ebay-access-client/pkg/telemetry"
	"github.com/Sternrassler/ebay-access-client/pkg/transport"
	"github.com/Sternrassler/ebay-access-client/pkg/transport/fixture"
)

func loadSandbox(t *testing.T) *fixture.Transport {
	t.Helper()
	tr, err := fixture.Load("testdata/sandbox.json")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	return tr
}

func window(from, to string) model.TimeWindow {
	parse := func(s string) time.Time {
		ts, _ := time.Parse(time.DateOnly, s)
		return ts
	}
	return model.TimeWindow{Start: parse(from), End: parse(to)}
}

func TestLoad_Errors(t *testing.T) {
	if _, err := fixture.Load("testdata/missing.json"); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestOrders(t *testing.T) {
	tr := loadSandbox(t)
	ctx := context.Background()

	ranges := []struct {
		name     string
		from, to string
		kind     model.OrderTimeRange
		want     int
	}{
		{"modified in february", "2024-02-01", "2024-03-01", model.OrderRangeModTime, 3},
		{"created in february", "2024-02-01", "2024-03-01", model.OrderRangeCreateTime, 2},
		{"modified in january", "2024-01-01", "2024-01-31", model.OrderRangeModTime, 0},
		{"created in january", "2024-01-01", "2024-01-31", model.OrderRangeCreateTime, 1},
	}
	for _, tt := range ranges {
		t.Run(tt.name, func(t *testing.T) {
			byRange, err := tr.FetchOrdersByRange(ctx, window(tt.from, tt.to), tt.kind)
			if err != nil {
				t.Fatalf("FetchOrdersByRange() error = %v", err)
			}
			if len(byRange.Orders) != tt.want {
				t.Errorf("orders in range = %d, want %d", len(byRange.Orders), tt.want)
			}
		})
	}

	byIDs, err := tr.FetchOrdersByIDs(ctx, []string{"110001-9001", "missing"})
	if err != nil {
		t.Fatalf("FetchOrdersByIDs() error = %v", err)
	}
	if len(byIDs.Orders) != 1 || byIDs.Orders[0].OrderID != "110001-9001" {
		t.Errorf("orders by id = %+v", byIDs.Orders)
	}

	bySRN, err := tr.FetchSaleRecord(ctx, "1003")
	if err != nil {
		t.Fatalf("FetchSaleRecord() error = %v", err)
	}
	if len(bySRN.Orders) != 1 || bySRN.Orders[0].OrderID != "110001-9003" {
		t.Errorf("orders by sale record = %+v", bySRN.Orders)
	}
}

func TestListings_Paging(t *testing.T) {
	tr := loadSandbox(t)
	ctx := context.Background()
	w := window("2020-01-01", "2025-01-01")

	tests := []struct {
		page      int
		wantItems int
	}{
		{1, 2},
		{2, 1},
		{3, 0},
	}

	for _, tt := range tests {
		resp, err := tr.FetchListings(ctx, w, model.ListingRangeStartTime, tt.page)
		if err != nil {
			t.Fatalf("page %d: error = %v", tt.page, err)
		}
		if len(resp.Items) != tt.wantItems {
			t.Errorf("page %d: items = %d, want %d", tt.page, len(resp.Items), tt.wantItems)
		}
		if resp.Pagination.TotalPages != 2 || resp.Pagination.TotalEntries != 3 {
			t.Errorf("page %d: pagination = %+v", tt.page, resp.Pagination)
		}
	}
}

func TestListingsCustom_OmitsTitle(t *testing.T) {
	tr := loadSandbox(t)

	resp, err := tr.FetchListingsCustom(context.Background(), window("2024-01-01", "2024-12-31"), model.ListingRangeEndTime, 1)
	if err != nil {
		t.Fatalf("FetchListingsCustom() error = %v", err)
	}
	if len(resp.Items) != 2 {
		t.Fatalf("items = %d, want 2", len(resp.Items))
	}
	for _, item := range resp.Items {
		if item.Title != "" {
			t.Errorf("item %s title = %q, want empty", item.ItemID, item.Title)
		}
	}

	detail, err := tr.FetchItemDetail(context.Background(), "110001")
	if err != nil || detail.Title != "Red mug" {
		t.Errorf("FetchItemDetail() = %+v, %v", detail, err)
	}
}

func TestFetchItemDetail_Unknown(t *testing.T) {
	tr := loadSandbox(t)

	_, err := tr.FetchItemDetail(context.Background(), "999")
	if transport.ClassOf(err) != transport.ErrorClassClient {
		t.Errorf("err = %v, want client transport fault", err)
	}
}

func TestReviseInventory(t *testing.T) {
	tr := loadSandbox(t)
	ctx := context.Background()

	resp, err := tr.ReviseInventory(ctx, []model.InventoryStatusRequest{
		{ItemID: 110002, SKU: "TS-M", Quantity: 3},
		{SKU: "MUG-RED", Quantity: 7},
		{SKU: "NOPE", Quantity: 1},
	})
	if err != nil {
		t.Fatalf("ReviseInventory() error = %v", err)
	}
	if len(resp.Items) != 2 {
		t.Errorf("updated = %d, want 2", len(resp.Items))
	}
	if len(resp.Errors) != 1 || resp.Errors[0].Code != fixture.CodeUnknownInventory {
		t.Errorf("errors = %+v", resp.Errors)
	}

	detail, _ := tr.FetchItemDetail(ctx, "110002")
	if detail.Variations[1].Quantity != 3 {
		t.Errorf("TS-M quantity = %d, want 3", detail.Variations[1].Quantity)
	}
}

func TestCanceledContext(t *testing.T) {
	tr := loadSandbox(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := tr.FetchSaleRecord(ctx, "1001")
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestAuthenticator(t *testing.T) {
	auth := fixture.NewAuthenticator()
	ctx := context.Background()

	if _, err := auth.FetchToken(ctx, "unknown"); err == nil {
		t.Error("expected error for unknown session")
	}

	sessionID, err := auth.GetSessionID(ctx)
	if err != nil {
		t.Fatalf("GetSessionID() error = %v", err)
	}

	uri, _ := auth.GetAuthURI(ctx, sessionID)
	if !strings.HasSuffix(uri, "SessID="+sessionID) {
		t.Errorf("uri = %q", uri)
	}

	if _, err := auth.FetchToken(ctx, sessionID); err == nil {
		t.Error("expected error before authentication")
	}
	if err := auth.AuthenticateUser(ctx, sessionID); err != nil {
		t.Fatalf("AuthenticateUser() error = %v", err)
	}

	token, err := auth.FetchToken(ctx, sessionID)
	if err != nil || token.Token == "" || !token.Expires.After(time.Now()) {
		t.Errorf("FetchToken() = %+v, %v", token, err)
	}
}

func newSandboxService(t *testing.T) *service.Service {
	t.Helper()
	cfg := service.DefaultConfig()
	cfg.Telemetry = telemetry.Nop{}
	cfg.Authenticator = fixture.NewAuthenticator()
	cfg.Now = func() time.Time { return time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC) }

	svc, err := service.New(loadSandbox(t), cfg)
	if err != nil {
		t.Fatalf("service.New() error = %v", err)
	}
	return svc
}

func TestService_Sandbox(t *testing.T) {
	svc := newSandboxService(t)
	ctx := context.Background()

	active, err := svc.FetchActiveListings(ctx)
	if err != nil {
		t.Fatalf("FetchActiveListings() error = %v", err)
	}
	// The mug plus three shirt variations.
	if len(active) != 4 {
		t.Errorf("active listings = %d, want 4", len(active))
	}

	all, err := svc.FetchAllListingDetails(ctx)
	if err != nil {
		t.Fatalf("FetchAllListingDetails() error = %v", err)
	}
	if len(all) != 5 {
		t.Errorf("listing details = %d, want 5", len(all))
	}

	orders, err := svc.FetchOrdersWithItemDetails(ctx, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("FetchOrdersWithItemDetails() error = %v", err)
	}
	if got := orders[0].Transactions[0].Item.SKU; got != "MUG-RED" {
		t.Errorf("resolved sku = %q, want MUG-RED", got)
	}

	token, err := svc.GetUserToken(ctx)
	if err != nil || !strings.HasPrefix(token, "sandbox-") {
		t.Errorf("GetUserToken() = %q, %v", token, err)
	}
}

func TestService_SandboxInventoryError(t *testing.T) {
	svc := newSandboxService(t)

	items, err := svc.UpdateInventory(context.Background(), []model.InventoryStatusRequest{
		{SKU: "TS-L", Quantity: 1},
		{SKU: "NOPE", Quantity: 1},
	})
	if items != nil {
		t.Errorf("items = %+v, want nil", items)
	}

	var aggErr *apierror.AggregatedError
	if !errors.As(err, &aggErr) || !aggErr.HasCode(fixture.CodeUnknownInventory) {
		t.Errorf("err = %v, want aggregated error with code %d", err, fixture.CodeUnknownInventory)
	}
}
