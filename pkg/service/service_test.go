package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Sternrassler/ebay-access-client/internal/testutil"
	"github.com/Sternrassler/ebay-access-client/pkg/apierror"
	"github.com/Sternrassler/ebay-access-client/pkg/model"
	"github.com/Sternrassler/ebay-access-client/pkg/telemetry"
	"github.com/Sternrassler/ebay-access-client/pkg/transport"
)

// recorder captures telemetry events.
type recorder struct {
	mu      sync.Mutex
	started []telemetry.Event
	ended   []telemetry.Event
	failed  []error
}

func (r *recorder) Started(_ context.Context, ev telemetry.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.started = append(r.started, ev)
}

func (r *recorder) Ended(_ context.Context, ev telemetry.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ended = append(r.ended, ev)
}

func (r *recorder) Failed(_ context.Context, _ telemetry.Event, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failed = append(r.failed, err)
}

var testNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestService(t *testing.T, tr transport.Transport, mutate ...func(*Config)) (*Service, *recorder) {
	t.Helper()

	rec := &recorder{}
	cfg := DefaultConfig()
	cfg.Telemetry = rec
	cfg.Now = func() time.Time { return testNow }
	for _, m := range mutate {
		m(&cfg)
	}

	svc, err := New(tr, cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return svc, rec
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNew_Validation(t *testing.T) {
	mock := testutil.NewMockTransport()

	tests := []struct {
		name   string
		tr     transport.Transport
		mutate func(*Config)
	}{
		{"nil transport", nil, func(*Config) {}},
		{"zero max range", mock, func(c *Config) { c.MaxTimeRange = 0 }},
		{"zero concurrency", mock, func(c *Config) { c.MaxConcurrency = 0 }},
		{"negative batch size", mock, func(c *Config) { c.InventoryBatchSize = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			if _, err := New(tt.tr, cfg); err == nil {
				t.Error("New() error = nil, want error")
			}
		})
	}
}

func TestFetchOrdersByIDs_ConfirmsExisting(t *testing.T) {
	mock := testutil.NewMockTransport()
	mock.OrdersByIDs = func(ctx context.Context, ids []string) (*model.OrdersResponse, error) {
		return &model.OrdersResponse{Orders: []model.Order{
			{OrderID: "C"},
			{OrderID: "A"},
			{OrderID: "A", Status: "duplicate"},
		}}, nil
	}
	svc, rec := newTestService(t, mock)

	got, err := svc.FetchOrdersByIDs(context.Background(), []string{"A", "B", "C"})
	if err != nil {
		t.Fatalf("FetchOrdersByIDs() error = %v", err)
	}

	want := []string{"A", "C"}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("FetchOrdersByIDs() = %v, want %v", got, want)
	}
	if mock.TotalCalls() != 1 {
		t.Errorf("calls = %d, want 1", mock.TotalCalls())
	}

	if len(rec.started) != 1 || len(rec.ended) != 1 {
		t.Fatalf("events started=%d ended=%d, want 1 each", len(rec.started), len(rec.ended))
	}
	if rec.started[0].Mark == "" || rec.started[0].Mark != rec.ended[0].Mark {
		t.Errorf("marks %q / %q, want equal and non-empty", rec.started[0].Mark, rec.ended[0].Mark)
	}
	if rec.ended[0].Result != "{Count:2, IDs:[A,C]}" {
		t.Errorf("result summary = %q", rec.ended[0].Result)
	}
}

func TestFetchOrdersByIDs_Empty(t *testing.T) {
	mock := testutil.NewMockTransport()
	svc, _ := newTestService(t, mock)

	got, err := svc.FetchOrdersByIDs(context.Background(), nil)
	if err != nil {
		t.Fatalf("FetchOrdersByIDs() error = %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("FetchOrdersByIDs() = %v, want empty slice", got)
	}
	if mock.TotalCalls() != 0 {
		t.Errorf("calls = %d, want 0", mock.TotalCalls())
	}
}

func TestUpdateInventory_APIErrorFailsWhole(t *testing.T) {
	mock := testutil.NewMockTransport()
	mock.Revise = func(ctx context.Context, reqs []model.InventoryStatusRequest) (*model.ReviseInventoryResponse, error) {
		apiErr := model.APIError{
			Code:         21919196,
			ShortMessage: "Duplicate SKU",
			LongMessage:  "The SKU is used by more than one listing.",
		}
		return &model.ReviseInventoryResponse{
			Items:  []model.InventoryStatusResponse{{ItemID: 1, SKU: "X", Quantity: 5}},
			Errors: []model.APIError{apiErr},
		}, nil
	}
	svc, rec := newTestService(t, mock)

	got, err := svc.UpdateInventory(context.Background(), []model.InventoryStatusRequest{{ItemID: 1, SKU: "X", Quantity: 5}})
	if got != nil {
		t.Errorf("UpdateInventory() = %v, want nil", got)
	}
	if !errors.Is(err, apierror.ErrAPI) {
		t.Fatalf("err = %v, want ErrAPI", err)
	}

	var aggErr *apierror.AggregatedError
	if !errors.As(err, &aggErr) {
		t.Fatalf("err = %T, want *apierror.AggregatedError inside", err)
	}
	if len(aggErr.Errors) != 1 || !aggErr.HasCode(21919196) {
		t.Errorf("aggregated errors = %+v, want one with code 21919196", aggErr.Errors)
	}

	var opErr *OperationError
	if !errors.As(err, &opErr) {
		t.Fatalf("err = %T, want *OperationError", err)
	}
	if opErr.Operation != OpUpdateInventory || opErr.Mark == "" {
		t.Errorf("OperationError = %+v", opErr)
	}
	if opErr.Input != "{Count:1, Items:[{id:1,sku:X,qty:5}]}" {
		t.Errorf("Input = %q", opErr.Input)
	}
	if len(rec.failed) != 1 {
		t.Errorf("failed events = %d, want 1", len(rec.failed))
	}
}

func TestUpdateInventory_Chunked(t *testing.T) {
	mock := testutil.NewMockTransport()
	mock.Revise = func(ctx context.Context, reqs []model.InventoryStatusRequest) (*model.ReviseInventoryResponse, error) {
		resp := &model.ReviseInventoryResponse{}
		for _, r := range reqs {
			resp.Items = append(resp.Items, model.InventoryStatusResponse{ItemID: r.ItemID, SKU: r.SKU, Quantity: r.Quantity})
		}
		return resp, nil
	}
	svc, _ := newTestService(t, mock, func(c *Config) { c.InventoryBatchSize = 2 })

	var reqs []model.InventoryStatusRequest
	for i := int64(1); i <= 5; i++ {
		reqs = append(reqs, model.InventoryStatusRequest{ItemID: i, Quantity: int(i)})
	}

	got, err := svc.UpdateInventory(context.Background(), reqs)
	if err != nil {
		t.Fatalf("UpdateInventory() error = %v", err)
	}
	if mock.CallCount(transport.CallReviseInventoryStatus) != 3 {
		t.Errorf("calls = %d, want 3", mock.CallCount(transport.CallReviseInventoryStatus))
	}
	if len(got) != 5 {
		t.Fatalf("items = %d, want 5", len(got))
	}
	for i, it := range got {
		if it.ItemID != int64(i+1) {
			t.Errorf("got[%d].ItemID = %d, want %d", i, it.ItemID, i+1)
		}
	}
}

func TestChunk(t *testing.T) {
	tests := []struct {
		name  string
		n     int
		size  int
		sizes []int
	}{
		{"no batching", 5, 0, []int{5}},
		{"exact", 4, 2, []int{2, 2}},
		{"remainder", 5, 2, []int{2, 2, 1}},
		{"larger than input", 3, 10, []int{3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := chunk(make([]int, tt.n), tt.size)
			if len(got) != len(tt.sizes) {
				t.Fatalf("chunks = %d, want %d", len(got), len(tt.sizes))
			}
			for i, c := range got {
				if len(c) != tt.sizes[i] {
					t.Errorf("chunk %d size = %d, want %d", i, len(c), tt.sizes[i])
				}
			}
		})
	}
}

func TestFetchSaleRecordNumbers(t *testing.T) {
	mock := testutil.NewMockTransport()
	mock.Delay = 5 * time.Millisecond
	mock.SaleRecord = func(ctx context.Context, srn string) (*model.OrdersResponse, error) {
		if srn == "404" {
			return &model.OrdersResponse{}, nil
		}
		return &model.OrdersResponse{Orders: []model.Order{{OrderID: "o-" + srn, SaleRecordNumber: srn}}}, nil
	}
	svc, _ := newTestService(t, mock, func(c *Config) { c.MaxConcurrency = 2 })

	ids := []string{"100", "404", "101", "102", "100"}
	got, err := svc.FetchSaleRecordNumbers(context.Background(), ids)
	if err != nil {
		t.Fatalf("FetchSaleRecordNumbers() error = %v", err)
	}

	want := []string{"100", "101", "102", "100"}
	if len(got) != len(want) {
		t.Fatalf("FetchSaleRecordNumbers() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("got[%d] = %q, want %q", i, got[i], want[i])
		}
	}
	if calls := mock.CallCount(transport.CallGetSellingManagerOrder); calls != len(ids) {
		t.Errorf("calls = %d, want %d", calls, len(ids))
	}
	if peak := mock.PeakConcurrency(); peak > 2 {
		t.Errorf("peak concurrency = %d, want <= 2", peak)
	}
}

func TestFetchSaleRecordNumbers_OneErrorFailsBatch(t *testing.T) {
	mock := testutil.NewMockTransport()
	mock.SaleRecord = func(ctx context.Context, srn string) (*model.OrdersResponse, error) {
		if srn == "bad" {
			return &model.OrdersResponse{Errors: []model.APIError{{Code: 17, ShortMessage: "Invalid record"}}}, nil
		}
		return &model.OrdersResponse{Orders: []model.Order{{SaleRecordNumber: srn}}}, nil
	}
	svc, _ := newTestService(t, mock)

	got, err := svc.FetchSaleRecordNumbers(context.Background(), []string{"1", "bad", "2", "3"})
	if got != nil {
		t.Errorf("result = %v, want nil", got)
	}

	var aggErr *apierror.AggregatedError
	if !errors.As(err, &aggErr) {
		t.Fatalf("err = %v, want aggregated api error", err)
	}
	if len(aggErr.Errors) != 1 || aggErr.Errors[0].Code != 17 || aggErr.Errors[0].ShortMessage != "Invalid record" {
		t.Errorf("errors = %+v, want exactly code 17", aggErr.Errors)
	}
	// Wait-all: every sub-call ran even though one failed.
	if calls := mock.TotalCalls(); calls != 4 {
		t.Errorf("calls = %d, want 4", calls)
	}
}

func TestFetchOrdersByRange(t *testing.T) {
	var gotWindow model.TimeWindow
	mock := testutil.NewMockTransport()
	mock.OrdersByRange = func(ctx context.Context, w model.TimeWindow, kind model.OrderTimeRange) (*model.OrdersResponse, error) {
		gotWindow = w
		return &model.OrdersResponse{Orders: []model.Order{{OrderID: "A"}, {OrderID: "B"}}}, nil
	}
	svc, _ := newTestService(t, mock)

	from, to := date(2024, 1, 1), date(2024, 2, 1)
	orders, err := svc.FetchOrdersByRange(context.Background(), from, to)
	if err != nil {
		t.Fatalf("FetchOrdersByRange() error = %v", err)
	}
	if len(orders) != 2 {
		t.Errorf("orders = %d, want 2", len(orders))
	}
	if !gotWindow.Start.Equal(from) || !gotWindow.End.Equal(to) {
		t.Errorf("window = %v, want [%v, %v]", gotWindow, from, to)
	}
}

func TestFetchOrdersByRange_InvalidRanges(t *testing.T) {
	mock := testutil.NewMockTransport()
	svc, _ := newTestService(t, mock)
	ctx := context.Background()

	if _, err := svc.FetchOrdersByRange(ctx, date(2024, 2, 1), date(2024, 1, 1)); !errors.Is(err, ErrInvalidRange) {
		t.Errorf("reversed range err = %v, want ErrInvalidRange", err)
	}
	if _, err := svc.FetchOrdersByRange(ctx, date(2020, 1, 1), date(2021, 1, 1)); !errors.Is(err, ErrRangeTooLong) {
		t.Errorf("long range err = %v, want ErrRangeTooLong", err)
	}
	if mock.TotalCalls() != 0 {
		t.Errorf("calls = %d, want 0", mock.TotalCalls())
	}
}

func TestTransportFaultsAreWrapped(t *testing.T) {
	fault := transport.NewError(transport.CallGetOrders, transport.ErrorClassServer, errors.New("503"))
	mock := testutil.NewMockTransport()
	mock.OrdersByIDs = func(ctx context.Context, ids []string) (*model.OrdersResponse, error) {
		return nil, fault
	}
	svc, _ := newTestService(t, mock)

	_, err := svc.FetchOrdersByIDs(context.Background(), []string{"A"})

	var tErr *transport.Error
	if !errors.As(err, &tErr) || tErr != fault {
		t.Fatalf("err = %v, want wrapped transport fault", err)
	}
	var opErr *OperationError
	if !errors.As(err, &opErr) || opErr.Operation != OpFetchOrdersByIDs {
		t.Errorf("err = %v, want OperationError for %s", err, OpFetchOrdersByIDs)
	}
	if errors.Is(err, apierror.ErrAPI) {
		t.Error("transport fault must not match ErrAPI")
	}
}

func TestEmptyTransportResponse(t *testing.T) {
	mock := testutil.NewMockTransport()
	mock.Revise = func(ctx context.Context, reqs []model.InventoryStatusRequest) (*model.ReviseInventoryResponse, error) {
		return nil, nil
	}
	svc, _ := newTestService(t, mock)

	_, err := svc.UpdateInventory(context.Background(), []model.InventoryStatusRequest{{SKU: "X", Quantity: 1}})
	if !errors.Is(err, transport.ErrEmptyResponse) {
		t.Errorf("err = %v, want ErrEmptyResponse", err)
	}
}

func TestCancellationPropagates(t *testing.T) {
	mock := testutil.NewMockTransport()
	mock.Delay = time.Minute
	svc, _ := newTestService(t, mock, func(c *Config) { c.MaxConcurrency = 3 })

	ctx, cancel := context.WithCancel(context.Background())
	f := svc.FetchSaleRecordNumbersAsync(ctx, []string{"1", "2", "3", "4", "5", "6"})

	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case <-f.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("operation did not stop after cancellation")
	}

	_, err := f.Await(context.Background())
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestOperationTimeout(t *testing.T) {
	mock := testutil.NewMockTransport()
	mock.Delay = time.Minute
	svc, _ := newTestService(t, mock, func(c *Config) { c.OperationTimeout = 20 * time.Millisecond })

	_, err := svc.FetchOrdersByIDs(context.Background(), []string{"A"})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("err = %v, want context.DeadlineExceeded", err)
	}
}

func TestFuture_AwaitContext(t *testing.T) {
	release := make(chan struct{})
	f := async(func() (int, error) {
		<-release
		return 42, nil
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if _, err := f.Await(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Await() err = %v, want DeadlineExceeded", err)
	}

	close(release)
	v, err := f.Await(context.Background())
	if err != nil || v != 42 {
		t.Errorf("Await() = %d, %v, want 42, nil", v, err)
	}
}
