package telemetry

import (
	"testing"
	"time"

	"github.com/Sternrassler/ebay-access-client/pkg/model"
)

func TestItems(t *testing.T) {
	tests := []struct {
		name  string
		items []model.Item
		want  string
	}{
		{
			name: "empty",
			want: "{Count:0, Items:[]}",
		},
		{
			name: "missing sku",
			items: []model.Item{
				{ItemID: "1", SKU: "A", Quantity: 2},
				{ItemID: "2", Quantity: 0},
			},
			want: "{Count:2, Items:[{id:1,sku:A,qty:2},{id:2,sku:N/A,qty:0}]}",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Items(tt.items); got != tt.want {
				t.Errorf("Items() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestInventorySummaries(t *testing.T) {
	reqs := []model.InventoryStatusRequest{{ItemID: 1, SKU: "X", Quantity: 5}, {SKU: "Y", Quantity: 1}}
	if got, want := InventoryRequests(reqs), "{Count:2, Items:[{id:1,sku:X,qty:5},{id:N/A,sku:Y,qty:1}]}"; got != want {
		t.Errorf("InventoryRequests() = %q, want %q", got, want)
	}

	resp := []model.InventoryStatusResponse{{ItemID: 9, Quantity: 3}}
	if got, want := InventoryResponses(resp), "{Count:1, Items:[{id:9,sku:N/A,qty:3}]}"; got != want {
		t.Errorf("InventoryResponses() = %q, want %q", got, want)
	}
}

func TestOrdersAndIDs(t *testing.T) {
	orders := []model.Order{{OrderID: "A", SaleRecordNumber: "100"}, {OrderID: "B"}}
	if got, want := Orders(orders), "{Count:2, Orders:[{id:A,record:100},{id:B,record:N/A}]}"; got != want {
		t.Errorf("Orders() = %q, want %q", got, want)
	}
	if got, want := IDs([]string{"A", "C"}), "{Count:2, IDs:[A,C]}"; got != want {
		t.Errorf("IDs() = %q, want %q", got, want)
	}
}

func TestRange(t *testing.T) {
	from := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2020, 6, 1, 0, 0, 0, 0, time.UTC)
	if got, want := Range(from, to), "{From:2020-01-01T00:00:00Z, To:2020-06-01T00:00:00Z}"; got != want {
		t.Errorf("Range() = %q, want %q", got, want)
	}
}
