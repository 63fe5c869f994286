package telemetry

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Sternrassler/ebay-access-client/pkg/model"
)

// NotAvailable stands in for absent values in summaries.
const NotAvailable = "N/A"

// line is one {id, sku, qty} summary entry.
type line struct {
	id, sku, qty string
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return NotAvailable
	}
	return s
}

func render(lines []line) string {
	parts := make([]string, 0, len(lines))
	for _, l := range lines {
		parts = append(parts, fmt.Sprintf("{id:%s,sku:%s,qty:%s}", l.id, l.sku, l.qty))
	}
	return fmt.Sprintf("{Count:%d, Items:[%s]}", len(lines), strings.Join(parts, ","))
}

// Items summarizes listings.
func Items(items []model.Item) string {
	lines := make([]line, 0, len(items))
	for _, it := range items {
		lines = append(lines, line{orNA(it.ItemID), orNA(it.SKU), strconv.Itoa(it.Quantity)})
	}
	return render(lines)
}

// InventoryRequests summarizes inventory update requests. A zero item id
// is rendered as absent.
func InventoryRequests(reqs []model.InventoryStatusRequest) string {
	lines := make([]line, 0, len(reqs))
	for _, r := range reqs {
		id := NotAvailable
		if r.ItemID != 0 {
			id = strconv.FormatInt(r.ItemID, 10)
		}
		lines = append(lines, line{id, orNA(r.SKU), strconv.Itoa(r.Quantity)})
	}
	return render(lines)
}

// InventoryResponses summarizes echoed inventory updates.
func InventoryResponses(items []model.InventoryStatusResponse) string {
	lines := make([]line, 0, len(items))
	for _, r := range items {
		id := NotAvailable
		if r.ItemID != 0 {
			id = strconv.FormatInt(r.ItemID, 10)
		}
		lines = append(lines, line{id, orNA(r.SKU), strconv.Itoa(r.Quantity)})
	}
	return render(lines)
}

// Orders summarizes orders by id and sale record number.
func Orders(orders []model.Order) string {
	parts := make([]string, 0, len(orders))
	for _, o := range orders {
		parts = append(parts, fmt.Sprintf("{id:%s,record:%s}", orNA(o.OrderID), orNA(o.SaleRecordNumber)))
	}
	return fmt.Sprintf("{Count:%d, Orders:[%s]}", len(orders), strings.Join(parts, ","))
}

// IDs summarizes an identifier list.
func IDs(ids []string) string {
	return fmt.Sprintf("{Count:%d, IDs:[%s]}", len(ids), strings.Join(ids, ","))
}

// Range summarizes a time range.
func Range(from, to time.Time) string {
	return fmt.Sprintf("{From:%s, To:%s}", from.UTC().Format(time.RFC3339), to.UTC().Format(time.RFC3339))
}
