package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Sternrassler/ebay-access-client/pkg/apierror"
	"github.com/Sternrassler/ebay-access-client/pkg/dedupe"
	"github.com/Sternrassler/ebay-access-client/pkg/fanout"
	"github.com/Sternrassler/ebay-access-client/pkg/model"
	"github.com/Sternrassler/ebay-access-client/pkg/telemetry"
	"github.com/Sternrassler/ebay-access-client/pkg/transport"
)

func summarizeOrders(orders []model.Order) (string, int) {
	return telemetry.Orders(orders), len(orders)
}

func summarizeIDs(ids []string) (string, int) {
	return telemetry.IDs(ids), len(ids)
}

// FetchOrdersByRange returns the orders modified within [from, to]. The
// range must fit one query; longer ranges fail with ErrRangeTooLong.
func (s *Service) FetchOrdersByRange(ctx context.Context, from, to time.Time) ([]model.Order, error) {
	return run(ctx, s, OpFetchOrdersByRange, telemetry.Range(from, to), summarizeOrders,
		func(ctx context.Context) ([]model.Order, error) {
			return s.ordersByRange(ctx, from, to)
		})
}

func (s *Service) ordersByRange(ctx context.Context, from, to time.Time) ([]model.Order, error) {
	if to.Before(from) {
		return nil, fmt.Errorf("%w: %s is before %s", ErrInvalidRange, to, from)
	}
	if to.Sub(from) > s.config.MaxTimeRange {
		return nil, fmt.Errorf("%w: %s > %s", ErrRangeTooLong, to.Sub(from), s.config.MaxTimeRange)
	}

	window := model.TimeWindow{Start: from, End: to}
	resp, err := s.transport.FetchOrdersByRange(ctx, window, model.OrderRangeModTime)
	if err != nil {
		return nil, err
	}
	if resp == nil {
		return nil, emptyResponse(transport.CallGetOrders)
	}

	return apierror.Aggregate([]*model.OrdersResponse{resp}, ordersOf)
}

// FetchOrdersByIDs returns the ids among ids that exist remotely, in input
// order.
func (s *Service) FetchOrdersByIDs(ctx context.Context, ids []string) ([]string, error) {
	return run(ctx, s, OpFetchOrdersByIDs, telemetry.IDs(ids), summarizeIDs,
		func(ctx context.Context) ([]string, error) {
			if len(ids) == 0 {
				return []string{}, nil
			}

			resp, err := s.transport.FetchOrdersByIDs(ctx, ids)
			if err != nil {
				return nil, err
			}
			if resp == nil {
				return nil, emptyResponse(transport.CallGetOrders)
			}

			orders, err := apierror.Aggregate([]*model.OrdersResponse{resp}, ordersOf)
			if err != nil {
				return nil, err
			}

			found := dedupe.Keys(dedupe.OrdersByID(orders), dedupe.OrderID)
			return dedupe.ConfirmExisting(ids, found), nil
		})
}

// FetchSaleRecordNumbers returns the sale record numbers among ids that
// exist remotely, in input order. One call is issued per id.
func (s *Service) FetchSaleRecordNumbers(ctx context.Context, ids []string) ([]string, error) {
	return run(ctx, s, OpFetchSaleRecordNumbers, telemetry.IDs(ids), summarizeIDs,
		func(ctx context.Context) ([]string, error) {
			if len(ids) == 0 {
				return []string{}, nil
			}

			responses, err := fanout.Collect(ctx, len(ids), s.config.MaxConcurrency,
				func(ctx context.Context, i int) (*model.OrdersResponse, error) {
					resp, err := s.transport.FetchSaleRecord(ctx, ids[i])
					if err != nil {
						return nil, err
					}
					if resp == nil {
						return nil, emptyResponse(transport.CallGetSellingManagerOrder)
					}
					return resp, nil
				})
			if err != nil {
				return nil, err
			}

			orders, err := apierror.Aggregate(responses, ordersOf)
			if err != nil {
				return nil, err
			}

			found := dedupe.Keys(dedupe.OrdersBySaleRecord(orders), dedupe.SaleRecordNumber)
			return dedupe.ConfirmExisting(ids, found), nil
		})
}

// FetchOrdersWithItemDetails returns the orders modified within [from, to]
// with every transaction's item resolved through an item detail call.
func (s *Service) FetchOrdersWithItemDetails(ctx context.Context, from, to time.Time) ([]model.Order, error) {
	return run(ctx, s, OpFetchOrdersWithItemDetails, telemetry.Range(from, to), summarizeOrders,
		func(ctx context.Context) ([]model.Order, error) {
			orders, err := s.ordersByRange(ctx, from, to)
			if err != nil {
				return nil, err
			}

			var itemIDs []string
			for _, o := range orders {
				for _, tx := range o.Transactions {
					itemIDs = append(itemIDs, tx.Item.ItemID)
				}
			}

			details, err := s.itemDetails(ctx, itemIDs)
			if err != nil {
				return nil, err
			}

			return attachItemDetails(orders, details), nil
		})
}

// attachItemDetails returns copies of orders whose transaction items carry
// the resolved detail. Items without detail are left unchanged.
func attachItemDetails(orders []model.Order, details map[string]model.Item) []model.Order {
	out := make([]model.Order, len(orders))
	for i, o := range orders {
		txs := make([]model.Transaction, len(o.Transactions))
		for j, tx := range o.Transactions {
			if detail, ok := details[tx.Item.ItemID]; ok {
				if tx.Item.SKU == "" {
					tx.Item.SKU = detail.SKU
				}
				if tx.Item.Title == "" {
					tx.Item.Title = detail.Title
				}
				tx.Item.Variations = detail.Variations
				tx.Item.IsComposite = detail.IsComposite
			}
			txs[j] = tx
		}
		o.Transactions = txs
		out[i] = o
	}
	return out
}

func ordersOf(r *model.OrdersResponse) []model.Order {
	return r.Orders
}
