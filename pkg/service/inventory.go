package service

import (
	"context"

	"github.com/Sternrassler/ebay-access-client/pkg/apierror"
	"github.com/Sternrassler/ebay-access-client/pkg/fanout"
	"github.com/Sternrassler/ebay-access-client/pkg/model"
	"github.com/Sternrassler/ebay-access-client/pkg/telemetry"
	"github.com/Sternrassler/ebay-access-client/pkg/transport"
)

func summarizeInventory(items []model.InventoryStatusResponse) (string, int) {
	return telemetry.InventoryResponses(items), len(items)
}

// UpdateInventory sets the quantities of the requested items and returns
// the updated items as echoed by the marketplace. With
// Config.InventoryBatchSize set, requests are sent in concurrent chunks;
// an embedded error in any chunk fails the whole update.
func (s *Service) UpdateInventory(ctx context.Context, requests []model.InventoryStatusRequest) ([]model.InventoryStatusResponse, error) {
	return run(ctx, s, OpUpdateInventory, telemetry.InventoryRequests(requests), summarizeInventory,
		func(ctx context.Context) ([]model.InventoryStatusResponse, error) {
			if len(requests) == 0 {
				return []model.InventoryStatusResponse{}, nil
			}

			chunks := chunk(requests, s.config.InventoryBatchSize)
			responses, err := fanout.Collect(ctx, len(chunks), s.config.MaxConcurrency,
				func(ctx context.Context, i int) (*model.ReviseInventoryResponse, error) {
					resp, err := s.transport.ReviseInventory(ctx, chunks[i])
					if err != nil {
						return nil, err
					}
					if resp == nil {
						return nil, emptyResponse(transport.CallReviseInventoryStatus)
					}
					return resp, nil
				})
			if err != nil {
				return nil, err
			}

			return apierror.Aggregate(responses, func(r *model.ReviseInventoryResponse) []model.InventoryStatusResponse {
				return r.Items
			})
		})
}

// chunk splits items into slices of at most size elements. A non-positive
// size yields a single chunk.
func chunk[T any](items []T, size int) [][]T {
	if size <= 0 || size >= len(items) {
		return [][]T{items}
	}
	out := make([][]T, 0, (len(items)+size-1)/size)
	for start := 0; start < len(items); start += size {
		out = append(out, items[start:min(start+size, len(items))])
	}
	return out
}
