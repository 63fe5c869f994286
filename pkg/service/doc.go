// Package service coordinates marketplace calls into complete answers.
//
// A Service turns one caller request ("all listings ending between two
// dates", "which of these order ids exist", "set these quantities") into
// the minimal set of calls the marketplace accepts: ranges are split into
// windows no longer than Config.MaxTimeRange, paged queries are walked to
// the last page, composite listings are expanded into one item per
// variation and merged results are deduplicated by identity.
//
// Every public operation is wrapped the same way: it gets a correlation
// mark, a trace span and started/ended events on the Telemetry
// collaborator. Any failure is returned as an *OperationError carrying the
// operation name, an input summary and the mark.
//
// Embedded API errors are all or nothing per operation. If any call of an
// operation returns one, the operation fails with an
// *apierror.AggregatedError listing every embedded error and no partial
// result. The service never retries; wrap the Transport with
// transport.WithRetry for that.
//
// # Basic Usage
//
//	svc, err := service.New(myTransport, service.DefaultConfig())
//	if err != nil {
//		return err
//	}
//
//	existing, err := svc.FetchOrdersByIDs(ctx, []string{"A", "B", "C"})
//	if errors.Is(err, apierror.ErrAPI) {
//		// the marketplace rejected the query
//	}
//
// Each operation has an Async variant returning a *Future:
//
//	f := svc.FetchActiveListingsAsync(ctx)
//	items, err := f.Await(ctx)
package service
