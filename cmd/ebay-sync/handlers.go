package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Sternrassler/ebay-access-client/pkg/apierror"
	"github.com/Sternrassler/ebay-access-client/pkg/metrics"
	"github.com/Sternrassler/ebay-access-client/pkg/model"
	"github.com/Sternrassler/ebay-access-client/pkg/service"
	"github.com/Sternrassler/ebay-access-client/pkg/transport"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

type api struct {
	svc    *service.Service
	redis  *redis.Client
	logger zerolog.Logger
}

func newRouter(svc *service.Service, redisClient *redis.Client, logger zerolog.Logger) http.Handler {
	a := &api{svc: svc, redis: redisClient, logger: logger}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", healthHandler)
	mux.HandleFunc("GET /ready", a.ready)
	mux.Handle("GET /metrics", metrics.Handler())

	mux.HandleFunc("GET /orders", rangeHandler(a, a.svc.FetchOrdersByRange))
	mux.HandleFunc("GET /orders/details", rangeHandler(a, a.svc.FetchOrdersWithItemDetails))
	mux.HandleFunc("POST /orders/lookup", a.idsHandler(a.svc.FetchOrdersByIDs))
	mux.HandleFunc("POST /orders/sale-records", a.idsHandler(a.svc.FetchSaleRecordNumbers))

	mux.HandleFunc("GET /listings", rangeHandler(a, a.svc.FetchListingsByDateRange))
	mux.HandleFunc("GET /listings/active", a.listHandler(a.svc.FetchActiveListings))
	mux.HandleFunc("GET /listings/details", rangeHandler(a, a.svc.FetchListingDetailsByDateRange))
	mux.HandleFunc("GET /listings/details/all", a.listHandler(a.svc.FetchAllListingDetails))

	mux.HandleFunc("POST /inventory", a.updateInventory)

	mux.HandleFunc("GET /auth/session", a.authSession)
	mux.HandleFunc("GET /auth/uri", a.sessionHandler(a.svc.GetAuthURI))
	mux.HandleFunc("GET /auth/token", a.sessionHandler(a.svc.FetchUserToken))

	return mux
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, "OK")
}

func (a *api) ready(w http.ResponseWriter, r *http.Request) {
	if a.redis != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := a.redis.Ping(ctx).Err(); err != nil {
			http.Error(w, "redis unavailable", http.StatusServiceUnavailable)
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, "READY")
}

func rangeHandler[T any](a *api, fn func(ctx context.Context, from, to time.Time) (T, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		from, to, err := parseRange(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		out, err := fn(r.Context(), from, to)
		a.respond(w, out, err)
	}
}

func (a *api) idsHandler(fn func(ctx context.Context, ids []string) ([]string, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var ids []string
		if err := json.NewDecoder(r.Body).Decode(&ids); err != nil {
			http.Error(w, fmt.Sprintf("invalid body: %v", err), http.StatusBadRequest)
			return
		}
		out, err := fn(r.Context(), ids)
		a.respond(w, out, err)
	}
}

func (a *api) listHandler(fn func(ctx context.Context) ([]model.Item, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		out, err := fn(r.Context())
		a.respond(w, out, err)
	}
}

func (a *api) sessionHandler(fn func(ctx context.Context, sessionID string) (string, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := r.URL.Query().Get("session")
		if sessionID == "" {
			http.Error(w, "session is required", http.StatusBadRequest)
			return
		}
		out, err := fn(r.Context(), sessionID)
		a.respond(w, map[string]string{"value": out}, err)
	}
}

func (a *api) authSession(w http.ResponseWriter, r *http.Request) {
	sessionID, err := a.svc.GetUserSessionID(r.Context())
	if err != nil {
		a.respond(w, nil, err)
		return
	}
	uri, err := a.svc.GetAuthURI(r.Context(), sessionID)
	a.respond(w, map[string]string{"session_id": sessionID, "auth_uri": uri}, err)
}

func (a *api) updateInventory(w http.ResponseWriter, r *http.Request) {
	var requests []model.InventoryStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&requests); err != nil {
		http.Error(w, fmt.Sprintf("invalid body: %v", err), http.StatusBadRequest)
		return
	}
	out, err := a.svc.UpdateInventory(r.Context(), requests)
	a.respond(w, out, err)
}

type errorBody struct {
	Error string `json:"error"`
	Codes []int  `json:"codes,omitempty"`
}

func (a *api) respond(w http.ResponseWriter, body any, err error) {
	if err != nil {
		status := statusFor(err)
		resp := errorBody{Error: err.Error()}

		var aggErr *apierror.AggregatedError
		if errors.As(err, &aggErr) {
			resp.Codes = aggErr.Codes()
		}

		a.logger.Warn().Err(err).Int("status", status).Msg("Request failed")
		writeJSON(w, status, resp)
		return
	}
	writeJSON(w, http.StatusOK, body)
}

// statusFor maps an operation failure to an HTTP status.
func statusFor(err error) int {
	var tErr *transport.Error
	switch {
	case errors.Is(err, service.ErrInvalidRange), errors.Is(err, service.ErrRangeTooLong):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrNoAuthenticator):
		return http.StatusNotImplemented
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.As(err, &tErr) && tErr.Class == transport.ErrorClassQuota:
		return http.StatusTooManyRequests
	default:
		return http.StatusBadGateway
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// parseRange reads the from and to query parameters as RFC 3339
// timestamps or plain dates.
func parseRange(r *http.Request) (time.Time, time.Time, error) {
	q := r.URL.Query()
	from, err := parseTime(q.Get("from"))
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("from: %w", err)
	}
	to, err := parseTime(q.Get("to"))
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("to: %w", err)
	}
	return from, to, nil
}

func parseTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, errors.New("missing value")
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse(time.DateOnly, s)
}
