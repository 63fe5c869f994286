package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/Sternrassler/ebay-access-client/internal/testutil"
	"github.com/Sternrassler/ebay-access-client/pkg/model"
	"github.com/Sternrassler/ebay-access-client/pkg/transport"
)

func withAuth(auth transport.Authenticator) func(*Config) {
	return func(c *Config) { c.Authenticator = auth }
}

func TestAuth_NoAuthenticator(t *testing.T) {
	svc, _ := newTestService(t, testutil.NewMockTransport())
	ctx := context.Background()

	tests := []struct {
		name string
		call func() (string, error)
	}{
		{OpGetUserToken, func() (string, error) { return svc.GetUserToken(ctx) }},
		{OpGetUserSessionID, func() (string, error) { return svc.GetUserSessionID(ctx) }},
		{OpGetAuthURI, func() (string, error) { return svc.GetAuthURI(ctx, "sess") }},
		{OpFetchUserToken, func() (string, error) { return svc.FetchUserToken(ctx, "sess") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.call()

			var authErr *AuthError
			if !errors.As(err, &authErr) {
				t.Fatalf("err = %v, want *AuthError", err)
			}
			if authErr.Operation != tt.name {
				t.Errorf("operation = %q, want %q", authErr.Operation, tt.name)
			}
			if !errors.Is(err, ErrNoAuthenticator) {
				t.Errorf("err = %v, want ErrNoAuthenticator", err)
			}
		})
	}
}

func TestGetUserToken(t *testing.T) {
	auth := &testutil.MockAuthenticator{
		SessionID: "sess-1",
		Token:     model.UserToken{Token: "tok-1", Expires: testNow.Add(time.Hour)},
	}
	svc, _ := newTestService(t, testutil.NewMockTransport(), withAuth(auth))
	ctx := context.Background()

	token, err := svc.GetUserToken(ctx)
	if err != nil {
		t.Fatalf("GetUserToken() error = %v", err)
	}
	if token != "tok-1" {
		t.Errorf("token = %q, want tok-1", token)
	}

	sessionID, err := svc.GetUserSessionID(ctx)
	if err != nil || sessionID != "sess-1" {
		t.Errorf("GetUserSessionID() = %q, %v", sessionID, err)
	}

	uri, err := svc.GetAuthURI(ctx, sessionID)
	if err != nil || !strings.Contains(uri, "sess-1") {
		t.Errorf("GetAuthURI() = %q, %v", uri, err)
	}
}

func TestAuth_FailuresAreWrapped(t *testing.T) {
	cause := errors.New("session expired")
	auth := &testutil.MockAuthenticator{Err: cause}
	svc, _ := newTestService(t, testutil.NewMockTransport(), withAuth(auth))

	_, err := svc.GetUserToken(context.Background())

	var authErr *AuthError
	if !errors.As(err, &authErr) {
		t.Fatalf("err = %v, want *AuthError", err)
	}
	if !errors.Is(err, cause) {
		t.Errorf("err = %v, want cause preserved", err)
	}
}

func TestAuth_EmptyTokenRejected(t *testing.T) {
	tests := []struct {
		name string
		call func(*Service) (string, error)
	}{
		{"GetUserToken", func(s *Service) (string, error) { return s.GetUserToken(context.Background()) }},
		{"FetchUserToken", func(s *Service) (string, error) { return s.FetchUserToken(context.Background(), "sess") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			auth := &testutil.MockAuthenticator{SessionID: "sess"}
			svc, _ := newTestService(t, testutil.NewMockTransport(), withAuth(auth))

			token, err := tt.call(svc)
			if err == nil {
				t.Fatalf("token = %q, want error for empty token", token)
			}
			var authErr *AuthError
			if !errors.As(err, &authErr) {
				t.Errorf("err = %v, want *AuthError", err)
			}
			if !strings.Contains(err.Error(), "empty token") {
				t.Errorf("err = %v, want empty token cause", err)
			}
		})
	}
}

func TestTokenSource(t *testing.T) {
	expires := time.Now().Add(time.Hour)
	auth := &testutil.MockAuthenticator{Token: model.UserToken{Token: "tok", Expires: expires}}
	svc, _ := newTestService(t, testutil.NewMockTransport(), withAuth(auth))

	ts := svc.TokenSource(context.Background(), "sess")
	for i := 0; i < 3; i++ {
		token, err := ts.Token()
		if err != nil {
			t.Fatalf("Token() error = %v", err)
		}
		if token.AccessToken != "tok" || !token.Valid() {
			t.Errorf("token = %+v, want valid tok", token)
		}
		if !token.Expiry.Equal(expires) {
			t.Errorf("expiry = %v, want %v", token.Expiry, expires)
		}
	}
}

func TestTokenSource_Error(t *testing.T) {
	auth := &testutil.MockAuthenticator{Err: errors.New("denied")}
	svc, _ := newTestService(t, testutil.NewMockTransport(), withAuth(auth))

	if _, err := svc.TokenSource(context.Background(), "sess").Token(); err == nil {
		t.Fatal("expected error")
	}
}
