package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/Sternrassler/ebay-access-client/pkg/model"
	"github.com/Sternrassler/ebay-access-client/pkg/transport"
	"golang.org/x/oauth2"
)

// GetUserToken runs the whole sign-in flow: it opens a session, has the
// user authenticate it and fetches the issued token.
func (s *Service) GetUserToken(ctx context.Context) (string, error) {
	return runAuth(ctx, s, OpGetUserToken, "{}", func(ctx context.Context, auth transport.Authenticator) (string, error) {
		sessionID, err := auth.GetSessionID(ctx)
		if err != nil {
			return "", fmt.Errorf("get session id: %w", err)
		}
		if err := auth.AuthenticateUser(ctx, sessionID); err != nil {
			return "", fmt.Errorf("authenticate user: %w", err)
		}
		token, err := issuedToken(ctx, auth, sessionID)
		if err != nil {
			return "", fmt.Errorf("fetch token: %w", err)
		}
		return token.Token, nil
	})
}

// GetUserSessionID opens a sign-in session.
func (s *Service) GetUserSessionID(ctx context.Context) (string, error) {
	return runAuth(ctx, s, OpGetUserSessionID, "{}", func(ctx context.Context, auth transport.Authenticator) (string, error) {
		return auth.GetSessionID(ctx)
	})
}

// GetAuthURI returns the sign-in page for sessionID.
func (s *Service) GetAuthURI(ctx context.Context, sessionID string) (string, error) {
	return runAuth(ctx, s, OpGetAuthURI, sessionID, func(ctx context.Context, auth transport.Authenticator) (string, error) {
		return auth.GetAuthURI(ctx, sessionID)
	})
}

// FetchUserToken fetches the token issued for an authenticated session.
func (s *Service) FetchUserToken(ctx context.Context, sessionID string) (string, error) {
	token, err := s.fetchUserToken(ctx, sessionID)
	return token.Token, err
}

func (s *Service) fetchUserToken(ctx context.Context, sessionID string) (model.UserToken, error) {
	return runAuth(ctx, s, OpFetchUserToken, sessionID, func(ctx context.Context, auth transport.Authenticator) (model.UserToken, error) {
		return issuedToken(ctx, auth, sessionID)
	})
}

// issuedToken fetches the token of sessionID and rejects an empty one.
func issuedToken(ctx context.Context, auth transport.Authenticator, sessionID string) (model.UserToken, error) {
	token, err := auth.FetchToken(ctx, sessionID)
	if err != nil {
		return model.UserToken{}, err
	}
	if token.Token == "" {
		return model.UserToken{}, fmt.Errorf("empty token for session %s", sessionID)
	}
	return token, nil
}

// TokenSource exposes the token of an authenticated session as an
// oauth2.TokenSource. The token is fetched on first use and fetched again
// once it expires.
func (s *Service) TokenSource(ctx context.Context, sessionID string) oauth2.TokenSource {
	return oauth2.ReuseTokenSource(nil, &sessionTokenSource{ctx: ctx, svc: s, sessionID: sessionID})
}

type sessionTokenSource struct {
	mu        sync.Mutex
	ctx       context.Context
	svc       *Service
	sessionID string
}

func (ts *sessionTokenSource) Token() (*oauth2.Token, error) {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	token, err := ts.svc.fetchUserToken(ts.ctx, ts.sessionID)
	if err != nil {
		return nil, err
	}
	return &oauth2.Token{
		AccessToken: token.Token,
		TokenType:   "Bearer",
		Expiry:      token.Expires,
	}, nil
}
