package xblauth

import (
	"context"
	"fmt"
	"sync"

	"github.com/openxbl-go/xboxlive-auth/live"
)

// TokenStore owns refresh-token persistence across refresh calls. The store
// is supplied by the caller and threaded through each refresh explicitly, so
// concurrent refreshes for different accounts each use their own store and
// cannot cross-contaminate.
type TokenStore interface {
	// RefreshToken returns the stored token and whether one is present.
	RefreshToken() (string, bool)
	// SetRefreshToken replaces the stored token.
	SetRefreshToken(token string)
}

// MemoryTokenStore is a concurrency-safe in-memory TokenStore.
type MemoryTokenStore struct {
	mu    sync.Mutex
	token string
}

// NewMemoryTokenStore creates a store seeded with an initial refresh token.
func NewMemoryTokenStore(token string) *MemoryTokenStore {
	return &MemoryTokenStore{token: token}
}

// RefreshToken returns the stored token and whether one is present.
func (s *MemoryTokenStore) RefreshToken() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token, s.token != ""
}

// SetRefreshToken replaces the stored token.
func (s *MemoryTokenStore) SetRefreshToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
}

// RefreshWithStore refreshes the access token using the store's refresh
// token. When the service issues a replacement refresh token it is written
// back to the store; otherwise the last-known token stays in place for the
// next call.
func (a *Authenticator) RefreshWithStore(ctx context.Context, store TokenStore, clientID, scope, clientSecret string) (*live.AuthResponse, error) {
	if store == nil {
		return nil, fmt.Errorf("xblauth: a token store is required")
	}
	refreshToken, ok := store.RefreshToken()
	if !ok {
		return nil, fmt.Errorf("xblauth: the token store holds no refresh token")
	}

	authResponse, err := a.Live.RefreshAccessToken(ctx, refreshToken, clientID, scope, clientSecret)
	if err != nil {
		return nil, err
	}
	if authResponse.RefreshToken != "" {
		store.SetRefreshToken(authResponse.RefreshToken)
	}
	return authResponse, nil
}
