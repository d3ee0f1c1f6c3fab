package xblauth

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newRefreshAuthenticator(t *testing.T, handler http.HandlerFunc) *Authenticator {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	authenticator := New(nil)
	authenticator.Live.HTTPClient = server.Client()
	authenticator.Live.TokenURL = server.URL + "/oauth20_token.srf"
	return authenticator
}

func TestRefreshWithStore(t *testing.T) {
	t.Parallel()

	authenticator := newRefreshAuthenticator(t, func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Errorf("failed to parse grant form: %v", err)
		}
		if got := r.PostForm.Get("refresh_token"); got != "initial-token" {
			t.Errorf("refresh_token = %q, want %q", got, "initial-token")
		}
		fmt.Fprint(w, `{"token_type":"bearer","expires_in":86400,"access_token":"fresh-access-token","refresh_token":"rotated-token"}`)
	})

	store := NewMemoryTokenStore("initial-token")
	authResponse, err := authenticator.RefreshWithStore(context.Background(), store, "", "", "")
	if err != nil {
		t.Fatalf("RefreshWithStore() error = %v", err)
	}
	if authResponse.AccessToken != "fresh-access-token" {
		t.Errorf("AccessToken = %q, want %q", authResponse.AccessToken, "fresh-access-token")
	}
	if stored, _ := store.RefreshToken(); stored != "rotated-token" {
		t.Errorf("stored token = %q, want the rotated token written back", stored)
	}
}

func TestRefreshWithStoreKeepsTokenWhenNoneIssued(t *testing.T) {
	t.Parallel()

	authenticator := newRefreshAuthenticator(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"token_type":"bearer","expires_in":86400,"access_token":"fresh-access-token"}`)
	})

	store := NewMemoryTokenStore("initial-token")
	if _, err := authenticator.RefreshWithStore(context.Background(), store, "", "", ""); err != nil {
		t.Fatalf("RefreshWithStore() error = %v", err)
	}
	if stored, _ := store.RefreshToken(); stored != "initial-token" {
		t.Errorf("stored token = %q, want the last-known token kept", stored)
	}
}

func TestRefreshWithStoreValidation(t *testing.T) {
	t.Parallel()

	authenticator := New(nil)
	if _, err := authenticator.RefreshWithStore(context.Background(), nil, "", "", ""); err == nil {
		t.Error("RefreshWithStore() accepted a nil store")
	}
	if _, err := authenticator.RefreshWithStore(context.Background(), NewMemoryTokenStore(""), "", "", ""); err == nil {
		t.Error("RefreshWithStore() accepted an empty store")
	}
}
