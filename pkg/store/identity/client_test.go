package identity

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wellfit-labs/wellfit/pkg/store/localcache"
)

func setupCache(t *testing.T) localcache.Store {
	t.Helper()
	cache, err := localcache.NewStore(localcache.Settings{})
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = cache.Close()
	})
	return cache
}

func newTestClient(t *testing.T, baseURL string, cache localcache.Store) Client {
	t.Helper()
	client, err := NewClient(Settings{BaseURL: baseURL, APIKey: "anon-key"}, cache)
	require.NoError(t, err)
	return client
}

func TestGetSession_Empty(t *testing.T) {
	cache := setupCache(t)
	client := newTestClient(t, "http://unused.example", cache)

	session, err := client.GetSession(context.Background())
	require.NoError(t, err)
	assert.Nil(t, session)
}

func TestSignInWithPassword_PersistsSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/v1/token", r.URL.Path)
		assert.Equal(t, "password", r.URL.Query().Get("grant_type"))
		assert.Equal(t, "anon-key", r.Header.Get("apikey"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "member@wellfit.example", body["email"])

		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token":  "access-1",
			"refresh_token": "refresh-1",
			"expires_in":    3600,
			"user":          map[string]string{"id": "user-1", "email": "member@wellfit.example"},
		})
	}))
	defer srv.Close()

	cache := setupCache(t)
	client := newTestClient(t, srv.URL, cache)

	session, err := client.SignInWithPassword(context.Background(), "member@wellfit.example", "secret")
	require.NoError(t, err)
	require.NotNil(t, session)
	assert.Equal(t, "access-1", session.AccessToken)
	assert.Equal(t, "user-1", session.User.ID)

	// The session is now readable without another provider call.
	cached, err := client.GetSession(context.Background())
	require.NoError(t, err)
	require.NotNil(t, cached)
	assert.Equal(t, "access-1", cached.AccessToken)

	_, found, err := cache.Get(SessionKey)
	require.NoError(t, err)
	assert.True(t, found)
}

func TestRefreshSession(t *testing.T) {
	t.Run("success rotates the tokens", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Query().Get("grant_type") == "password" {
				_ = json.NewEncoder(w).Encode(map[string]any{
					"access_token": "access-1", "refresh_token": "refresh-1", "expires_in": 3600,
					"user": map[string]string{"id": "user-1", "email": "member@wellfit.example"},
				})
				return
			}

			var body map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "refresh-1", body["refresh_token"])
			_ = json.NewEncoder(w).Encode(map[string]any{
				"access_token": "access-2", "refresh_token": "refresh-2", "expires_in": 3600,
				"user": map[string]string{"id": "user-1", "email": "member@wellfit.example"},
			})
		}))
		defer srv.Close()

		cache := setupCache(t)
		client := newTestClient(t, srv.URL, cache)

		_, err := client.SignInWithPassword(context.Background(), "member@wellfit.example", "secret")
		require.NoError(t, err)

		session, err := client.RefreshSession(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "access-2", session.AccessToken)
		assert.Equal(t, "refresh-2", session.RefreshToken)
	})

	t.Run("no cached session", func(t *testing.T) {
		cache := setupCache(t)
		client := newTestClient(t, "http://unused.example", cache)

		_, err := client.RefreshSession(context.Background())
		assert.ErrorContains(t, err, "no refresh token")
	})

	t.Run("provider rejects the refresh", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Query().Get("grant_type") == "password" {
				_ = json.NewEncoder(w).Encode(map[string]any{
					"access_token": "access-1", "refresh_token": "refresh-1", "expires_in": 3600,
					"user": map[string]string{"id": "user-1", "email": "member@wellfit.example"},
				})
				return
			}
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(map[string]string{"msg": "refresh token revoked"})
		}))
		defer srv.Close()

		cache := setupCache(t)
		client := newTestClient(t, srv.URL, cache)

		_, err := client.SignInWithPassword(context.Background(), "member@wellfit.example", "secret")
		require.NoError(t, err)

		_, err = client.RefreshSession(context.Background())
		assert.ErrorContains(t, err, "refresh token revoked")
	})
}

func TestGetCurrentUser(t *testing.T) {
	t.Run("invalid token message surfaces", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/auth/v1/token" {
				_ = json.NewEncoder(w).Encode(map[string]any{
					"access_token": "access-1", "refresh_token": "refresh-1", "expires_in": 3600,
					"user": map[string]string{"id": "user-1", "email": "member@wellfit.example"},
				})
				return
			}
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]string{"msg": "invalid JWT: token is expired"})
		}))
		defer srv.Close()

		cache := setupCache(t)
		client := newTestClient(t, srv.URL, cache)

		_, err := client.SignInWithPassword(context.Background(), "member@wellfit.example", "secret")
		require.NoError(t, err)

		_, err = client.GetCurrentUser(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "JWT")
	})

	t.Run("no session", func(t *testing.T) {
		cache := setupCache(t)
		client := newTestClient(t, "http://unused.example", cache)

		_, err := client.GetCurrentUser(context.Background())
		assert.ErrorContains(t, err, "no active session")
	})
}

func TestCheckHealth(t *testing.T) {
	t.Run("healthy provider", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/auth/v1/health", r.URL.Path)
			assert.Equal(t, "anon-key", r.Header.Get("apikey"))
			w.WriteHeader(http.StatusOK)
		}))
		defer srv.Close()

		client := newTestClient(t, srv.URL, setupCache(t))
		assert.NoError(t, client.CheckHealth(context.Background()))
	})

	t.Run("unhealthy provider", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer srv.Close()

		client := newTestClient(t, srv.URL, setupCache(t))
		err := client.CheckHealth(context.Background())
		assert.ErrorContains(t, err, "health check failed")
	})

	t.Run("unreachable provider", func(t *testing.T) {
		client := newTestClient(t, "http://127.0.0.1:1", setupCache(t))
		err := client.CheckHealth(context.Background())
		assert.ErrorContains(t, err, "health check failed")
	})
}

func TestSignOut_ClearsLocalSession(t *testing.T) {
	logoutCalled := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/auth/v1/token" {
			_ = json.NewEncoder(w).Encode(map[string]any{
				"access_token": "access-1", "refresh_token": "refresh-1", "expires_in": 3600,
				"user": map[string]string{"id": "user-1", "email": "member@wellfit.example"},
			})
			return
		}
		if r.URL.Path == "/auth/v1/logout" {
			logoutCalled = true
			w.WriteHeader(http.StatusNoContent)
		}
	}))
	defer srv.Close()

	cache := setupCache(t)
	client := newTestClient(t, srv.URL, cache)

	_, err := client.SignInWithPassword(context.Background(), "member@wellfit.example", "secret")
	require.NoError(t, err)

	require.NoError(t, client.SignOut(context.Background()))
	assert.True(t, logoutCalled)

	session, err := client.GetSession(context.Background())
	require.NoError(t, err)
	assert.Nil(t, session)
}

func TestSignOut_NoSessionStillSucceeds(t *testing.T) {
	cache := setupCache(t)
	client := newTestClient(t, "http://unused.example", cache)

	assert.NoError(t, client.SignOut(context.Background()))
}
