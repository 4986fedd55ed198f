package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAPIServer(t *testing.T, handler http.HandlerFunc) *APIClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewAPIClient(srv.URL)
}

func TestAPIClient_Register(t *testing.T) {
	api := newAPIServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/register", r.URL.Path)

		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "alice", req["username"])
		assert.Equal(t, "pw123", req["password"])

		w.WriteHeader(http.StatusCreated)
	})

	require.NoError(t, api.Register(context.Background(), "alice", "pw123"))
}

func TestAPIClient_Register_Conflict(t *testing.T) {
	api := newAPIServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Username already exists", http.StatusConflict)
	})

	err := api.Register(context.Background(), "alice", "pw123")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Username already exists")
}

func TestAPIClient_Login(t *testing.T) {
	api := newAPIServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/login", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"token": "tok-1"})
	})

	token, err := api.Login(context.Background(), "alice", "pw123")
	require.NoError(t, err)
	assert.Equal(t, "tok-1", token)
}

func TestAPIClient_Validate(t *testing.T) {
	api := newAPIServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/validate", r.URL.Path)

		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "tok-1", req["token"])

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"valid": true,
			"user":  map[string]string{"id": "u1", "username": "alice"},
		})
	})

	user, err := api.Validate(context.Background(), "tok-1")
	require.NoError(t, err)
	assert.Equal(t, &UserInfo{ID: "u1", Username: "alice"}, user)
}

func TestAPIClient_Validate_Unauthorized(t *testing.T) {
	api := newAPIServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Invalid token", http.StatusUnauthorized)
	})

	_, err := api.Validate(context.Background(), "garbage")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid token")
}

func TestAPIClient_Logout(t *testing.T) {
	api := newAPIServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/logout", r.URL.Path)
		_, _ = w.Write([]byte("Logged out successfully"))
	})

	require.NoError(t, api.Logout(context.Background()))
}
