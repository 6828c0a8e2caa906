package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/3a-softwares/E-Storefront-Services/config"
	"github.com/3a-softwares/E-Storefront-Services/errors"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(config.Endpoint{Name: "product", BaseURL: srv.URL}, 5*time.Second, nil, nil)
}

func TestAuthHeader(t *testing.T) {
	assert.Equal(t, "Bearer abc123", AuthHeader("abc123"))
	// Empty tokens still render the prefix; the downstream rejects them.
	assert.Equal(t, "Bearer ", AuthHeader(""))
}

func TestGetForwardsQueryAndAuth(t *testing.T) {
	var gotAuth, gotQuery string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotQuery = r.URL.RawQuery
		json.NewEncoder(w).Encode(map[string]any{"success": true, "data": map[string]any{"ok": true}})
	}))

	q := url.Values{}
	q.Set("page", "2")
	env, err := c.Get(context.Background(), "/api/products", q, WithAuth("tok"))
	require.NoError(t, err)
	assert.True(t, env.Success)
	assert.Equal(t, "Bearer tok", gotAuth)
	assert.Equal(t, "page=2", gotQuery)
}

func TestPostMarshalsBody(t *testing.T) {
	var gotBody map[string]any
	var gotContentType string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		json.NewDecoder(r.Body).Decode(&gotBody)
		json.NewEncoder(w).Encode(map[string]any{"success": true})
	}))

	_, err := c.Post(context.Background(), "/api/orders", map[string]any{"total": 42})
	require.NoError(t, err)
	assert.Equal(t, "application/json", gotContentType)
	assert.Equal(t, float64(42), gotBody["total"])
}

func TestStatusClassification(t *testing.T) {
	tests := []struct {
		name   string
		status int
		check  func(error) bool
	}{
		{name: "401 is unauthorized", status: http.StatusUnauthorized, check: errors.IsUnauthorized},
		{name: "403 is unauthorized", status: http.StatusForbidden, check: errors.IsUnauthorized},
		{name: "404 is not found", status: http.StatusNotFound, check: errors.IsNotFound},
		{name: "500 is unavailable", status: http.StatusInternalServerError, check: errors.IsUnavailable},
		{name: "503 is unavailable", status: http.StatusServiceUnavailable, check: errors.IsUnavailable},
		{name: "408 is unavailable", status: http.StatusRequestTimeout, check: errors.IsUnavailable},
		{name: "400 is invalid", status: http.StatusBadRequest, check: errors.IsInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				json.NewEncoder(w).Encode(map[string]any{"success": false, "message": "downstream said no"})
			}))

			_, err := c.Get(context.Background(), "/api/x", nil)
			require.Error(t, err)
			assert.True(t, tt.check(err))
		})
	}
}

func TestErrorPreservesDownstreamMessage(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]any{"success": false, "message": "Coupon has expired"})
	}))

	_, err := c.Post(context.Background(), "/api/coupons/validate", map[string]any{"code": "OLD"})
	require.Error(t, err)
	assert.Equal(t, "Coupon has expired", ErrorMessage(err, "fallback"))
}

func TestErrorMessageFallback(t *testing.T) {
	assert.Equal(t, "fallback", ErrorMessage(errors.ErrServiceUnavailable, "fallback"))
	assert.Equal(t, "fallback", ErrorMessage(nil, "fallback"))
}

func TestNetworkErrorIsUnavailable(t *testing.T) {
	// Closed server: the port refuses connections.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()
	c := New(config.Endpoint{Name: "order", BaseURL: srv.URL}, time.Second, nil, nil)

	_, err := c.Get(context.Background(), "/api/orders", nil)
	require.Error(t, err)
	assert.True(t, errors.IsUnavailable(err))
}

func TestEmptyBodyStillReturnsEnvelope(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	env, err := c.Delete(context.Background(), "/api/products/p1")
	require.NoError(t, err)
	require.NotNil(t, env)
	assert.False(t, env.HasData())
}
