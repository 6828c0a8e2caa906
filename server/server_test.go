package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/3a-softwares/E-Storefront-Services/client"
	"github.com/3a-softwares/E-Storefront-Services/config"
	"github.com/3a-softwares/E-Storefront-Services/graphql"
	"github.com/3a-softwares/E-Storefront-Services/health"
	"github.com/3a-softwares/E-Storefront-Services/seed"
)

type fakeSeeder struct {
	runCalls    int
	clearCalls  int
	statusCalls int
	preserved   bool
}

func (f *fakeSeeder) Run(ctx context.Context, preserveUsers bool) (seed.Stats, error) {
	f.runCalls++
	f.preserved = preserveUsers
	return seed.Stats{"users": 30, "products": 30}, nil
}

func (f *fakeSeeder) Clear(ctx context.Context) (seed.Stats, error) {
	f.clearCalls++
	return seed.Stats{"products": 30}, nil
}

func (f *fakeSeeder) DatabaseStatus(ctx context.Context) (*seed.Status, error) {
	f.statusCalls++
	return &seed.Status{Collections: seed.Stats{"users": 30}, TotalDocuments: 30}, nil
}

const allowedOrigin = "http://storefront.example"

func newTestServer(t *testing.T, seeder Seeder, endpoints []config.Endpoint) *Server {
	t.Helper()

	if endpoints == nil {
		endpoints = []config.Endpoint{{Name: "auth", BaseURL: "http://127.0.0.1:1"}}
	}
	cfg := &config.Config{
		Port:           4000,
		Environment:    "test",
		AllowedOrigins: []string{allowedOrigin},
		Services:       config.NewRegistry(endpoints),
	}
	require.NoError(t, cfg.Validate())

	mk := func(name string) *client.Client {
		ep, ok := cfg.Services.Lookup(name)
		if !ok {
			ep = config.Endpoint{Name: name, BaseURL: "http://127.0.0.1:1"}
		}
		return client.New(ep, time.Second, nil, nil)
	}
	resolver := graphql.NewResolver(graphql.Clients{
		Auth:     mk("auth"),
		Product:  mk("product"),
		Order:    mk("order"),
		Category: mk("category"),
		Coupon:   mk("coupon"),
	}, nil)

	checker := health.NewChecker(cfg.Services, time.Second, nil, nil)

	srv, err := New(cfg, graphql.NewEngine(resolver), checker, seeder, nil, nil)
	require.NoError(t, err)
	require.NoError(t, srv.Setup())
	return srv
}

func doRequest(t *testing.T, s *Server, method, target string, header http.Header) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	rr := httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, req)
	return rr
}

func adminToken(t *testing.T) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"userId": "admin1",
		"email":  "admin@example.com",
		"role":   "admin",
	})
	signed, err := tok.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return signed
}

func customerToken(t *testing.T) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"userId": "cust1",
		"email":  "c@example.com",
		"role":   "customer",
	})
	signed, err := tok.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return signed
}

func TestCORSHeaders(t *testing.T) {
	s := newTestServer(t, nil, nil)

	t.Run("allowed origin gets headers", func(t *testing.T) {
		rr := doRequest(t, s, http.MethodGet, "/health", http.Header{"Origin": {allowedOrigin}})
		assert.Equal(t, allowedOrigin, rr.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("disallowed origin gets no header", func(t *testing.T) {
		rr := doRequest(t, s, http.MethodGet, "/health", http.Header{"Origin": {"http://evil.example"}})
		assert.Empty(t, rr.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("preflight returns 204", func(t *testing.T) {
		rr := doRequest(t, s, http.MethodOptions, "/graphql", http.Header{"Origin": {allowedOrigin}})
		assert.Equal(t, http.StatusNoContent, rr.Code)
		assert.Equal(t, allowedOrigin, rr.Header().Get("Access-Control-Allow-Origin"))
	})
}

func TestAggregateHealthShape(t *testing.T) {
	up := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":true}`))
	}))
	t.Cleanup(up.Close)

	s := newTestServer(t, nil, []config.Endpoint{
		{Name: "auth", BaseURL: up.URL},
		{Name: "product", BaseURL: "http://127.0.0.1:1"},
	})

	rr := doRequest(t, s, http.MethodGet, "/api/health/services", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var report health.Report
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &report))

	assert.Equal(t, health.StatusDegraded, report.OverallStatus)
	require.Len(t, report.Services, 3)
	assert.Equal(t, "auth", report.Services[0].Name)
	assert.Equal(t, "product", report.Services[1].Name)
	assert.Equal(t, health.GatewayName, report.Services[2].Name)
	assert.True(t, report.Services[2].IsHealthy())
}

func TestUnknownServiceHealthIs404(t *testing.T) {
	s := newTestServer(t, nil, []config.Endpoint{
		{Name: "auth", BaseURL: "http://127.0.0.1:1"},
		{Name: "product", BaseURL: "http://127.0.0.1:1"},
	})

	rr := doRequest(t, s, http.MethodGet, "/api/health/services/billing", nil)
	require.Equal(t, http.StatusNotFound, rr.Code)

	var resp struct {
		Success           bool     `json:"success"`
		AvailableServices []string `json:"availableServices"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, []string{"auth", "product"}, resp.AvailableServices)
}

func TestSeedAdminGate(t *testing.T) {
	tests := []struct {
		name       string
		authHeader string
		wantCode   int
		wantCalls  int
	}{
		{name: "no token", authHeader: "", wantCode: http.StatusForbidden},
		{name: "non-admin token", authHeader: "customer", wantCode: http.StatusForbidden},
		{name: "admin token", authHeader: "admin", wantCode: http.StatusOK, wantCalls: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seeder := &fakeSeeder{}
			s := newTestServer(t, seeder, nil)

			header := http.Header{}
			switch tt.authHeader {
			case "admin":
				header.Set("Authorization", "Bearer "+adminToken(t))
			case "customer":
				header.Set("Authorization", "Bearer "+customerToken(t))
			}

			rr := doRequest(t, s, http.MethodPost, "/api/seed", header)
			assert.Equal(t, tt.wantCode, rr.Code)
			// The gate fires before the seeder is ever invoked.
			assert.Equal(t, tt.wantCalls, seeder.runCalls)
		})
	}
}

func TestSeedPreservesUsersByDefault(t *testing.T) {
	seeder := &fakeSeeder{}
	s := newTestServer(t, seeder, nil)
	header := http.Header{"Authorization": {"Bearer " + adminToken(t)}}

	doRequest(t, s, http.MethodPost, "/api/seed", header)
	assert.True(t, seeder.preserved)

	doRequest(t, s, http.MethodPost, "/api/seed?preserveUsers=false", header)
	assert.False(t, seeder.preserved)
	assert.Equal(t, 2, seeder.runCalls)
}

func TestSeedClearAndStatus(t *testing.T) {
	seeder := &fakeSeeder{}
	s := newTestServer(t, seeder, nil)
	header := http.Header{"Authorization": {"Bearer " + adminToken(t)}}

	rr := doRequest(t, s, http.MethodPost, "/api/seed/clear", header)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 1, seeder.clearCalls)
	assert.Contains(t, rr.Body.String(), "admin users preserved")

	rr = doRequest(t, s, http.MethodGet, "/api/seed/status", header)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 1, seeder.statusCalls)

	var resp struct {
		Success bool `json:"success"`
		Status  struct {
			TotalDocuments int64 `json:"totalDocuments"`
		} `json:"status"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, int64(30), resp.Status.TotalDocuments)
}

func TestRootInfo(t *testing.T) {
	s := newTestServer(t, nil, nil)

	rr := doRequest(t, s, http.MethodGet, "/", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "E-Storefront GraphQL Gateway")
	assert.NotEmpty(t, rr.Header().Get("X-Request-Id"))
}

func TestGraphQLEndToEndDegradedCategories(t *testing.T) {
	s := newTestServer(t, nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/graphql",
		strings.NewReader(`{"query":"{ categories { success count } }"}`))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var resp struct {
		Data struct {
			Categories struct {
				Success bool  `json:"success"`
				Count   int32 `json:"count"`
			} `json:"categories"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.False(t, resp.Data.Categories.Success)
	assert.Zero(t, resp.Data.Categories.Count)
}

func TestSelfHealthAlwaysHealthy(t *testing.T) {
	s := newTestServer(t, nil, nil)

	rr := doRequest(t, s, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"status":"healthy"`)
}
