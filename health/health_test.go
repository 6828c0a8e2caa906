package health

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/3a-softwares/E-Storefront-Services/config"
	"github.com/3a-softwares/E-Storefront-Services/errors"
)

func healthyServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/health", r.URL.Path)
		w.Write([]byte(`{"success":true,"uptime":120.5}`))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func failingServer(t *testing.T, status int) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestCheckAllMixedOutcomes(t *testing.T) {
	up := healthyServer(t)
	down := failingServer(t, http.StatusInternalServerError)
	dead := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	dead.Close() // connection refused

	registry := config.NewRegistry([]config.Endpoint{
		{Name: "auth", BaseURL: up.URL},
		{Name: "product", BaseURL: down.URL},
		{Name: "order", BaseURL: dead.URL},
	})
	checker := NewChecker(registry, time.Second, nil, nil)

	report := checker.CheckAll(context.Background())

	assert.Equal(t, StatusDegraded, report.OverallStatus)
	require.Len(t, report.Services, 4) // three services plus the gateway
	assert.Equal(t, 4, report.TotalServices)
	assert.Equal(t, 2, report.HealthyCount)

	// Records follow registration order; the gateway is always last.
	assert.Equal(t, "auth", report.Services[0].Name)
	assert.Equal(t, "product", report.Services[1].Name)
	assert.Equal(t, "order", report.Services[2].Name)
	assert.Equal(t, GatewayName, report.Services[3].Name)
	assert.True(t, report.Services[3].IsHealthy())

	assert.Equal(t, StatusHealthy, report.Services[0].Status)
	assert.NotEmpty(t, report.Services[0].Uptime)
	assert.Equal(t, StatusUnhealthy, report.Services[1].Status)
	assert.Equal(t, StatusUnhealthy, report.Services[2].Status)
	assert.NotEmpty(t, report.Services[2].Error)
}

func TestCheckAllHealthyOnlyWhenEveryServiceUp(t *testing.T) {
	up := healthyServer(t)
	registry := config.NewRegistry([]config.Endpoint{
		{Name: "auth", BaseURL: up.URL},
		{Name: "product", BaseURL: up.URL},
	})
	checker := NewChecker(registry, time.Second, nil, nil)

	report := checker.CheckAll(context.Background())
	assert.Equal(t, StatusHealthy, report.OverallStatus)
	assert.Equal(t, report.TotalServices, report.HealthyCount)
}

func TestCheckAllSlowServiceFailsOnlyItself(t *testing.T) {
	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
	}))
	t.Cleanup(slow.Close)
	up := healthyServer(t)

	registry := config.NewRegistry([]config.Endpoint{
		{Name: "ticket", BaseURL: slow.URL},
		{Name: "auth", BaseURL: up.URL},
	})
	checker := NewChecker(registry, 100*time.Millisecond, nil, nil)

	report := checker.CheckAll(context.Background())
	assert.Equal(t, StatusUnhealthy, report.Services[0].Status)
	assert.Equal(t, StatusHealthy, report.Services[1].Status)
	assert.Equal(t, StatusDegraded, report.OverallStatus)
}

func TestCheckOne(t *testing.T) {
	up := healthyServer(t)
	registry := config.NewRegistry([]config.Endpoint{
		{Name: "auth", BaseURL: up.URL},
	})
	checker := NewChecker(registry, time.Second, nil, nil)

	rec, err := checker.CheckOne(context.Background(), "auth")
	require.NoError(t, err)
	assert.Equal(t, StatusHealthy, rec.Status)
	assert.Equal(t, up.URL, rec.URL)
}

func TestCheckOneUnknownService(t *testing.T) {
	registry := config.NewRegistry([]config.Endpoint{
		{Name: "auth", BaseURL: "http://localhost:4001"},
		{Name: "product", BaseURL: "http://localhost:4002"},
	})
	checker := NewChecker(registry, time.Second, nil, nil)

	_, err := checker.CheckOne(context.Background(), "billing")
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
	assert.Contains(t, err.Error(), "auth")
	assert.Contains(t, err.Error(), "product")
}

func TestAggregateStatus(t *testing.T) {
	tests := []struct {
		name    string
		records []Record
		want    string
	}{
		{
			name:    "all healthy",
			records: []Record{{Status: StatusHealthy}, {Status: StatusHealthy}},
			want:    StatusHealthy,
		},
		{
			name:    "one unhealthy degrades the whole",
			records: []Record{{Status: StatusHealthy}, {Status: StatusUnhealthy}},
			want:    StatusDegraded,
		},
		{
			name:    "empty set is healthy",
			records: nil,
			want:    StatusHealthy,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AggregateStatus(tt.records))
		})
	}
}

func TestSanitizeError(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "url removed",
			in:   `Get "http://localhost:4002/health": connection refused`,
			want: `Get "[URL]": connection refused`,
		},
		{
			name: "port removed",
			in:   "dial tcp 127.0.0.1:4001 refused",
			want: "dial tcp 127.0.0.1[PORT] refused",
		},
		{
			name: "credentials redacted",
			in:   "auth failed: password=hunter2",
			want: "auth failed: [REDACTED]",
		},
		{
			name: "empty stays empty",
			in:   "",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, sanitizeError(tt.in))
		})
	}
}
