package selftest

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joss/pricelist/internal/logging"
	"github.com/joss/pricelist/internal/pricing"
)

const testPricing = "../pricing/testdata/pricing.json"

func init() {
	logging.InitTo("error", io.Discard)
}

func fixed(status string) ComponentCheck {
	return func(context.Context) ComponentStatus {
		return ComponentStatus{Status: status}
	}
}

func TestCheckHealthAggregates(t *testing.T) {
	tests := []struct {
		name   string
		checks map[string]ComponentCheck
		want   string
	}{
		{"all ok", map[string]ComponentCheck{"a": fixed(StatusOK), "b": fixed(StatusOK)}, "healthy"},
		{"one degraded", map[string]ComponentCheck{"a": fixed(StatusOK), "b": fixed(StatusDegraded)}, "degraded"},
		{"error wins", map[string]ComponentCheck{"a": fixed(StatusDegraded), "b": fixed(StatusError)}, "unhealthy"},
		{"no checks", map[string]ComponentCheck{}, "healthy"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status := CheckHealth(context.Background(), tt.checks)
			assert.Equal(t, tt.want, status.Status)
			assert.Len(t, status.Components, len(tt.checks))
			assert.NotEmpty(t, status.Timestamp)
		})
	}
}

func TestLastError(t *testing.T) {
	ClearLastError()
	defer ClearLastError()

	SetLastError(nil)
	assert.Empty(t, GetLastError())

	SetLastError(errors.New("pricing unreachable"))
	assert.Equal(t, "pricing unreachable", GetLastError())
	assert.Equal(t, "pricing unreachable", CheckHealth(context.Background(), nil).LastError)

	ClearLastError()
	assert.Empty(t, GetLastError())
}

func TestPricingCheck(t *testing.T) {
	loader := pricing.NewLoader()

	ok := PricingCheck(loader, testPricing)(context.Background())
	assert.Equal(t, StatusOK, ok.Status)
	assert.Equal(t, "3 providers, 6 models", ok.Detail)

	missing := PricingCheck(loader, filepath.Join(t.TempDir(), "none.json"))(context.Background())
	assert.Equal(t, StatusError, missing.Status)
	assert.NotEmpty(t, missing.Error)

	path := filepath.Join(t.TempDir(), "neg.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
  "lastUpdated": "2025-01-01",
  "providers": {"x": {"name": "X", "models": [{"name": "m", "inputPrice": -1, "outputPrice": 1, "unit": "u"}]}}
}`), 0644))
	degraded := PricingCheck(loader, path)(context.Background())
	assert.Equal(t, StatusDegraded, degraded.Status)
	assert.Contains(t, degraded.Error, "negative price")
}

func TestBrowserCheckExplicitBin(t *testing.T) {
	bin := filepath.Join(t.TempDir(), "chrome")
	require.NoError(t, os.WriteFile(bin, []byte("#!/bin/sh\n"), 0755))

	found := BrowserCheck(bin)(context.Background())
	assert.Equal(t, StatusOK, found.Status)
	assert.Equal(t, bin, found.Detail)

	missing := BrowserCheck(filepath.Join(t.TempDir(), "nope"))(context.Background())
	assert.Equal(t, StatusDegraded, missing.Status)
}

func TestFormatUptime(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{5 * time.Second, "5s"},
		{90 * time.Second, "1m30s"},
		{2*time.Hour + 3*time.Minute + 4*time.Second, "2h3m4s"},
		{50 * time.Hour, "2d2h0m"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatUptime(tt.d))
	}
}

func TestHealthHandler(t *testing.T) {
	tests := []struct {
		name   string
		checks map[string]ComponentCheck
		code   int
		status string
	}{
		{"healthy", map[string]ComponentCheck{"a": fixed(StatusOK)}, http.StatusOK, "healthy"},
		{"degraded still 200", map[string]ComponentCheck{"a": fixed(StatusDegraded)}, http.StatusOK, "degraded"},
		{"unhealthy", map[string]ComponentCheck{"a": fixed(StatusError)}, http.StatusServiceUnavailable, "unhealthy"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			HealthHandler(tt.checks)(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

			assert.Equal(t, tt.code, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			var body HealthStatus
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.status, body.Status)
		})
	}
}

func TestEnvironmentSummary(t *testing.T) {
	env := &Environment{
		Source: "pricing.json",
		Health: &HealthStatus{
			Status: "degraded",
			Components: map[string]ComponentStatus{
				"pricing": {Status: StatusOK, Detail: "3 providers, 6 models"},
				"browser": {Status: StatusDegraded, Error: "no Chrome or Chromium found"},
			},
		},
	}

	assert.True(t, env.IsHealthy())
	assert.True(t, env.CanView())
	assert.False(t, env.CanScrape())

	s := env.Summary()
	assert.Contains(t, s, "PRICELIST ENVIRONMENT CHECK")
	assert.Contains(t, s, "Source:       pricing.json")
	assert.Contains(t, s, "✓ pricing    ok (3 providers, 6 models)")
	assert.Contains(t, s, "! browser    degraded")
	assert.Contains(t, s, "no Chrome or Chromium found")
	assert.Contains(t, s, "✗ scrape")
	assert.Equal(t, "✗ browser degraded", env.QuickCheck())
}

func TestQuickCheckOK(t *testing.T) {
	env := &Environment{Health: &HealthStatus{
		Status: "healthy",
		Components: map[string]ComponentStatus{
			"pricing": {Status: StatusOK},
			"browser": {Status: StatusOK},
		},
	}}
	assert.Equal(t, "✓ Environment OK", env.QuickCheck())
	assert.True(t, env.CanScrape())
}

func TestCheck(t *testing.T) {
	env := Check(context.Background(), pricing.NewLoader(), testPricing, "")
	require.NotNil(t, env.Health)
	assert.Contains(t, env.Health.Components, "pricing")
	assert.Contains(t, env.Health.Components, "browser")
	assert.True(t, env.CanView())
	assert.Equal(t, testPricing, env.Source)
}
