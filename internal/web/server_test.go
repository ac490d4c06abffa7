package web

import (
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joss/pricelist/internal/logging"
	"github.com/joss/pricelist/internal/metrics"
	"github.com/joss/pricelist/internal/pricing"
	"github.com/joss/pricelist/internal/view"
)

const testPricing = "../pricing/testdata/pricing.json"

func init() {
	logging.InitTo("error", io.Discard)
}

func newTestServer(t *testing.T, source string) (*Server, *metrics.Metrics) {
	t.Helper()
	m := metrics.New()
	s := New(Options{Addr: ":0", Pricing: source, Mode: view.ModeCards}, pricing.NewLoader(), m)
	return s, m
}

func get(t *testing.T, s *Server, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHealthCheck(t *testing.T) {
	s, _ := newTestServer(t, testPricing)
	rec := get(t, s, "/health-check")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestPricingFile(t *testing.T) {
	s, _ := newTestServer(t, testPricing)
	rec := get(t, s, "/pricing.json")
	require.Equal(t, http.StatusOK, rec.Code)

	doc, err := pricing.Parse(rec.Body.Bytes())
	require.NoError(t, err)
	assert.Equal(t, []string{"openai", "anthropic", "gemini"}, doc.ProviderIDs())
}

func TestIndexCards(t *testing.T) {
	s, m := newTestServer(t, testPricing)
	rec := get(t, s, "/")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()

	for _, name := range []string{"GPT-4o mini", "Claude 3.5 Sonnet", "Claude 3.5 Haiku", "Claude 3 Opus", "Gemini 1.5 Flash"} {
		assert.Contains(t, body, name)
	}
	assert.Contains(t, body, `class="pricing-card openai"`)
	assert.Contains(t, body, "Cheapest OpenAI chat model")
	assert.NotContains(t, body, view.NotesPlaceholder, "cards omit missing notes")
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Renders.WithLabelValues("cards", "ok")))
}

func TestIndexProviderFilter(t *testing.T) {
	s, _ := newTestServer(t, testPricing)
	body := get(t, s, "/?provider=gemini").Body.String()

	assert.Contains(t, body, "Gemini 1.5 Flash")
	assert.NotContains(t, body, "GPT-4o")
	assert.NotContains(t, body, "Claude 3")
	assert.Contains(t, body, `value="gemini" checked`)
	assert.NotContains(t, body, `value="openai" checked`)
}

func TestIndexNoProvidersSelected(t *testing.T) {
	s, m := newTestServer(t, testPricing)
	body := get(t, s, "/?filtered=1").Body.String()

	assert.Contains(t, body, view.EmptyMessage)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Renders.WithLabelValues("cards", "empty")))
}

func TestIndexSearch(t *testing.T) {
	s, _ := newTestServer(t, testPricing)

	body := get(t, s, "/?q=HAIKU").Body.String()
	assert.Contains(t, body, "Claude 3.5 Haiku")
	assert.NotContains(t, body, "Claude 3 Opus")

	body = get(t, s, "/?q=nothing-matches").Body.String()
	assert.Contains(t, body, view.EmptyMessage)
}

func TestIndexEscapesSearch(t *testing.T) {
	s, _ := newTestServer(t, testPricing)
	body := get(t, s, "/?q=%3Cscript%3E").Body.String()

	assert.NotContains(t, body, "<script>")
	assert.Contains(t, body, "&lt;script&gt;")
}

func TestIndexTableDefaultSort(t *testing.T) {
	s, _ := newTestServer(t, testPricing)
	body := get(t, s, "/?view=table").Body.String()

	assert.Contains(t, body, `id="pricingTable"`)
	assert.Contains(t, body, "Input ▲")
	assertOrder(t, body, "Gemini 1.5 Flash", "GPT-4o mini", "Claude 3.5 Haiku", "Claude 3 Opus")
	assert.Contains(t, body, "<td>"+view.NotesPlaceholder+"</td>")
}

func TestIndexTableDescending(t *testing.T) {
	s, _ := newTestServer(t, testPricing)
	body := get(t, s, "/?view=table&sort=inputPrice&dir=desc").Body.String()

	assert.Contains(t, body, "Input ▼")
	assertOrder(t, body, "Claude 3 Opus", "Claude 3.5 Haiku", "GPT-4o mini", "Gemini 1.5 Flash")
	// clicking the active header flips back to ascending
	assert.Contains(t, body, `href="/?dir=asc&amp;sort=inputPrice&amp;view=table"`)
	// a new column starts ascending
	assert.Contains(t, body, `href="/?dir=asc&amp;sort=name&amp;view=table"`)
}

func TestIndexBadQuery(t *testing.T) {
	s, _ := newTestServer(t, testPricing)

	assert.Equal(t, http.StatusBadRequest, get(t, s, "/?sort=price").Code)
	assert.Equal(t, http.StatusBadRequest, get(t, s, "/?view=list").Code)
}

func TestIndexLoadFailure(t *testing.T) {
	s, m := newTestServer(t, "testdata/missing.json")
	rec := get(t, s, "/")

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, view.FailedMessage)
	assert.NotContains(t, body, `class="pricing-grid"`)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.LoadFailures))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Renders.WithLabelValues("cards", "failed")))
}

func TestHealth(t *testing.T) {
	s, _ := newTestServer(t, testPricing)
	rec := get(t, s, "/health")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"pricing":{"status":"ok"`)

	s, _ = newTestServer(t, "testdata/missing.json")
	rec = get(t, s, "/health")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"unhealthy"`)
}

func TestHealthLastErrorClearsAfterLoad(t *testing.T) {
	source := filepath.Join(t.TempDir(), "pricing.json")
	s, _ := newTestServer(t, source)

	get(t, s, "/")
	assert.Contains(t, get(t, s, "/health").Body.String(), `"last_error"`)

	data, err := os.ReadFile(testPricing)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(source, data, 0o644))

	get(t, s, "/")
	rec := get(t, s, "/health")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), `"last_error"`)
}

func TestRequestID(t *testing.T) {
	s, _ := newTestServer(t, testPricing)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health-check", nil)
	req.Header.Set(logging.RequestIDHeader, "req-123")
	s.Handler().ServeHTTP(rec, req)
	assert.Equal(t, "req-123", rec.Header().Get(logging.RequestIDHeader))

	rec = get(t, s, "/health-check")
	assert.NotEmpty(t, rec.Header().Get(logging.RequestIDHeader))
}

func TestCrossOriginReads(t *testing.T) {
	s, _ := newTestServer(t, testPricing)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/pricing.json", nil)
	req.Header.Set("Origin", "https://other.test")
	s.Handler().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodOptions, "/pricing.json", nil)
	req.Header.Set("Origin", "https://other.test")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	s.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), http.MethodGet)
}

func TestMetricsEndpoint(t *testing.T) {
	s, m := newTestServer(t, testPricing)
	get(t, s, "/health-check")

	rec := get(t, s, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "pricelist_http_requests_total")
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequests.WithLabelValues("GET", "/health-check", "200")))
}

func assertOrder(t *testing.T, body string, names ...string) {
	t.Helper()
	last := -1
	for _, n := range names {
		i := strings.Index(body, n)
		require.NotEqual(t, -1, i, "missing %q", n)
		assert.Greater(t, i, last, "%q out of order", n)
		last = i
	}
}
