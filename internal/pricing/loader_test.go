package pricing

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoaderLoadFile(t *testing.T) {
	doc, err := NewLoader().Load(context.Background(), "testdata/pricing.json")
	require.NoError(t, err)
	assert.Len(t, doc.Providers, 3)
	assert.Len(t, Flatten(doc), 6)
}

func TestLoaderLoadURL(t *testing.T) {
	data, err := os.ReadFile("testdata/pricing.json")
	require.NoError(t, err)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/pricing.json" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write(data)
	}))
	defer srv.Close()

	l := NewLoader(WithHTTPClient(srv.Client()))

	doc, err := l.Load(context.Background(), srv.URL+"/pricing.json")
	require.NoError(t, err)
	assert.Equal(t, []string{"openai", "anthropic", "gemini"}, doc.ProviderIDs())

	_, err = l.Load(context.Background(), srv.URL+"/missing.json")
	assert.ErrorIs(t, err, ErrUnreachable)
}

func TestLoaderFailures(t *testing.T) {
	dir := t.TempDir()
	broken := filepath.Join(dir, "broken.json")
	require.NoError(t, os.WriteFile(broken, []byte("{not json"), 0o644))

	l := NewLoader()

	_, err := l.Load(context.Background(), filepath.Join(dir, "nope.json"))
	assert.ErrorIs(t, err, ErrUnreachable)

	_, err = l.Load(context.Background(), broken)
	assert.ErrorIs(t, err, ErrMalformed)

	_, err = l.Load(context.Background(), "http://127.0.0.1:1/pricing.json")
	assert.ErrorIs(t, err, ErrUnreachable)
}

func TestLoaderCancelledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"providers":{}}`))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewLoader().Load(ctx, srv.URL)
	assert.ErrorIs(t, err, ErrUnreachable)
}

func TestIsURL(t *testing.T) {
	assert.True(t, IsURL("http://localhost/pricing.json"))
	assert.True(t, IsURL("https://example.com/p.json"))
	assert.False(t, IsURL("pricing.json"))
	assert.False(t, IsURL("/srv/http/pricing.json"))
}
