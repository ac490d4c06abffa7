package pricing

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/joss/pricelist/internal/logging"
)

// maxDocumentSize bounds how much of a response body is read.
const maxDocumentSize = 8 << 20

// Loader fetches pricing documents from a URL or a local file. No retry.
type Loader struct {
	client *http.Client
	log    *logging.Logger
}

// LoaderOption configures the loader.
type LoaderOption func(*Loader)

// WithHTTPClient sets the client used for http(s) sources.
func WithHTTPClient(c *http.Client) LoaderOption {
	return func(l *Loader) {
		l.client = c
	}
}

// NewLoader creates a loader.
func NewLoader(opts ...LoaderOption) *Loader {
	l := &Loader{
		client: &http.Client{Timeout: 15 * time.Second},
		log:    logging.New("loader"),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load reads and parses the document at source.
// Errors wrap ErrUnreachable or ErrMalformed and are logged before returning.
func (l *Loader) Load(ctx context.Context, source string) (*Document, error) {
	start := time.Now()

	data, err := l.read(ctx, source)
	if err != nil {
		l.log.Error("pricing_load_failed", map[string]any{"source": source}, err)
		return nil, err
	}

	doc, err := Parse(data)
	if err != nil {
		l.log.Error("pricing_load_failed", map[string]any{"source": source}, err)
		return nil, err
	}

	l.log.TimedEvent("pricing_loaded", start, map[string]any{
		"source":    source,
		"providers": len(doc.Providers),
		"models":    doc.ModelCount(),
	})
	return doc, nil
}

func (l *Loader) read(ctx context.Context, source string) ([]byte, error) {
	if IsURL(source) {
		return l.fetch(ctx, source)
	}
	data, err := os.ReadFile(source)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	return data, nil
}

func (l *Loader) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: GET %s: status %d", ErrUnreachable, url, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentSize))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", ErrUnreachable, err)
	}
	return data, nil
}

// IsURL reports whether source should be fetched over HTTP.
func IsURL(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}
