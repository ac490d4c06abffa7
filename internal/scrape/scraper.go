package scrape

import (
	"context"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/joss/pricelist/internal/logging"
	"github.com/joss/pricelist/internal/metrics"
)

// Capturer loads a page and returns its visible text.
type Capturer interface {
	Capture(ctx context.Context, url string) (string, error)
}

// Scraper runs one capture per target concurrently and combines the results.
type Scraper struct {
	capturer Capturer
	targets  []Target
	limit    int
	now      func() time.Time
	metrics  *metrics.Metrics
	log      *logging.Logger
}

// Option configures a Scraper.
type Option func(*Scraper)

// WithTargets replaces the default provider pages.
func WithTargets(targets []Target) Option {
	return func(s *Scraper) {
		s.targets = targets
	}
}

// WithClock sets the time source for capture and report timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Scraper) {
		s.now = now
	}
}

// WithMetrics records per-provider outcomes on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Scraper) {
		s.metrics = m
	}
}

// New creates a scraper over the default targets.
func New(c Capturer, opts ...Option) *Scraper {
	s := &Scraper{
		capturer: c,
		targets:  DefaultTargets,
		limit:    MaxTextLength,
		now:      time.Now,
		log:      logging.New("scrape"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type outcome struct {
	id  string
	res ExtractResult
}

// Run captures every target and waits for all of them. A failing target only
// affects its own entry in the report.
func (s *Scraper) Run(ctx context.Context) Report {
	runID := ulid.Make().String()
	log := s.log.With("run_id", runID)
	start := time.Now()
	log.Info("scrape_started", map[string]any{"targets": len(s.targets)})

	results := make(chan outcome, len(s.targets))
	for _, t := range s.targets {
		go func(t Target) {
			results <- outcome{id: t.ID, res: s.capture(ctx, log, t)}
		}(t)
	}

	report := Report{}
	for range s.targets {
		o := <-results
		if !report.Set(o.id, o.res) {
			log.Warn("unknown_target", map[string]any{"provider": o.id}, nil)
		}
	}
	report.LastUpdated = s.now()

	log.TimedEvent("scrape_complete", start, map[string]any{
		"failures": report.Failures(),
	})
	return report
}

func (s *Scraper) capture(ctx context.Context, log *logging.Logger, t Target) ExtractResult {
	log = log.With("provider", t.ID)
	log.Info("capture_started", map[string]any{"name": t.Name, "url": t.URL})
	start := time.Now()

	var text string
	err := logging.NewRecoveryHandler("scrape").WrapError(func() error {
		var err error
		text, err = s.capturer.Capture(ctx, t.URL)
		return err
	})

	if s.metrics != nil {
		s.metrics.RecordScrape(t.ID, err == nil, time.Since(start))
	}

	if err != nil {
		log.Error("capture_failed", nil, err)
		return Failure(fmt.Errorf("%s: %w", t.Name, err))
	}

	log.TimedEvent("capture_complete", start, map[string]any{"chars": len([]rune(text))})
	return ExtractResult{
		RawText:   truncate(text, s.limit),
		Timestamp: s.now(),
	}
}
