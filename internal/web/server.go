// Package web serves pricing.json and an HTML price list over HTTP.
package web

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/joss/pricelist/internal/logging"
	"github.com/joss/pricelist/internal/metrics"
	"github.com/joss/pricelist/internal/pricing"
	"github.com/joss/pricelist/internal/selftest"
	"github.com/joss/pricelist/internal/view"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// Options configures the server.
type Options struct {
	Addr string
	// Pricing is the document served at /pricing.json and rendered at /.
	Pricing string
	// Mode is the presentation used when the request does not pick one.
	Mode view.Mode
}

// Server is the pricelist HTTP server.
type Server struct {
	opts    Options
	engine  *gin.Engine
	loader  *pricing.Loader
	metrics *metrics.Metrics
	log     *logging.Logger
}

// New builds the router.
func New(opts Options, loader *pricing.Loader, m *metrics.Metrics) *Server {
	s := &Server{
		opts:    opts,
		loader:  loader,
		metrics: m,
		log:     logging.New("web"),
	}

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(s.requestID(), s.logRequests(), gin.CustomRecovery(s.recovered), allowReads())
	r.SetHTMLTemplate(template.Must(template.ParseFS(templateFS, "templates/*.tmpl")))

	r.GET("/health-check", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/health", gin.WrapF(selftest.HealthHandler(map[string]selftest.ComponentCheck{
		"pricing": selftest.PricingCheck(loader, opts.Pricing),
	})))
	r.GET("/metrics", gin.WrapH(m.Handler()))
	r.GET("/pricing.json", s.pricingFile)
	r.GET("/", s.index)

	s.engine = r
	return s
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.opts.Addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("server_listening", map[string]any{"addr": s.opts.Addr})
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.log.Info("server_shutdown", nil)
	return srv.Shutdown(shutdownCtx)
}

func (s *Server) pricingFile(c *gin.Context) {
	if pricing.IsURL(s.opts.Pricing) {
		c.Redirect(http.StatusFound, s.opts.Pricing)
		return
	}
	c.Header("Cache-Control", "no-cache")
	c.File(s.opts.Pricing)
}

func (s *Server) index(c *gin.Context) {
	mode := s.opts.Mode
	if v := c.Query("view"); v != "" {
		m, err := view.ParseMode(v)
		if err != nil {
			c.String(http.StatusBadRequest, err.Error())
			return
		}
		mode = m
	}

	state, err := s.state(c.Request.Context(), mode)
	if err != nil {
		s.metrics.RecordLoadFailure()
	} else {
		var bad error
		state, bad = applyQuery(state, c.Request.URL.Query())
		if bad != nil {
			c.String(http.StatusBadRequest, bad.Error())
			return
		}
	}

	page := newPage(view.Render(state), c.Request.URL.Query())
	s.metrics.RecordRender(string(mode), page.outcome())
	c.HTML(http.StatusOK, "index.html.tmpl", page)
}

func (s *Server) state(ctx context.Context, mode view.Mode) (view.State, error) {
	doc, err := s.loader.Load(ctx, s.opts.Pricing)
	if err != nil {
		selftest.SetLastError(err)
		return view.FailedState(err, mode), err
	}
	selftest.ClearLastError()
	return view.NewState(doc, mode), nil
}
