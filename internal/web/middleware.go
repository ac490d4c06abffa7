package web

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/joss/pricelist/internal/logging"
)

func (s *Server) requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(logging.RequestIDHeader)
		ctx := logging.WithRequestID(c.Request.Context(), id)
		c.Request = c.Request.WithContext(ctx)
		c.Header(logging.RequestIDHeader, logging.GetRequestID(ctx))
		c.Next()
	}
}

func (s *Server) logRequests() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := c.Writer.Status()
		s.metrics.RecordHTTP(c.Request.Method, path, status, time.Since(start))

		extra := map[string]any{
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     status,
			"request_id": logging.GetRequestID(c.Request.Context()),
		}
		if status >= http.StatusInternalServerError {
			s.log.Warn("http_request", extra, nil)
			return
		}
		s.log.TimedEvent("http_request", start, extra)
	}
}

func (s *Server) recovered(c *gin.Context, rec any) {
	s.log.Error("panic_recovered", map[string]any{"path": c.Request.URL.Path}, fmt.Errorf("%v", rec))
	c.AbortWithStatus(http.StatusInternalServerError)
}

// allowReads lets other origins fetch the pricing document and health endpoints.
// Nothing here takes credentials or writes.
func allowReads() gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{http.MethodGet, http.MethodHead, http.MethodOptions},
		AllowHeaders:    []string{"Content-Type", logging.RequestIDHeader},
		ExposeHeaders:   []string{logging.RequestIDHeader},
		MaxAge:          12 * time.Hour,
	})
}
