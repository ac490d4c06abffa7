// Package selftest provides health checking for the pricelist runtime.
package selftest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/go-rod/rod/lib/launcher"

	"github.com/joss/pricelist/internal/pricing"
)

// Component states
const (
	StatusOK       = "ok"
	StatusDegraded = "degraded"
	StatusError    = "error"
)

// ComponentStatus represents health of a single component
type ComponentStatus struct {
	Status  string `json:"status"` // ok, degraded, error
	Latency int64  `json:"latency_ms,omitempty"`
	Detail  string `json:"detail,omitempty"`
	Error   string `json:"error,omitempty"`
}

// HealthStatus represents overall health
type HealthStatus struct {
	Status     string                     `json:"status"` // healthy, degraded, unhealthy
	Uptime     string                     `json:"uptime"`
	Components map[string]ComponentStatus `json:"components"`
	LastError  string                     `json:"last_error,omitempty"`
	Timestamp  string                     `json:"timestamp"`
}

// ComponentCheck probes one component.
type ComponentCheck func(context.Context) ComponentStatus

var (
	startTime = time.Now()
	lastError string
	errorMu   sync.RWMutex
)

// SetLastError records the most recent error for health reporting
func SetLastError(err error) {
	if err == nil {
		return
	}
	errorMu.Lock()
	defer errorMu.Unlock()
	lastError = err.Error()
}

// GetLastError returns the most recent error
func GetLastError() string {
	errorMu.RLock()
	defer errorMu.RUnlock()
	return lastError
}

// ClearLastError clears the last error
func ClearLastError() {
	errorMu.Lock()
	defer errorMu.Unlock()
	lastError = ""
}

// CheckHealth runs every check concurrently and folds them into one status.
func CheckHealth(ctx context.Context, checks map[string]ComponentCheck) *HealthStatus {
	status := &HealthStatus{
		Status:     "healthy",
		Uptime:     formatUptime(time.Since(startTime)),
		Components: make(map[string]ComponentStatus, len(checks)),
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
	}

	var wg sync.WaitGroup
	var mu sync.Mutex

	for name, check := range checks {
		wg.Add(1)
		go func() {
			defer wg.Done()
			result := check(ctx)
			mu.Lock()
			defer mu.Unlock()
			status.Components[name] = result
			if result.Status == StatusError {
				status.Status = "unhealthy"
			} else if result.Status == StatusDegraded && status.Status == "healthy" {
				status.Status = "degraded"
			}
		}()
	}
	wg.Wait()

	if le := GetLastError(); le != "" {
		status.LastError = le
	}
	return status
}

// PricingCheck loads source. Validation issues degrade, a failed load is an error.
func PricingCheck(loader *pricing.Loader, source string) ComponentCheck {
	return func(ctx context.Context) ComponentStatus {
		start := time.Now()

		ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()

		doc, err := loader.Load(ctx, source)
		if err != nil {
			return ComponentStatus{
				Status:  StatusError,
				Latency: time.Since(start).Milliseconds(),
				Error:   err.Error(),
			}
		}

		cs := ComponentStatus{
			Status:  StatusOK,
			Latency: time.Since(start).Milliseconds(),
			Detail:  fmt.Sprintf("%d providers, %d models", len(doc.Providers), doc.ModelCount()),
		}
		if issues := pricing.Validate(doc); len(issues) > 0 {
			cs.Status = StatusDegraded
			cs.Error = fmt.Sprintf("%d validation issue(s), first: %s", len(issues), issues[0])
		}
		return cs
	}
}

// BrowserCheck looks for the Chrome binary the scraper would launch.
// Only scrape needs it, so a missing browser degrades instead of failing.
func BrowserCheck(bin string) ComponentCheck {
	return func(ctx context.Context) ComponentStatus {
		start := time.Now()

		if bin != "" {
			if _, err := os.Stat(bin); err != nil {
				return ComponentStatus{
					Status:  StatusDegraded,
					Latency: time.Since(start).Milliseconds(),
					Error:   fmt.Sprintf("browser %s: %v", bin, err),
				}
			}
			return ComponentStatus{Status: StatusOK, Latency: time.Since(start).Milliseconds(), Detail: bin}
		}

		found, ok := launcher.LookPath()
		if !ok {
			return ComponentStatus{
				Status:  StatusDegraded,
				Latency: time.Since(start).Milliseconds(),
				Error:   "no Chrome or Chromium found (set PRICELIST_BROWSER_BIN)",
			}
		}
		return ComponentStatus{Status: StatusOK, Latency: time.Since(start).Milliseconds(), Detail: found}
	}
}

func formatUptime(d time.Duration) string {
	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60

	if days > 0 {
		return fmt.Sprintf("%dd%dh%dm", days, hours, minutes)
	}
	if hours > 0 {
		return fmt.Sprintf("%dh%dm%ds", hours, minutes, seconds)
	}
	if minutes > 0 {
		return fmt.Sprintf("%dm%ds", minutes, seconds)
	}
	return fmt.Sprintf("%ds", seconds)
}

// HealthHandler serves the detailed health report; unhealthy is a 503.
func HealthHandler(checks map[string]ComponentCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
		defer cancel()

		status := CheckHealth(ctx, checks)

		w.Header().Set("Content-Type", "application/json")
		if status.Status == "unhealthy" {
			w.WriteHeader(http.StatusServiceUnavailable)
		} else {
			w.WriteHeader(http.StatusOK)
		}
		_ = json.NewEncoder(w).Encode(status)
	}
}
