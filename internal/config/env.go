// Package config provides centralized configuration management.
// Values come from PRICELIST_* environment variables, with flags applied on top by cmd.
package config

import (
	"strings"
	"sync"

	"github.com/spf13/viper"
)

// Env holds all pricelist settings.
type Env struct {
	// Pricing is the pricing document path or URL (PRICELIST_PRICING)
	Pricing string

	// Addr is the listen address for serve (PRICELIST_ADDR)
	Addr string

	// ScrapeOut is the scraper output file (PRICELIST_SCRAPE_OUT)
	ScrapeOut string

	// LogLevel is debug, info, warn or error (PRICELIST_LOG_LEVEL)
	LogLevel string

	// LogFile receives logs instead of stderr when set (PRICELIST_LOG_FILE).
	// The interactive view discards logs unless this is set.
	LogFile string

	// Headless runs the scraper browser without a window (PRICELIST_HEADLESS)
	Headless bool

	// BrowserBin overrides the Chrome binary used by the scraper (PRICELIST_BROWSER_BIN)
	BrowserBin string

	// View is the default presentation mode, cards or table (PRICELIST_VIEW)
	View string
}

// Defaults
const (
	DefaultPricing   = "pricing.json"
	DefaultAddr      = ":8080"
	DefaultScrapeOut = "raw-pricing-data.json"
	DefaultLogLevel  = "info"
	DefaultView      = "cards"
)

var (
	env     *Env
	envOnce sync.Once
)

// Load returns the singleton configuration.
// Thread-safe, reads the environment once on first call.
func Load() *Env {
	envOnce.Do(func() {
		v := newViper()
		env = &Env{
			Pricing:    v.GetString("pricing"),
			Addr:       v.GetString("addr"),
			ScrapeOut:  v.GetString("scrape_out"),
			LogLevel:   strings.ToLower(v.GetString("log_level")),
			LogFile:    v.GetString("log_file"),
			Headless:   v.GetBool("headless"),
			BrowserBin: v.GetString("browser_bin"),
			View:       strings.ToLower(v.GetString("view")),
		}
	})
	return env
}

// Reset clears the cached configuration (for testing).
func Reset() {
	envOnce = sync.Once{}
	env = nil
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("PRICELIST")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	v.SetDefault("pricing", DefaultPricing)
	v.SetDefault("addr", DefaultAddr)
	v.SetDefault("scrape_out", DefaultScrapeOut)
	v.SetDefault("log_level", DefaultLogLevel)
	v.SetDefault("log_file", "")
	v.SetDefault("headless", true)
	v.SetDefault("browser_bin", "")
	v.SetDefault("view", DefaultView)
	return v
}
