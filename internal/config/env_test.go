package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad(t *testing.T) {
	Reset()
	defer Reset()

	t.Setenv("PRICELIST_PRICING", "http://localhost:9000/pricing.json")
	t.Setenv("PRICELIST_ADDR", ":9999")
	t.Setenv("PRICELIST_HEADLESS", "false")
	t.Setenv("PRICELIST_LOG_LEVEL", "DEBUG")
	t.Setenv("PRICELIST_VIEW", "Table")

	env := Load()

	assert.Equal(t, "http://localhost:9000/pricing.json", env.Pricing)
	assert.Equal(t, ":9999", env.Addr)
	assert.False(t, env.Headless)
	assert.Equal(t, "debug", env.LogLevel)
	assert.Equal(t, "table", env.View)
}

func TestLoadDefaults(t *testing.T) {
	Reset()
	defer Reset()

	for _, key := range []string{
		"PRICELIST_PRICING", "PRICELIST_ADDR", "PRICELIST_SCRAPE_OUT",
		"PRICELIST_LOG_LEVEL", "PRICELIST_HEADLESS", "PRICELIST_VIEW",
	} {
		t.Setenv(key, "")
	}

	env := Load()

	assert.Equal(t, DefaultPricing, env.Pricing)
	assert.Equal(t, DefaultAddr, env.Addr)
	assert.Equal(t, DefaultScrapeOut, env.ScrapeOut)
	assert.Equal(t, DefaultLogLevel, env.LogLevel)
	assert.Equal(t, DefaultView, env.View)
}

func TestLoadSingleton(t *testing.T) {
	Reset()
	defer Reset()

	assert.Same(t, Load(), Load())
}

func TestReset(t *testing.T) {
	defer Reset()

	t.Setenv("PRICELIST_ADDR", ":1111")
	Reset()
	assert.Equal(t, ":1111", Load().Addr)

	t.Setenv("PRICELIST_ADDR", ":2222")
	Reset()
	assert.Equal(t, ":2222", Load().Addr)
}
