package scrape

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// DefaultUserAgent is sent on every page load.
const DefaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// Page load bounds.
const (
	NavigationTimeout = 30 * time.Second
	SelectorTimeout   = 10 * time.Second
)

// RodOptions configures the headless browser.
type RodOptions struct {
	Bin       string // Chrome binary; looked up when empty
	Headless  bool
	UserAgent string
}

// RodCapturer captures page text with a single shared Chrome instance.
type RodCapturer struct {
	launcher  *launcher.Launcher
	browser   *rod.Browser
	userAgent string
}

var _ Capturer = (*RodCapturer)(nil)

// NewRodCapturer launches and connects to the browser.
// A launch failure is the only error that stops a scrape run.
func NewRodCapturer(opts RodOptions) (*RodCapturer, error) {
	bin := opts.Bin
	if bin == "" {
		bin, _ = launcher.LookPath()
	}

	l := launcher.New().
		Bin(bin).
		Headless(opts.Headless).
		NoSandbox(true).
		Set("disable-setuid-sandbox")

	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("launch browser: %w", err)
	}

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		l.Kill()
		l.Cleanup()
		return nil, fmt.Errorf("connect to browser: %w", err)
	}

	ua := opts.UserAgent
	if ua == "" {
		ua = DefaultUserAgent
	}
	return &RodCapturer{launcher: l, browser: browser, userAgent: ua}, nil
}

// Capture opens a tab, loads url and returns the body's innerText.
// Each call uses its own tab so concurrent captures do not share navigation state.
func (c *RodCapturer) Capture(ctx context.Context, url string) (string, error) {
	page, err := c.browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return "", fmt.Errorf("open page: %w", err)
	}
	defer page.Close()

	if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{UserAgent: c.userAgent}); err != nil {
		return "", fmt.Errorf("set user agent: %w", err)
	}

	navCtx, cancelNav := context.WithTimeout(ctx, NavigationTimeout)
	defer cancelNav()
	nav := page.Context(navCtx)
	if err := nav.Navigate(url); err != nil {
		return "", timeoutErr("navigation", NavigationTimeout, err)
	}
	if err := nav.WaitLoad(); err != nil {
		return "", timeoutErr("navigation", NavigationTimeout, err)
	}

	selCtx, cancelSel := context.WithTimeout(ctx, SelectorTimeout)
	defer cancelSel()
	body, err := page.Context(selCtx).Element("body")
	if err != nil {
		return "", timeoutErr("waiting for selector `body`", SelectorTimeout, err)
	}

	text, err := body.Text()
	if err != nil {
		return "", fmt.Errorf("read text: %w", err)
	}
	return text, nil
}

// Close shuts the browser down and removes its temporary profile.
func (c *RodCapturer) Close() error {
	err := c.browser.Close()
	if err != nil {
		c.launcher.Kill()
	}
	c.launcher.Cleanup()
	return err
}

func timeoutErr(what string, d time.Duration, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s timeout of %s exceeded: %w", what, d, err)
	}
	return fmt.Errorf("%s failed: %w", what, err)
}
