// Package browser provides the page drivers used by the portal workflow:
// a chromedp-controlled Chrome for the interactive case-status search and a
// colly fetcher for static cause-list pages.
package browser

import (
	"time"
)

// Config holds configuration for the browser drivers.
type Config struct {
	UserAgent string
	// Headless hides the window. The CAPTCHA step needs a visible window,
	// so interactive searches run with Headless false.
	Headless        bool
	PageLoadTimeout time.Duration
	ElementTimeout  time.Duration
	// DisableImages skips image loading. It also hides the CAPTCHA, so
	// only the cause-list fetcher turns it on.
	DisableImages bool
	WindowWidth   int
	WindowHeight  int
	// ExecPath overrides Chrome discovery.
	ExecPath string
	// Stealth hides the most common automation markers from page scripts.
	Stealth bool
	// DebugScreenshots saves a screenshot to the temp dir when an action fails.
	DebugScreenshots bool
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		UserAgent:       defaultUserAgent,
		Headless:        false,
		PageLoadTimeout: 30 * time.Second,
		ElementTimeout:  10 * time.Second,
		WindowWidth:     1920,
		WindowHeight:    1080,
		Stealth:         true,
	}
}

// withDefaults fills zero values from DefaultConfig.
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.UserAgent == "" {
		c.UserAgent = d.UserAgent
	}
	if c.PageLoadTimeout <= 0 {
		c.PageLoadTimeout = d.PageLoadTimeout
	}
	if c.ElementTimeout <= 0 {
		c.ElementTimeout = d.ElementTimeout
	}
	if c.WindowWidth <= 0 || c.WindowHeight <= 0 {
		c.WindowWidth, c.WindowHeight = d.WindowWidth, d.WindowHeight
	}
	return c
}

// Chrome user agent for better compatibility
const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
