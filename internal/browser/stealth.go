package browser

import (
	"context"
	"fmt"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// stealthScript masks the automation markers the portal's scripts can see.
const stealthScript = `
(function() {
    'use strict';
    Object.defineProperty(navigator, 'webdriver', { get: () => undefined, configurable: true });
    delete Object.getPrototypeOf(navigator).webdriver;
    Object.defineProperty(navigator, 'languages', { get: () => ['en-IN', 'en-GB', 'en'], configurable: true });
    if (!window.chrome) {
        window.chrome = { runtime: {} };
    }
})();
`

// stealthFlags are command-line switches that drop automation markers.
// enable-automation is on in chromedp's defaults and must be turned off here.
func stealthFlags() map[string]any {
	return map[string]any{
		"disable-blink-features": "AutomationControlled",
		"enable-automation":      false,
		"disable-infobars":       true,
		"lang":                   "en-IN,en",
	}
}

// allocatorOptions builds the Chrome flags for cfg.
func allocatorOptions(cfg Config, execPath string) []chromedp.ExecAllocatorOption {
	opts := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)
	opts = append(opts,
		chromedp.Flag("headless", cfg.Headless),
		chromedp.Flag("disable-gpu", cfg.Headless),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.WindowSize(cfg.WindowWidth, cfg.WindowHeight),
		chromedp.UserAgent(cfg.UserAgent),
	)

	if cfg.Stealth {
		for name, value := range stealthFlags() {
			opts = append(opts, chromedp.Flag(name, value))
		}
	}

	if cfg.DisableImages {
		opts = append(opts, chromedp.Flag("blink-settings", "imagesEnabled=false"))
	}

	if execPath != "" {
		opts = append(opts, chromedp.ExecPath(execPath))
	}
	return opts
}

// injectStealthScript runs stealthScript before any page script.
func injectStealthScript() chromedp.Action {
	return chromedp.ActionFunc(func(ctx context.Context) error {
		if _, err := page.AddScriptToEvaluateOnNewDocument(stealthScript).Do(ctx); err != nil {
			return fmt.Errorf("injecting stealth script: %w", err)
		}
		return nil
	})
}
