package browser

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/chromedp"

	"github.com/jmylchreest/ecourts/internal/causelist"
	"github.com/jmylchreest/ecourts/internal/logger"
	"github.com/jmylchreest/ecourts/internal/portal"
)

var (
	_ portal.Browser    = (*Chrome)(nil)
	_ causelist.Fetcher = (*Chrome)(nil)
)

// Chrome drives a single long-lived tab in a chromedp-controlled browser.
// Methods must not be called concurrently.
type Chrome struct {
	config Config
	log    *slog.Logger

	tabCtx      context.Context
	cancelTab   context.CancelFunc
	cancelAlloc context.CancelFunc

	closeOnce sync.Once
	closeErr  error
}

// NewChrome launches a browser and opens its tab. The caller owns the
// returned Chrome and must Close it.
func NewChrome(cfg Config, log *slog.Logger) (*Chrome, error) {
	cfg = cfg.withDefaults()
	if log == nil {
		log = logger.Component("browser")
	}

	execPath := cfg.ExecPath
	if execPath == "" {
		execPath = FindChromePath(log)
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.Background(), allocatorOptions(cfg, execPath)...)
	tabCtx, cancelTab := chromedp.NewContext(allocCtx,
		chromedp.WithLogf(func(format string, args ...interface{}) {
			log.Debug("chromedp", "msg", fmt.Sprintf(format, args...))
		}),
	)

	// The first Run on the tab context starts the browser; it must not use a
	// derived context or the browser would die with it.
	var start []chromedp.Action
	if cfg.Stealth {
		start = append(start, injectStealthScript())
	}
	if err := chromedp.Run(tabCtx, start...); err != nil {
		cancelTab()
		cancelAlloc()
		return nil, fmt.Errorf("starting browser: %w", err)
	}

	log.Info("browser initialized", "headless", cfg.Headless, "stealth", cfg.Stealth)

	return &Chrome{
		config:      cfg,
		log:         log,
		tabCtx:      tabCtx,
		cancelTab:   cancelTab,
		cancelAlloc: cancelAlloc,
	}, nil
}

// run executes actions on the tab bounded by timeout and by ctx.
// An expired timeout is reported as portal.ErrTimeout and a cancelled ctx
// as ctx.Err().
func (c *Chrome) run(ctx context.Context, timeout time.Duration, actions ...chromedp.Action) error {
	runCtx, cancel := context.WithTimeout(c.tabCtx, timeout)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	err := chromedp.Run(runCtx, actions...)
	if err == nil {
		return nil
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	c.captureScreenshot()
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(runCtx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w after %s: %v", portal.ErrTimeout, timeout, err)
	}
	return fmt.Errorf("browser automation failed: %w", err)
}

// find waits up to ElementTimeout for selector and returns its first node.
func (c *Chrome) find(ctx context.Context, selector string) (*cdp.Node, error) {
	var nodes []*cdp.Node
	err := c.run(ctx, c.config.ElementTimeout, chromedp.Nodes(selector, &nodes, chromedp.ByQuery))
	if errors.Is(err, portal.ErrTimeout) {
		return nil, fmt.Errorf("%s: %w", selector, portal.ErrElementNotFound)
	}
	if err != nil {
		return nil, err
	}
	if len(nodes) == 0 {
		return nil, fmt.Errorf("%s: %w", selector, portal.ErrElementNotFound)
	}
	return nodes[0], nil
}

// Navigate loads url and waits for the document body.
func (c *Chrome) Navigate(ctx context.Context, url string) error {
	c.log.Debug("navigating", "url", url)
	return c.run(ctx, c.config.PageLoadTimeout,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
	)
}

// Click clicks the first element matching selector.
func (c *Chrome) Click(ctx context.Context, selector string) error {
	node, err := c.find(ctx, selector)
	if err != nil {
		return err
	}
	return c.run(ctx, c.config.ElementTimeout, chromedp.MouseClickNode(node))
}

// SetValue clears the input matching selector and types value into it.
func (c *Chrome) SetValue(ctx context.Context, selector, value string) error {
	node, err := c.find(ctx, selector)
	if err != nil {
		return err
	}
	ids := []cdp.NodeID{node.NodeID}
	return c.run(ctx, c.config.ElementTimeout,
		chromedp.Clear(ids, chromedp.ByNodeID),
		chromedp.SendKeys(ids, value, chromedp.ByNodeID),
	)
}

// WaitFor blocks until selector is ready or timeout elapses.
func (c *Chrome) WaitFor(ctx context.Context, selector string, timeout time.Duration) error {
	return c.run(ctx, timeout, chromedp.WaitReady(selector, chromedp.ByQuery))
}

// HTML returns the outer HTML of the current document.
func (c *Chrome) HTML(ctx context.Context) (string, error) {
	var html string
	if err := c.run(ctx, c.config.PageLoadTimeout, chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		return "", err
	}
	return html, nil
}

// Fetch navigates to url and returns the rendered page.
func (c *Chrome) Fetch(ctx context.Context, url string) (string, error) {
	if err := c.Navigate(ctx, url); err != nil {
		return "", err
	}
	return c.HTML(ctx)
}

// Close shuts the browser down. Only the first call does any work.
func (c *Chrome) Close() error {
	c.closeOnce.Do(func() {
		c.closeErr = chromedp.Cancel(c.tabCtx)
		c.cancelTab()
		c.cancelAlloc()
		if c.closeErr != nil && errors.Is(c.closeErr, context.Canceled) {
			c.closeErr = nil
		}
	})
	return c.closeErr
}

// captureScreenshot saves a debug screenshot when enabled.
func (c *Chrome) captureScreenshot() {
	if !c.config.DebugScreenshots {
		return
	}

	var shot []byte
	ctx, cancel := context.WithTimeout(c.tabCtx, 5*time.Second)
	defer cancel()
	if err := chromedp.Run(ctx, chromedp.CaptureScreenshot(&shot)); err != nil {
		c.log.Debug("screenshot capture failed", "error", err)
		return
	}

	path := filepath.Join(os.TempDir(), fmt.Sprintf("ecourts-debug-%d.png", time.Now().UnixNano()))
	if err := os.WriteFile(path, shot, 0644); err != nil {
		c.log.Debug("failed to write screenshot", "error", err)
		return
	}
	c.log.Info("debug screenshot saved", "path", path)
}
