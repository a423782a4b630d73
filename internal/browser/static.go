package browser

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gocolly/colly/v2"

	"github.com/jmylchreest/ecourts/internal/causelist"
	"github.com/jmylchreest/ecourts/internal/logger"
)

var _ causelist.Fetcher = (*Static)(nil)

// Static fetches pages that need no script execution, such as published
// cause lists, using colly.
type Static struct {
	config Config
	log    *slog.Logger
}

// NewStatic creates a static fetcher.
func NewStatic(cfg Config, log *slog.Logger) *Static {
	if log == nil {
		log = logger.Component("browser")
	}
	return &Static{config: cfg.withDefaults(), log: log}
}

// Fetch retrieves url and returns the response body.
func (s *Static) Fetch(ctx context.Context, url string) (string, error) {
	// Create a new collector for each request
	c := colly.NewCollector(
		colly.UserAgent(s.config.UserAgent),
		colly.StdlibContext(ctx),
	)
	c.SetRequestTimeout(s.config.PageLoadTimeout)

	var (
		body     string
		fetchErr error
	)
	c.OnResponse(func(r *colly.Response) {
		body = string(r.Body)
	})
	c.OnError(func(r *colly.Response, err error) {
		status := 0
		if r != nil {
			status = r.StatusCode
		}
		fetchErr = fmt.Errorf("fetch error (status %d): %w", status, err)
	})

	s.log.Debug("static fetch", "url", url)
	err := c.Visit(url)
	if ctx.Err() != nil {
		return "", ctx.Err()
	}
	// OnError has the status code; Visit's error for the same failure does not.
	if fetchErr != nil {
		return "", fetchErr
	}
	if err != nil {
		return "", fmt.Errorf("failed to visit URL: %w", err)
	}

	s.log.Debug("static fetch complete", "url", url, "bytes", len(body))
	return body, nil
}
