// Package portal drives one case-status search against the eCourts portal.
//
// The package depends only on the Browser and Confirmer capabilities, so the
// workflow can run against chromedp in production and fakes in tests.
package portal

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"
)

// Error types for distinguishing browser failures.
// Check with errors.Is(err, portal.ErrElementNotFound).
var (
	// ErrElementNotFound indicates an expected control is missing from the page.
	ErrElementNotFound = errors.New("element not found")
	// ErrTimeout indicates a bounded wait expired.
	ErrTimeout = errors.New("timed out")
)

// Browser is the UI automation capability the search workflow needs.
// Implementations wrap missing controls with ErrElementNotFound and expired
// waits with ErrTimeout, and return ctx.Err() once ctx is cancelled.
type Browser interface {
	// Navigate loads url in the current tab.
	Navigate(ctx context.Context, url string) error

	// Click activates the first element matching selector.
	Click(ctx context.Context, selector string) error

	// SetValue clears the input matching selector and types value into it.
	SetValue(ctx context.Context, selector, value string) error

	// WaitFor blocks until selector is present or timeout elapses.
	WaitFor(ctx context.Context, selector string, timeout time.Duration) error

	// HTML returns the current rendered markup.
	HTML(ctx context.Context) (string, error)

	// Close releases the browser.
	Close() error
}

// Confirmer blocks until a human signals that the CAPTCHA was solved and
// the search form submitted. It must not return nil on its own accord.
type Confirmer interface {
	Confirm(ctx context.Context) error
}

// ConfirmFunc adapts a function to the Confirmer interface.
type ConfirmFunc func(ctx context.Context) error

// Confirm calls f(ctx).
func (f ConfirmFunc) Confirm(ctx context.Context) error {
	return f(ctx)
}

// DefaultPrompt is shown by PromptConfirmer.
const DefaultPrompt = "Press Enter after you've solved the CAPTCHA and clicked 'Go'..."

// PromptConfirmer waits for a line on an input stream, typically stdin.
type PromptConfirmer struct {
	in     io.Reader
	out    io.Writer
	prompt string

	start   sync.Once
	lines   chan struct{}
	eof     chan struct{}
	readErr error
}

// NewPromptConfirmer creates a confirmer that prints DefaultPrompt to out
// and waits for a newline on in.
func NewPromptConfirmer(in io.Reader, out io.Writer) *PromptConfirmer {
	return &PromptConfirmer{
		in:     in,
		out:    out,
		prompt: DefaultPrompt,
		lines:  make(chan struct{}),
		eof:    make(chan struct{}),
	}
}

// Confirm prints the prompt and waits for a line or for ctx to end.
// Once the input is exhausted every call fails with the read error.
func (p *PromptConfirmer) Confirm(ctx context.Context) error {
	// A single reader outlives cancelled waits so a later Confirm does not
	// race a stale read.
	p.start.Do(func() {
		go p.read()
	})

	if _, err := fmt.Fprintln(p.out, p.prompt); err != nil {
		return err
	}

	select {
	case <-p.lines:
		return nil
	case <-p.eof:
		return fmt.Errorf("reading confirmation: %w", p.readErr)
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *PromptConfirmer) read() {
	r := bufio.NewReader(p.in)
	for {
		if _, err := r.ReadString('\n'); err != nil {
			p.readErr = err
			close(p.eof)
			return
		}
		p.lines <- struct{}{}
	}
}
