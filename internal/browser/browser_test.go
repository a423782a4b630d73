package browser

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/jmylchreest/ecourts/internal/logger"
	"github.com/jmylchreest/ecourts/internal/portal"
)

const formPage = `<html><body>
<input type="radio" id="radCNR" name="mode">
<input type="text" id="cnr_number">
<button id="go" onclick="document.body.insertAdjacentHTML('beforeend', '<table id=res><tr><td>Case Number</td><td>' + document.getElementById('cnr_number').value + '</td></tr></table>')">Go</button>
</body></html>`

// --- Config Tests ---

func TestConfig_WithDefaults(t *testing.T) {
	got := Config{Headless: true, ElementTimeout: 3 * time.Second}.withDefaults()

	if !got.Headless {
		t.Error("explicit Headless should be kept")
	}
	if got.ElementTimeout != 3*time.Second {
		t.Errorf("ElementTimeout = %v, want 3s", got.ElementTimeout)
	}
	if got.PageLoadTimeout != 30*time.Second {
		t.Errorf("PageLoadTimeout = %v, want 30s", got.PageLoadTimeout)
	}
	if got.WindowWidth != 1920 || got.WindowHeight != 1080 {
		t.Errorf("window = %dx%d", got.WindowWidth, got.WindowHeight)
	}
	if got.UserAgent == "" {
		t.Error("UserAgent should default")
	}
}

func TestDefaultConfig_Headful(t *testing.T) {
	if DefaultConfig().Headless {
		t.Error("interactive searches need a visible window by default")
	}
}

func TestStealthFlags_DisableAutomationSwitch(t *testing.T) {
	flags := stealthFlags()

	if v, ok := flags["enable-automation"]; !ok || v != false {
		t.Errorf("enable-automation = %v (set=%v), want false", v, ok)
	}
	if _, ok := flags["excludeSwitches"]; ok {
		t.Error("excludeSwitches is not a Chrome command-line switch")
	}
	if flags["disable-blink-features"] != "AutomationControlled" {
		t.Errorf("disable-blink-features = %v", flags["disable-blink-features"])
	}
}

// --- Static Tests ---

func TestStatic_Fetch(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.UserAgent()
		if r.URL.Query().Get("date") != "18-10-2026" {
			http.Error(w, "missing date", http.StatusBadRequest)
			return
		}
		_, _ = w.Write([]byte("<table><tr><th>Case</th></tr></table>"))
	}))
	defer srv.Close()

	s := NewStatic(Config{UserAgent: "ecourts-test"}, logger.Discard())
	body, err := s.Fetch(context.Background(), srv.URL+"/?date=18-10-2026")
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if !strings.Contains(body, "<th>Case</th>") {
		t.Errorf("unexpected body: %q", body)
	}
	if gotUA != "ecourts-test" {
		t.Errorf("User-Agent = %q", gotUA)
	}
}

func TestStatic_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "down", http.StatusInternalServerError)
	}))
	defer srv.Close()

	s := NewStatic(Config{}, logger.Discard())
	if _, err := s.Fetch(context.Background(), srv.URL); err == nil {
		t.Fatal("expected an error for a 500 response")
	} else if !strings.Contains(err.Error(), "status 500") {
		t.Errorf("error should carry the status: %v", err)
	}
}

func TestStatic_Cancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := NewStatic(Config{}, logger.Discard())
	if _, err := s.Fetch(ctx, srv.URL); !errors.Is(err, context.Canceled) {
		t.Errorf("Fetch() error = %v, want context.Canceled", err)
	}
}

// --- Chrome Tests ---

// newTestChrome starts a headless browser or skips when none is available.
func newTestChrome(t *testing.T) *Chrome {
	t.Helper()
	if testing.Short() || os.Getenv("ECOURTS_BROWSER_TESTS") == "" {
		t.Skip("set ECOURTS_BROWSER_TESTS=1 to run browser tests")
	}

	cfg := DefaultConfig()
	cfg.Headless = true
	cfg.ElementTimeout = 2 * time.Second
	c, err := NewChrome(cfg, logger.Discard())
	if err != nil {
		t.Skipf("browser unavailable: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestChrome_FormFlow(t *testing.T) {
	c := newTestChrome(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(formPage))
	}))
	defer srv.Close()

	ctx := context.Background()
	if err := c.Navigate(ctx, srv.URL); err != nil {
		t.Fatalf("Navigate() error = %v", err)
	}
	if err := c.Click(ctx, "#radCNR"); err != nil {
		t.Fatalf("Click() error = %v", err)
	}
	if err := c.SetValue(ctx, "#cnr_number", "MHAU019999992015"); err != nil {
		t.Fatalf("SetValue() error = %v", err)
	}
	if err := c.Click(ctx, "#go"); err != nil {
		t.Fatalf("Click(#go) error = %v", err)
	}
	if err := c.WaitFor(ctx, "#res", 2*time.Second); err != nil {
		t.Fatalf("WaitFor() error = %v", err)
	}

	html, err := c.HTML(ctx)
	if err != nil {
		t.Fatalf("HTML() error = %v", err)
	}
	if !strings.Contains(html, "MHAU019999992015") {
		t.Errorf("typed value missing from results: %s", html)
	}
}

func TestChrome_MissingElement(t *testing.T) {
	c := newTestChrome(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("<html><body></body></html>"))
	}))
	defer srv.Close()

	ctx := context.Background()
	if err := c.Navigate(ctx, srv.URL); err != nil {
		t.Fatalf("Navigate() error = %v", err)
	}
	err := c.Click(ctx, "#radCNR")
	if !errors.Is(err, portal.ErrElementNotFound) {
		t.Fatalf("Click() error = %v, want ErrElementNotFound", err)
	}
	if !strings.Contains(err.Error(), "#radCNR") {
		t.Errorf("error should name the selector: %v", err)
	}

	if err := c.WaitFor(ctx, "table", 500*time.Millisecond); !errors.Is(err, portal.ErrTimeout) {
		t.Errorf("WaitFor() error = %v, want ErrTimeout", err)
	}
}

func TestChrome_CloseIdempotent(t *testing.T) {
	c := newTestChrome(t)
	for i := 0; i < 2; i++ {
		if err := c.Close(); err != nil {
			t.Errorf("Close() #%d error = %v", i, err)
		}
	}
}
