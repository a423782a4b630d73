package portal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/jmylchreest/ecourts/internal/causelist"
	"github.com/jmylchreest/ecourts/internal/extract"
	"github.com/jmylchreest/ecourts/internal/logger"
	"github.com/jmylchreest/ecourts/internal/model"
	"github.com/jmylchreest/ecourts/internal/validate"
)

// Portal endpoints.
const (
	BaseURL       = "https://services.ecourts.gov.in/ecourtindia_v6/"
	CaseStatusURL = BaseURL + "?p=casestatus/index"
	CauseListURL  = BaseURL + "?p=cause_list/index"
)

// Outcome messages shared with callers that inspect results.
const (
	MsgTimeout          = "Request timed out"
	MsgTimeoutDetail    = "The server took too long to respond"
	MsgElementsMissing  = "Failed to locate search elements"
	MsgNotFound         = "Case not found"
	MsgNotFoundDetail   = "No case data found for this identifier"
	MsgUnexpected       = "An unexpected error occurred"
	MsgCancelled        = "Search cancelled"
	MsgDescriptorSearch = "Search by case details is not yet implemented"
)

// Config holds page locations, locators and wait bounds for a search.
type Config struct {
	CaseStatusURL      string
	SearchModeSelector string
	IdentifierSelector string
	ResultsSelector    string

	// SettleDelay follows page load so client-side rendering can finish.
	SettleDelay time.Duration
	// ModeSelectDelay follows activating the CNR search mode.
	ModeSelectDelay time.Duration
	// ResultsTimeout bounds the wait for the results container after the
	// human has submitted the form.
	ResultsTimeout time.Duration
}

// DefaultConfig returns the locators of the live portal.
func DefaultConfig() Config {
	return Config{
		CaseStatusURL:      CaseStatusURL,
		SearchModeSelector: "#radCNR",
		IdentifierSelector: "#cnr_number",
		ResultsSelector:    "table",
		SettleDelay:        2 * time.Second,
		ModeSelectDelay:    time.Second,
		ResultsTimeout:     15 * time.Second,
	}
}

// Session owns one browser and runs searches on it one at a time.
// It is not safe for concurrent searches; use one Session per search stream.
type Session struct {
	browser   Browser
	confirmer Confirmer
	resolver  causelist.Resolver
	extractor *extract.Extractor
	config    Config
	log       *slog.Logger
	now       func() time.Time

	state     State
	closeOnce sync.Once
	closeErr  error
}

// Option configures a Session.
type Option func(*Session)

// WithConfig replaces DefaultConfig.
func WithConfig(cfg Config) Option {
	return func(s *Session) {
		s.config = cfg
	}
}

// WithConfirmer sets the CAPTCHA confirmation source. The default prompts on stdin.
func WithConfirmer(c Confirmer) Option {
	return func(s *Session) {
		s.confirmer = c
	}
}

// WithResolver sets the listing resolver. The default is causelist.Stub.
func WithResolver(r causelist.Resolver) Option {
	return func(s *Session) {
		s.resolver = r
	}
}

// WithLogger sets the diagnostics sink.
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) {
		s.log = l
	}
}

// WithClock sets the time source used to pick today and tomorrow.
func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		s.now = now
	}
}

// NewSession takes ownership of b. Close the session to release it.
func NewSession(b Browser, opts ...Option) *Session {
	s := &Session{
		browser: b,
		config:  DefaultConfig(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = logger.Component("portal")
	}
	if s.confirmer == nil {
		s.confirmer = NewPromptConfirmer(os.Stdin, os.Stderr)
	}
	if s.resolver == nil {
		s.resolver = causelist.NewStub(s.log)
	}
	s.extractor = extract.New(s.log)
	return s
}

// State returns the state the last search ended in.
func (s *Session) State() State {
	return s.state
}

// SearchByIdentifier looks up a case by CNR. When checkListing is set it
// also consults today's and then tomorrow's cause list. It never returns nil
// and never panics; every failure is reported in the outcome.
func (s *Session) SearchByIdentifier(ctx context.Context, cnr string, checkListing bool) (out *model.SearchOutcome) {
	s.enter(StateInit)
	log := s.log.With("cnr", cnr)
	log.Info("searching for case")

	if ok, msg := validate.Identifier(cnr); !ok {
		log.Error("invalid CNR", "reason", msg)
		return s.fail(model.KindValidation, msg, "Invalid identifier")
	}
	cnr = validate.NormalizeIdentifier(cnr)
	s.enter(StateValidated)

	defer func() {
		if r := recover(); r != nil {
			log.Error("unexpected error", "panic", r)
			out = s.fail(model.KindUnexpected, MsgUnexpected, fmt.Sprint(r))
		}
	}()

	rec, err := s.lookup(ctx, log, cnr)
	if err != nil {
		return s.classify(log, err)
	}
	if rec == nil {
		log.Warn("no case data on results page")
		return s.fail(model.KindNotFound, MsgNotFound, MsgNotFoundDetail)
	}
	if rec.CNR == "" {
		rec.CNR = cnr
	}
	s.enter(StateExtracted)
	log.Info("case found", "case_number", rec.CaseNumber)

	var listing *model.ListingRecord
	if checkListing {
		log.Info("checking case listing status")
		listing, err = causelist.FirstListed(ctx, s.resolver, rec, s.now(), log)
		if err != nil {
			if ctx.Err() != nil {
				return s.classify(log, ctx.Err())
			}
			log.Error("error checking case listing", "error", err)
			listing = nil
		}
		s.enter(StateListingResolved)
	}

	s.enter(StateDone)
	return model.Found(rec, listing)
}

// lookup runs the browser steps up to extraction.
func (s *Session) lookup(ctx context.Context, log *slog.Logger, cnr string) (*model.CaseRecord, error) {
	if err := s.browser.Navigate(ctx, s.config.CaseStatusURL); err != nil {
		return nil, fmt.Errorf("loading case status page: %w", err)
	}
	if err := sleep(ctx, s.config.SettleDelay); err != nil {
		return nil, err
	}
	s.enter(StatePageLoaded)
	log.Info("loaded case status page")

	if err := s.browser.Click(ctx, s.config.SearchModeSelector); err != nil {
		return nil, fmt.Errorf("selecting CNR search: %w", err)
	}
	if err := sleep(ctx, s.config.ModeSelectDelay); err != nil {
		return nil, err
	}
	s.enter(StateSearchModeSelected)
	log.Info("selected CNR search option")

	if err := s.browser.SetValue(ctx, s.config.IdentifierSelector, cnr); err != nil {
		return nil, fmt.Errorf("entering CNR: %w", err)
	}
	s.enter(StateIdentifierEntered)
	log.Info("entered CNR number")

	s.enter(StateAwaitingHumanCaptcha)
	log.Warn("CAPTCHA detected - manual intervention required")
	log.Info("solve the CAPTCHA in the browser window and submit the form")
	if err := s.confirmer.Confirm(ctx); err != nil {
		return nil, fmt.Errorf("waiting for CAPTCHA confirmation: %w", err)
	}

	if err := s.browser.WaitFor(ctx, s.config.ResultsSelector, s.config.ResultsTimeout); err != nil {
		return nil, fmt.Errorf("waiting for results: %w", err)
	}
	s.enter(StateResultsLoaded)
	log.Info("results page loaded")

	html, err := s.browser.HTML(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading results page: %w", err)
	}
	return s.extractor.Case(html), nil
}

// classify maps a workflow error onto the outcome taxonomy.
func (s *Session) classify(log *slog.Logger, err error) *model.SearchOutcome {
	switch {
	case errors.Is(err, context.Canceled):
		log.Warn("search cancelled", "error", err)
		return s.fail(model.KindCancelled, MsgCancelled, err.Error())
	case errors.Is(err, ErrElementNotFound):
		log.Error("element not found", "error", err)
		return s.fail(model.KindElementNotFound, MsgElementsMissing, err.Error())
	case errors.Is(err, ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		log.Error("request timed out", "error", err)
		return s.fail(model.KindNavigationTimeout, MsgTimeout, MsgTimeoutDetail)
	default:
		log.Error("unexpected error", "error", err)
		return s.fail(model.KindUnexpected, MsgUnexpected, err.Error())
	}
}

func (s *Session) fail(kind model.ErrorKind, message, detail string) *model.SearchOutcome {
	s.enter(StateFailed)
	return model.Failed(kind, message, detail)
}

func (s *Session) enter(st State) {
	s.state = st
	s.log.Debug("search state", "state", st.String())
}

// SearchByDescriptor validates a case type, number and year. The portal's
// case-number search is not automated, so a valid descriptor yields an
// unsupported outcome. The browser is never touched.
func (s *Session) SearchByDescriptor(_ context.Context, caseType, number, year string) *model.SearchOutcome {
	s.enter(StateInit)
	log := s.log.With("case_type", caseType, "case_number", number, "case_year", year)

	if ok, msg := validate.CaseDescriptor(caseType, number, year); !ok {
		log.Error("invalid case details", "reason", msg)
		return s.fail(model.KindValidation, msg, "Invalid case details")
	}
	s.enter(StateValidated)

	log.Warn("search by case details not yet implemented")
	return s.fail(model.KindUnsupported, MsgDescriptorSearch, "Use a CNR search instead")
}

// DownloadCauseList fetches the full cause list for date when the session's
// resolver can list; otherwise it returns causelist.ErrNotImplemented.
func (s *Session) DownloadCauseList(ctx context.Context, date time.Time) (*model.CauseList, error) {
	lister, ok := s.resolver.(causelist.Lister)
	if !ok {
		return nil, fmt.Errorf("cause list for %s: %w", date.Format(causelist.PortalDate), causelist.ErrNotImplemented)
	}
	return lister.CauseList(ctx, date)
}

// Close releases the browser. Only the first call does any work.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		if s.browser == nil {
			return
		}
		s.closeErr = s.browser.Close()
		if s.closeErr != nil {
			s.log.Error("failed to close browser", "error", s.closeErr)
			return
		}
		s.log.Info("browser closed")
	})
	return s.closeErr
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
