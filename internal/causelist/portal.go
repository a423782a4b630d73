package causelist

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/antzucaro/matchr"

	"github.com/jmylchreest/ecourts/internal/extract"
	"github.com/jmylchreest/ecourts/internal/logger"
	"github.com/jmylchreest/ecourts/internal/model"
)

// DefaultPartyThreshold is the minimum Jaro-Winkler similarity between
// petitioner names when a listing is matched on case number alone.
const DefaultPartyThreshold = 0.85

// Fetcher returns the rendered markup of a page.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// Portal fetches a cause-list page per date and matches rows against a case.
type Portal struct {
	fetcher        Fetcher
	url            string
	courtComplex   string
	partyThreshold float64
	extractor      *extract.Extractor
	log            *slog.Logger
}

// PortalOption configures a Portal resolver.
type PortalOption func(*Portal)

// WithCourtComplex labels downloaded cause lists.
func WithCourtComplex(name string) PortalOption {
	return func(p *Portal) {
		p.courtComplex = name
	}
}

// WithPartyThreshold overrides DefaultPartyThreshold.
func WithPartyThreshold(t float64) PortalOption {
	return func(p *Portal) {
		p.partyThreshold = t
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) PortalOption {
	return func(p *Portal) {
		p.log = l
	}
}

// NewPortal creates a resolver that reads cause lists from causeListURL.
// The date is passed as the "date" query parameter in portal format.
func NewPortal(f Fetcher, causeListURL string, opts ...PortalOption) (*Portal, error) {
	if _, err := url.Parse(causeListURL); err != nil {
		return nil, fmt.Errorf("invalid cause list URL: %w", err)
	}

	p := &Portal{
		fetcher:        f,
		url:            causeListURL,
		partyThreshold: DefaultPartyThreshold,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.log == nil {
		p.log = logger.Component("causelist")
	}
	p.extractor = extract.New(p.log)
	return p, nil
}

// CauseList downloads and parses the cause list for date.
func (p *Portal) CauseList(ctx context.Context, date time.Time) (*model.CauseList, error) {
	day := date.Format(PortalDate)
	target, err := p.urlFor(day)
	if err != nil {
		return nil, err
	}

	p.log.Info("downloading cause list", "date", day)
	html, err := p.fetcher.Fetch(ctx, target)
	if err != nil {
		return nil, fmt.Errorf("fetching cause list for %s: %w", day, err)
	}

	cl := model.NewCauseList(day)
	cl.CourtComplex = p.courtComplex
	for _, l := range p.extractor.Listings(html, day) {
		cl.AddListing(l)
	}

	p.log.Debug("cause list parsed", "date", day, "total_cases", cl.TotalCases)
	return cl, nil
}

// Resolve returns the first row of date's cause list that matches rec.
func (p *Portal) Resolve(ctx context.Context, date time.Time, rec *model.CaseRecord) (*model.ListingRecord, error) {
	cl, err := p.CauseList(ctx, date)
	if err != nil {
		return nil, err
	}

	for i := range cl.Listings {
		l := cl.Listings[i]
		if Matches(rec, l.Case, p.partyThreshold) {
			if l.CourtName == "" {
				l.CourtName = rec.CourtName
			}
			return &l, nil
		}
	}
	return nil, nil
}

func (p *Portal) urlFor(day string) (string, error) {
	u, err := url.Parse(p.url)
	if err != nil {
		return "", fmt.Errorf("invalid cause list URL: %w", err)
	}
	q := u.Query()
	q.Set("date", day)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// Matches reports whether candidate, a cause-list row, refers to rec.
// CNRs decide when both sides carry one. Otherwise case numbers must agree
// and, when both sides name a petitioner, the names must be similar enough.
func Matches(rec, candidate *model.CaseRecord, partyThreshold float64) bool {
	if rec == nil || candidate == nil {
		return false
	}

	if rec.CNR != "" && candidate.CNR != "" {
		return strings.EqualFold(rec.CNR, candidate.CNR)
	}

	if rec.CaseNumber == "" || normalizeCaseNumber(rec.CaseNumber) != normalizeCaseNumber(candidate.CaseNumber) {
		return false
	}

	a, b := normalizeParty(rec.Petitioner), normalizeParty(candidate.Petitioner)
	if a == "" || b == "" {
		return true
	}
	return matchr.JaroWinkler(a, b, false) >= partyThreshold
}

func normalizeCaseNumber(s string) string {
	return strings.ToUpper(strings.Join(strings.Fields(s), ""))
}

// normalizeParty drops list markers like "1)" and case-folds the name.
func normalizeParty(s string) string {
	s = strings.ToLower(strings.Join(strings.Fields(s), " "))
	if i := strings.Index(s, ")"); i >= 0 && i <= 3 {
		s = strings.TrimSpace(s[i+1:])
	}
	return s
}
