// Package causelist decides whether a case is on a court's daily cause list.
package causelist

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmylchreest/ecourts/internal/logger"
	"github.com/jmylchreest/ecourts/internal/model"
)

// Date layouts used across the portal and local artifacts.
const (
	PortalDate   = "02-01-2006"
	InternalDate = "2006-01-02"
	DisplayDate  = "02 January 2006"
)

// ErrNotImplemented is returned by resolvers that cannot retrieve cause lists.
var ErrNotImplemented = errors.New("cause list retrieval not implemented")

// Resolver reports whether rec appears on the cause list for date.
// A nil listing with a nil error means "not listed".
type Resolver interface {
	Resolve(ctx context.Context, date time.Time, rec *model.CaseRecord) (*model.ListingRecord, error)
}

// Lister downloads a whole cause list.
type Lister interface {
	CauseList(ctx context.Context, date time.Time) (*model.CauseList, error)
}

// Stub never finds a listing. It keeps the today/tomorrow calling contract
// intact where no cause-list source is configured.
type Stub struct {
	log *slog.Logger
}

// NewStub creates a Stub resolver.
func NewStub(log *slog.Logger) *Stub {
	if log == nil {
		log = logger.Component("causelist")
	}
	return &Stub{log: log}
}

// Resolve always reports not listed.
func (s *Stub) Resolve(_ context.Context, date time.Time, _ *model.CaseRecord) (*model.ListingRecord, error) {
	s.log.Warn("cause list checking not implemented, reporting not listed", "date", date.Format(PortalDate))
	return nil, nil
}

// CauseList always fails with ErrNotImplemented.
func (s *Stub) CauseList(_ context.Context, date time.Time) (*model.CauseList, error) {
	return nil, fmt.Errorf("cause list for %s: %w", date.Format(PortalDate), ErrNotImplemented)
}

// FirstListed resolves today and then tomorrow relative to now. Tomorrow is
// never consulted once today matches. An error aborts the lookup.
func FirstListed(ctx context.Context, r Resolver, rec *model.CaseRecord, now time.Time, log *slog.Logger) (*model.ListingRecord, error) {
	if log == nil {
		log = logger.Component("causelist")
	}

	days := []struct {
		name   string
		offset int
	}{
		{"today", 0},
		{"tomorrow", 1},
	}

	for _, d := range days {
		date := now.AddDate(0, 0, d.offset)
		listing, err := r.Resolve(ctx, date, rec)
		if err != nil {
			return nil, fmt.Errorf("checking %s's cause list: %w", d.name, err)
		}
		if listing != nil {
			log.Info("case is listed", "day", d.name, "date", date.Format(DisplayDate))
			return listing, nil
		}
	}

	log.Info("case is not listed today or tomorrow")
	return nil, nil
}
