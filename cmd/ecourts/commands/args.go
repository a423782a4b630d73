package commands

import (
	"errors"
	"fmt"

	"github.com/jmylchreest/ecourts/internal/validate"
)

// searchArgs are the case selectors given to `ecourts search`.
type searchArgs struct {
	CNR        string
	CaseType   string
	CaseNumber string
	Year       string
	Today      bool
	Tomorrow   bool
}

func (a searchArgs) hasDescriptor() bool {
	return a.CaseType != "" && a.CaseNumber != "" && a.Year != ""
}

func (a searchArgs) partialDescriptor() bool {
	return (a.CaseType != "" || a.CaseNumber != "" || a.Year != "") && !a.hasDescriptor()
}

// checkListing reports whether the cause list should be consulted.
func (a searchArgs) checkListing() bool {
	return a.Today || a.Tomorrow
}

// validate enforces that exactly one way of naming a case was used and
// that it passes the input checks.
func (a searchArgs) validate() error {
	hasCNR := a.CNR != ""

	switch {
	case !hasCNR && !a.hasDescriptor() && !a.partialDescriptor():
		return errors.New("please provide either --cnr or case details (--case-type, --case-number, --year)")
	case hasCNR && (a.hasDescriptor() || a.partialDescriptor()):
		return errors.New("please use either --cnr OR case details, not both")
	case a.partialDescriptor():
		return errors.New("when using case details, you must provide --case-type, --case-number, AND --year")
	}

	if hasCNR {
		if ok, msg := validate.Identifier(a.CNR); !ok {
			return fmt.Errorf("invalid CNR: %s", msg)
		}
		return nil
	}
	if ok, msg := validate.CaseDescriptor(a.CaseType, a.CaseNumber, a.Year); !ok {
		return fmt.Errorf("invalid case details: %s", msg)
	}
	return nil
}
