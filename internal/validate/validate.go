// Package validate checks search inputs before any browser work happens.
//
// Every check returns a verdict plus a human-readable reason, so callers
// can print the reason verbatim.
package validate

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

const (
	// IdentifierLength is the fixed length of a CNR.
	IdentifierLength = 16
	// MinYear and MaxYear bound an acceptable case year, inclusive.
	MinYear = 1950
	MaxYear = 2026
)

// validator.Validate caches parsed tags and is safe for concurrent use.
var v = validator.New()

// Identifier checks that id is a 16-character alphanumeric CNR.
func Identifier(id string) (bool, string) {
	if id == "" {
		return false, "CNR cannot be empty"
	}

	id = NormalizeIdentifier(id)
	if utf8.RuneCountInString(id) != IdentifierLength {
		return false, fmt.Sprintf("CNR must be exactly %d characters long", IdentifierLength)
	}
	if err := v.Var(id, "alphanum"); err != nil {
		return false, "CNR must contain only letters and numbers"
	}

	return true, "Valid CNR"
}

// NormalizeIdentifier trims the CNR and drops embedded spaces. Case is preserved.
func NormalizeIdentifier(id string) string {
	return strings.ReplaceAll(strings.TrimSpace(id), " ", "")
}

// CaseDescriptor checks a case type, number and year triple.
func CaseDescriptor(caseType, number, year string) (bool, string) {
	if caseType == "" || number == "" || year == "" {
		return false, "All fields (case type, number, and year) are required"
	}
	if err := v.Var(number, "number"); err != nil {
		return false, "Case number must be numeric"
	}

	y, err := strconv.Atoi(year)
	if err != nil {
		return false, "Invalid year format"
	}
	if err := v.Var(y, fmt.Sprintf("gte=%d,lte=%d", MinYear, MaxYear)); err != nil {
		return false, fmt.Sprintf("Year must be between %d and %d", MinYear, MaxYear)
	}

	return true, "Valid case details"
}
