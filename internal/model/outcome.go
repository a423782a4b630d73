package model

import (
	"encoding/json"
	"time"
)

// ErrorKind classifies why a search failed.
type ErrorKind string

const (
	KindNone              ErrorKind = ""
	KindValidation        ErrorKind = "validation"
	KindNavigationTimeout ErrorKind = "navigation_timeout"
	KindElementNotFound   ErrorKind = "element_not_found"
	KindNotFound          ErrorKind = "not_found"
	KindUnexpected        ErrorKind = "unexpected"
	KindCancelled         ErrorKind = "cancelled"
	KindUnsupported       ErrorKind = "unsupported"
)

// SearchOutcome is the single result of one search invocation.
type SearchOutcome struct {
	Success   bool           `json:"success"`
	Message   string         `json:"message"`
	Case      *CaseRecord    `json:"case_details"`
	IsListed  bool           `json:"is_listed"`
	Listing   *ListingRecord `json:"listing_info"`
	Error     *string        `json:"error"`
	Kind      ErrorKind      `json:"error_kind,omitempty"`
	Timestamp time.Time      `json:"search_timestamp"`
}

// Clock returns the current time. Tests replace it to pin timestamps.
var Clock = time.Now

// Found builds the successful outcome for a located case.
func Found(rec *CaseRecord, listing *ListingRecord) *SearchOutcome {
	return &SearchOutcome{
		Success:   true,
		Message:   "Case found successfully",
		Case:      rec,
		IsListed:  listing != nil,
		Listing:   listing,
		Timestamp: Clock(),
	}
}

// Failed builds a failed outcome. detail is the technical error text.
func Failed(kind ErrorKind, message, detail string) *SearchOutcome {
	return &SearchOutcome{
		Message:   message,
		Error:     &detail,
		Kind:      kind,
		Timestamp: Clock(),
	}
}

// ErrorText returns the error detail or "" on success.
func (o *SearchOutcome) ErrorText() string {
	if o == nil || o.Error == nil {
		return ""
	}
	return *o.Error
}

// ToMap returns the outcome as a plain nested mapping, matching its JSON shape.
func (o *SearchOutcome) ToMap() (map[string]any, error) {
	return toMap(o)
}

// ToMap returns the cause list as a plain nested mapping.
func (c *CauseList) ToMap() (map[string]any, error) {
	return toMap(c)
}

func toMap(v any) (map[string]any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return m, nil
}
