// Package model defines the case, listing and search outcome records.
//
// Optional string fields use the empty string for "absent" and serialize as
// JSON null so persisted artifacts keep a fixed set of keys.
package model

import (
	"bytes"
	"encoding/json"
)

// CaseRecord is the structured form of a case-status page.
type CaseRecord struct {
	CNR              string
	CaseType         string
	CaseNumber       string
	CaseYear         string
	Petitioner       string
	Respondent       string
	CourtName        string
	CourtNumber      string
	JudgeName        string
	FilingDate       string
	RegistrationDate string
	Status           string
	NextHearingDate  string
}

// Present reports whether extraction populated the case number.
func (c *CaseRecord) Present() bool {
	return c != nil && c.CaseNumber != ""
}

type caseRecordJSON struct {
	CNR              *string `json:"cnr"`
	CaseType         *string `json:"case_type"`
	CaseNumber       *string `json:"case_number"`
	CaseYear         *string `json:"case_year"`
	Petitioner       *string `json:"petitioner"`
	Respondent       *string `json:"respondent"`
	CourtName        *string `json:"court_name"`
	CourtNumber      *string `json:"court_number"`
	JudgeName        *string `json:"judge_name"`
	FilingDate       *string `json:"filing_date"`
	RegistrationDate *string `json:"registration_date"`
	Status           *string `json:"status"`
	NextHearingDate  *string `json:"next_hearing_date"`
}

// MarshalJSON writes absent fields as null.
func (c CaseRecord) MarshalJSON() ([]byte, error) {
	return marshal(caseRecordJSON{
		CNR:              nullable(c.CNR),
		CaseType:         nullable(c.CaseType),
		CaseNumber:       nullable(c.CaseNumber),
		CaseYear:         nullable(c.CaseYear),
		Petitioner:       nullable(c.Petitioner),
		Respondent:       nullable(c.Respondent),
		CourtName:        nullable(c.CourtName),
		CourtNumber:      nullable(c.CourtNumber),
		JudgeName:        nullable(c.JudgeName),
		FilingDate:       nullable(c.FilingDate),
		RegistrationDate: nullable(c.RegistrationDate),
		Status:           nullable(c.Status),
		NextHearingDate:  nullable(c.NextHearingDate),
	})
}

// UnmarshalJSON reads null fields as absent.
func (c *CaseRecord) UnmarshalJSON(data []byte) error {
	var raw caseRecordJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*c = CaseRecord{
		CNR:              deref(raw.CNR),
		CaseType:         deref(raw.CaseType),
		CaseNumber:       deref(raw.CaseNumber),
		CaseYear:         deref(raw.CaseYear),
		Petitioner:       deref(raw.Petitioner),
		Respondent:       deref(raw.Respondent),
		CourtName:        deref(raw.CourtName),
		CourtNumber:      deref(raw.CourtNumber),
		JudgeName:        deref(raw.JudgeName),
		FilingDate:       deref(raw.FilingDate),
		RegistrationDate: deref(raw.RegistrationDate),
		Status:           deref(raw.Status),
		NextHearingDate:  deref(raw.NextHearingDate),
	}
	return nil
}

// ListingRecord is one row of a cause list.
type ListingRecord struct {
	SerialNumber *int
	ListingDate  string
	CourtName    string
	CourtNumber  string
	JudgeName    string
	Case         *CaseRecord
	Purpose      string
}

type listingRecordJSON struct {
	SerialNumber *int        `json:"serial_number"`
	ListingDate  *string     `json:"listing_date"`
	CourtName    *string     `json:"court_name"`
	CourtNumber  *string     `json:"court_number"`
	JudgeName    *string     `json:"judge_name"`
	Case         *CaseRecord `json:"case_details"`
	Purpose      *string     `json:"purpose"`
}

// MarshalJSON writes absent fields as null.
func (l ListingRecord) MarshalJSON() ([]byte, error) {
	return marshal(listingRecordJSON{
		SerialNumber: l.SerialNumber,
		ListingDate:  nullable(l.ListingDate),
		CourtName:    nullable(l.CourtName),
		CourtNumber:  nullable(l.CourtNumber),
		JudgeName:    nullable(l.JudgeName),
		Case:         l.Case,
		Purpose:      nullable(l.Purpose),
	})
}

// UnmarshalJSON reads null fields as absent.
func (l *ListingRecord) UnmarshalJSON(data []byte) error {
	var raw listingRecordJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*l = ListingRecord{
		SerialNumber: raw.SerialNumber,
		ListingDate:  deref(raw.ListingDate),
		CourtName:    deref(raw.CourtName),
		CourtNumber:  deref(raw.CourtNumber),
		JudgeName:    deref(raw.JudgeName),
		Case:         raw.Case,
		Purpose:      deref(raw.Purpose),
	}
	return nil
}

// CauseList is a court's hearing schedule for one day.
// TotalCases always equals len(Listings) when built through AddListing.
type CauseList struct {
	Date         string          `json:"date"`
	CourtComplex string          `json:"court_complex"`
	TotalCases   int             `json:"total_cases"`
	Listings     []ListingRecord `json:"listings"`
}

type causeListJSON struct {
	Date         string          `json:"date"`
	CourtComplex *string         `json:"court_complex"`
	TotalCases   int             `json:"total_cases"`
	Listings     []ListingRecord `json:"listings"`
}

// MarshalJSON writes an unknown court complex as null.
func (c CauseList) MarshalJSON() ([]byte, error) {
	listings := c.Listings
	if listings == nil {
		listings = []ListingRecord{}
	}
	return marshal(causeListJSON{
		Date:         c.Date,
		CourtComplex: nullable(c.CourtComplex),
		TotalCases:   c.TotalCases,
		Listings:     listings,
	})
}

// NewCauseList returns an empty cause list for date.
func NewCauseList(date string) *CauseList {
	return &CauseList{Date: date, Listings: []ListingRecord{}}
}

// AddListing appends a row and keeps TotalCases in step.
func (c *CauseList) AddListing(l ListingRecord) {
	c.Listings = append(c.Listings, l)
	c.TotalCases = len(c.Listings)
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// marshal encodes v with HTML escaping off. Escaped bytes returned from a
// MarshalJSON method cannot be unescaped by an outer encoder.
func marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
