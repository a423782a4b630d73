// Package extract turns rendered portal markup into case and listing records.
//
// Label matching is kept apart from HTML walking: ApplyRow works on plain
// label/value pairs, so the rule table can be exercised without a document.
package extract

import (
	"strings"

	"github.com/jmylchreest/ecourts/internal/model"
)

// caseRule maps a normalized row label onto one CaseRecord field.
type caseRule struct {
	field string
	match func(label string) bool
	set   func(rec *model.CaseRecord, value string)
}

// caseRules is evaluated top to bottom and the first match wins for a row.
// The last two rules only see labels none of the earlier rules claimed.
var caseRules = []caseRule{
	{"case_number", allOf("case", "number"), func(r *model.CaseRecord, v string) { r.CaseNumber = v }},
	{"case_type", allOf("case", "type"), func(r *model.CaseRecord, v string) { r.CaseType = v }},
	{"case_year", anyOf("year"), func(r *model.CaseRecord, v string) { r.CaseYear = v }},
	{"petitioner", anyOf("petitioner", "plaintiff"), func(r *model.CaseRecord, v string) { r.Petitioner = v }},
	{"respondent", anyOf("respondent", "defendant"), func(r *model.CaseRecord, v string) { r.Respondent = v }},
	{"court_name", allOf("court", "name"), func(r *model.CaseRecord, v string) { r.CourtName = v }},
	{"filing_date", allOf("filing", "date"), func(r *model.CaseRecord, v string) { r.FilingDate = v }},
	{"registration_date", allOf("registration", "date"), func(r *model.CaseRecord, v string) { r.RegistrationDate = v }},
	{"status", anyOf("status"), func(r *model.CaseRecord, v string) { r.Status = v }},
	{"judge_name", anyOf("judge"), func(r *model.CaseRecord, v string) { r.JudgeName = v }},
	{"next_hearing_date", both(anyOf("next"), anyOf("hearing", "date")), func(r *model.CaseRecord, v string) { r.NextHearingDate = v }},
	{"court_number", both(anyOf("court"), anyOf("number", "no")), func(r *model.CaseRecord, v string) { r.CourtNumber = v }},
	{"cnr", anyOf("cnr"), func(r *model.CaseRecord, v string) { r.CNR = v }},
}

// ApplyRow applies the first rule matching label to rec and returns the
// field it set, or "" when no rule matched. label is normalized first.
func ApplyRow(rec *model.CaseRecord, label, value string) string {
	label = NormalizeLabel(label)
	for _, r := range caseRules {
		if r.match(label) {
			r.set(rec, value)
			return r.field
		}
	}
	return ""
}

// NormalizeLabel lower-cases a label and collapses its whitespace.
func NormalizeLabel(label string) string {
	return strings.ToLower(cleanText(label))
}

func allOf(words ...string) func(string) bool {
	return func(label string) bool {
		for _, w := range words {
			if !strings.Contains(label, w) {
				return false
			}
		}
		return true
	}
}

func anyOf(words ...string) func(string) bool {
	return func(label string) bool {
		for _, w := range words {
			if strings.Contains(label, w) {
				return true
			}
		}
		return false
	}
}

func both(a, b func(string) bool) func(string) bool {
	return func(label string) bool { return a(label) && b(label) }
}

// cleanText normalizes whitespace in text.
func cleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
