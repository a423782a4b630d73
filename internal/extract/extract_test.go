package extract

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/jmylchreest/ecourts/internal/logger"
	"github.com/jmylchreest/ecourts/internal/model"
)

func newTestExtractor() *Extractor {
	return New(logger.Discard())
}

// --- ApplyRow Tests ---

func TestApplyRow_Rules(t *testing.T) {
	tests := []struct {
		label string
		field string
	}{
		{"Case Number", "case_number"},
		{"  CASE   NUMBER ", "case_number"},
		{"Case Type", "case_type"},
		{"Filing Year", "case_year"},
		{"Petitioner and Advocate", "petitioner"},
		{"Plaintiff", "petitioner"},
		{"Respondent and Advocate", "respondent"},
		{"Defendant", "respondent"},
		{"Court Name", "court_name"},
		{"Filing Date", "filing_date"},
		{"Registration Date", "registration_date"},
		{"Case Status", "status"},
		{"Court Number and Judge", "judge_name"},
		{"Next Hearing Date", "next_hearing_date"},
		{"Next Date", "next_hearing_date"},
		{"Court No.", "court_number"},
		{"CNR Number", "cnr"},
		{"Registration Number", ""},
		{"First Hearing Date", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			rec := &model.CaseRecord{}
			if got := ApplyRow(rec, tt.label, "value"); got != tt.field {
				t.Errorf("ApplyRow(%q) = %q, want %q", tt.label, got, tt.field)
			}
		})
	}
}

func TestApplyRow_LastWriteWins(t *testing.T) {
	rec := &model.CaseRecord{}
	ApplyRow(rec, "Status", "Pending")
	ApplyRow(rec, "Case Status", "Disposed")

	if rec.Status != "Disposed" {
		t.Errorf("Status = %q, want later value %q", rec.Status, "Disposed")
	}
}

// --- Case Tests ---

func TestCase_NoTables(t *testing.T) {
	e := newTestExtractor()
	if rec := e.Case(`<html><body><p>Invalid Captcha</p></body></html>`); rec != nil {
		t.Errorf("expected nil record, got %+v", rec)
	}
}

func TestCase_EmptyInput(t *testing.T) {
	if rec := newTestExtractor().Case(""); rec != nil {
		t.Errorf("expected nil record, got %+v", rec)
	}
}

func TestCase_TwoRows(t *testing.T) {
	html := `<html><body><table>
		<tr><td>Case Number</td><td>CS/123/2015</td></tr>
		<tr><td>Status</td><td>Pending</td></tr>
	</table></body></html>`

	rec := newTestExtractor().Case(html)
	want := &model.CaseRecord{CaseNumber: "CS/123/2015", Status: "Pending"}
	if diff := cmp.Diff(want, rec); diff != "" {
		t.Errorf("Case() mismatch (-want +got):\n%s", diff)
	}
}

func TestCase_LastWriteWinsAcrossTables(t *testing.T) {
	html := `<table>
		<tr><th>Case Number</th><td>CS/123/2015</td></tr>
		<tr><th>Status</th><td>Pending</td></tr>
	</table>
	<table>
		<tr><th>Case Status</th><td> Disposed </td></tr>
	</table>`

	rec := newTestExtractor().Case(html)
	if rec == nil {
		t.Fatal("expected a record")
	}
	if rec.Status != "Disposed" {
		t.Errorf("Status = %q, want %q", rec.Status, "Disposed")
	}
}

func TestCase_WithoutCaseNumber(t *testing.T) {
	html := `<table>
		<tr><td>Status</td><td>Pending</td></tr>
		<tr><td>Petitioner</td><td>A. Kumar</td></tr>
	</table>`

	if rec := newTestExtractor().Case(html); rec != nil {
		t.Errorf("expected nil record without case number, got %+v", rec)
	}
}

func TestCase_IgnoresShortRows(t *testing.T) {
	html := `<table>
		<tr><td colspan="2">Case Details</td></tr>
		<tr><td>Case Number</td><td>CS/1/2020</td><td>extra</td></tr>
	</table>`

	rec := newTestExtractor().Case(html)
	if rec == nil || rec.CaseNumber != "CS/1/2020" {
		t.Fatalf("unexpected record: %+v", rec)
	}
}

func TestCase_FullPortalPage(t *testing.T) {
	html := `<html><body>
	<table class="case_details_table">
		<tr><td>Case Type</td><td>CS - Civil Suit</td></tr>
		<tr><td>Filing Number</td><td>1234/2015</td></tr>
		<tr><td>Filing Date</td><td>02-03-2015</td></tr>
		<tr><td>Registration Date</td><td>05-03-2015</td></tr>
		<tr><td>CNR Number</td><td>MHAU019999992015</td></tr>
		<tr><td>Case Number</td><td>CS/123/2015</td></tr>
	</table>
	<table class="case_status_table">
		<tr><td>Next Hearing Date</td><td>20th October 2026</td></tr>
		<tr><td>Case Stage</td><td>Evidence</td></tr>
		<tr><td>Court Number and Judge</td><td>4-Civil Judge Senior Division</td></tr>
	</table>
	<table class="Petitioner_Advocate_table">
		<tr><td>Petitioner</td><td>1) Ramesh   Patil</td></tr>
		<tr><td>Respondent</td><td>1) State of Maharashtra</td></tr>
	</table>
	</body></html>`

	rec := newTestExtractor().Case(html)
	want := &model.CaseRecord{
		CNR:              "MHAU019999992015",
		CaseType:         "CS - Civil Suit",
		CaseNumber:       "CS/123/2015",
		Petitioner:       "1) Ramesh Patil",
		Respondent:       "1) State of Maharashtra",
		JudgeName:        "4-Civil Judge Senior Division",
		FilingDate:       "02-03-2015",
		RegistrationDate: "05-03-2015",
		NextHearingDate:  "20th October 2026",
	}
	if diff := cmp.Diff(want, rec); diff != "" {
		t.Errorf("Case() mismatch (-want +got):\n%s", diff)
	}
}

// --- Listings Tests ---

func TestListings_ParsesRows(t *testing.T) {
	html := `<table>
		<tr><th>Sr No</th><th>Cases</th><th>Party Name</th><th>Advocate</th><th>Purpose</th></tr>
		<tr><td>1</td><td>CS/123/2015 MHAU019999992015</td><td>Ramesh Patil vs State</td><td>X</td><td>Evidence</td></tr>
		<tr><td>2.</td><td>CRLA/9/2021</td><td>Sunita Rao versus Anil Rao</td><td>Y</td><td>Arguments</td></tr>
		<tr><td></td><td></td><td></td><td></td><td></td></tr>
	</table>`

	got := newTestExtractor().Listings(html, "18-10-2026")
	one, two := 1, 2
	want := []model.ListingRecord{
		{
			SerialNumber: &one,
			ListingDate:  "18-10-2026",
			Purpose:      "Evidence",
			Case: &model.CaseRecord{
				CNR:        "MHAU019999992015",
				CaseNumber: "CS/123/2015",
				Petitioner: "Ramesh Patil",
				Respondent: "State",
			},
		},
		{
			SerialNumber: &two,
			ListingDate:  "18-10-2026",
			Purpose:      "Arguments",
			Case: &model.CaseRecord{
				CaseNumber: "CRLA/9/2021",
				Petitioner: "Sunita Rao",
				Respondent: "Anil Rao",
			},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Listings() mismatch (-want +got):\n%s", diff)
	}
}

func TestListings_SkipsTablesWithoutCaseColumn(t *testing.T) {
	html := `<table>
		<tr><th>Court</th><th>Judge</th></tr>
		<tr><td>4</td><td>Civil Judge</td></tr>
	</table>`

	if got := newTestExtractor().Listings(html, "18-10-2026"); len(got) != 0 {
		t.Errorf("expected no listings, got %d", len(got))
	}
}
