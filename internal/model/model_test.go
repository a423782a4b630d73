package model

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func pinClock(t *testing.T, at time.Time) {
	t.Helper()
	prev := Clock
	Clock = func() time.Time { return at }
	t.Cleanup(func() { Clock = prev })
}

// --- CaseRecord Tests ---

func TestCaseRecord_Present(t *testing.T) {
	var nilRec *CaseRecord
	if nilRec.Present() {
		t.Error("nil record should not be present")
	}
	if (&CaseRecord{Status: "Pending"}).Present() {
		t.Error("record without case number should not be present")
	}
	if !(&CaseRecord{CaseNumber: "CS/123/2015"}).Present() {
		t.Error("record with case number should be present")
	}
}

func TestCaseRecord_MarshalJSON_AbsentFieldsAreNull(t *testing.T) {
	data, err := json.Marshal(CaseRecord{CaseNumber: "CS/123/2015", Status: "Pending"})
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	if len(m) != 13 {
		t.Errorf("expected 13 keys, got %d", len(m))
	}
	if m["case_number"] != "CS/123/2015" {
		t.Errorf("case_number = %v", m["case_number"])
	}
	if v, ok := m["petitioner"]; !ok || v != nil {
		t.Errorf("petitioner should be present and null, got %v (present=%v)", v, ok)
	}
}

func TestCaseRecord_MarshalJSON_KeepsHTMLCharacters(t *testing.T) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	rec := CaseRecord{CaseNumber: "CS/123/2015", Petitioner: "Patil & Sons <Pvt>"}
	if err := enc.Encode(ListingRecord{Case: &rec, Purpose: "Orders & Judgment"}); err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	for _, want := range []string{`"petitioner":"Patil & Sons <Pvt>"`, `"purpose":"Orders & Judgment"`} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("expected %s in %s", want, buf.String())
		}
	}
}

// --- CauseList Tests ---

func TestCauseList_MarshalJSON_UnknownComplexIsNull(t *testing.T) {
	data, err := json.Marshal(CauseList{Date: "18-10-2026"})
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if v, ok := m["court_complex"]; !ok || v != nil {
		t.Errorf("court_complex should be present and null, got %v (present=%v)", v, ok)
	}
	if l, ok := m["listings"].([]any); !ok || len(l) != 0 {
		t.Errorf("listings should be an empty array, got %#v", m["listings"])
	}

	var back CauseList
	if err := json.Unmarshal(data, &back); err != nil || back.CourtComplex != "" {
		t.Errorf("round trip = %+v, %v", back, err)
	}
}

func TestCauseList_AddListing_KeepsTotal(t *testing.T) {
	cl := NewCauseList("18-10-2026")
	if cl.TotalCases != 0 || len(cl.Listings) != 0 {
		t.Fatalf("new cause list should be empty, got %+v", cl)
	}

	for i := 1; i <= 3; i++ {
		n := i
		cl.AddListing(ListingRecord{SerialNumber: &n})
		if cl.TotalCases != len(cl.Listings) {
			t.Fatalf("TotalCases = %d, len(Listings) = %d", cl.TotalCases, len(cl.Listings))
		}
	}

	if cl.TotalCases != 3 {
		t.Errorf("TotalCases = %d, want 3", cl.TotalCases)
	}
}

func TestCauseList_ToMap(t *testing.T) {
	cl := NewCauseList("18-10-2026")
	cl.AddListing(ListingRecord{Purpose: "Arguments"})

	m, err := cl.ToMap()
	if err != nil {
		t.Fatalf("ToMap() error = %v", err)
	}

	listings, ok := m["listings"].([]any)
	if !ok || len(listings) != 1 {
		t.Fatalf("listings = %#v", m["listings"])
	}
	row := listings[0].(map[string]any)
	if row["purpose"] != "Arguments" || row["serial_number"] != nil {
		t.Errorf("unexpected row mapping: %#v", row)
	}
}

// --- SearchOutcome Tests ---

func TestFound_SetsListedFromListing(t *testing.T) {
	pinClock(t, time.Date(2026, 10, 18, 9, 30, 0, 0, time.UTC))

	rec := &CaseRecord{CaseNumber: "CS/123/2015"}
	out := Found(rec, nil)
	if !out.Success || out.IsListed || out.Error != nil {
		t.Errorf("unexpected outcome: %+v", out)
	}
	if out.Message != "Case found successfully" {
		t.Errorf("Message = %q", out.Message)
	}

	listed := Found(rec, &ListingRecord{Purpose: "Hearing"})
	if !listed.IsListed {
		t.Error("outcome with listing should be listed")
	}
}

func TestFailed_CarriesDetail(t *testing.T) {
	out := Failed(KindNotFound, "Case not found", "No case data found for this identifier")
	if out.Success {
		t.Error("Failed() should not be successful")
	}
	if out.ErrorText() != "No case data found for this identifier" {
		t.Errorf("ErrorText() = %q", out.ErrorText())
	}
	if out.Timestamp.IsZero() {
		t.Error("timestamp should be captured at construction")
	}
}

func TestSearchOutcome_RoundTrip(t *testing.T) {
	pinClock(t, time.Date(2026, 10, 18, 9, 30, 15, 0, time.UTC))
	serial := 14

	tests := []struct {
		name string
		out  *SearchOutcome
	}{
		{
			name: "success with listing",
			out: Found(
				&CaseRecord{CNR: "MHAU019999992015", CaseNumber: "CS/123/2015", Status: "Pending"},
				&ListingRecord{
					SerialNumber: &serial,
					ListingDate:  "18-10-2026",
					CourtNumber:  "4",
					Case:         &CaseRecord{CaseNumber: "CS/123/2015"},
				},
			),
		},
		{
			name: "success without listing",
			out:  Found(&CaseRecord{CaseNumber: "CS/9/2020"}, nil),
		},
		{
			name: "failure",
			out:  Failed(KindNavigationTimeout, "Request timed out", "The server took too long to respond"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.MarshalIndent(tt.out, "", "    ")
			if err != nil {
				t.Fatalf("MarshalIndent() error = %v", err)
			}

			var got SearchOutcome
			if err := json.Unmarshal(data, &got); err != nil {
				t.Fatalf("Unmarshal() error = %v", err)
			}

			if diff := cmp.Diff(tt.out, &got); diff != "" {
				t.Errorf("round trip mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSearchOutcome_JSONShape(t *testing.T) {
	pinClock(t, time.Date(2026, 10, 18, 9, 30, 15, 0, time.UTC))

	m, err := Found(&CaseRecord{CaseNumber: "CS/123/2015"}, nil).ToMap()
	if err != nil {
		t.Fatalf("ToMap() error = %v", err)
	}

	for _, key := range []string{"success", "message", "case_details", "is_listed", "listing_info", "error", "search_timestamp"} {
		if _, ok := m[key]; !ok {
			t.Errorf("missing key %q", key)
		}
	}
	if m["error"] != nil || m["listing_info"] != nil {
		t.Errorf("error and listing_info should be null on success: %#v", m)
	}
	if ts, _ := m["search_timestamp"].(string); !strings.HasPrefix(ts, "2026-10-18T09:30:15") {
		t.Errorf("search_timestamp = %v, want ISO-8601", m["search_timestamp"])
	}
}
