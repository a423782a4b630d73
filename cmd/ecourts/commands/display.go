package commands

import (
	"fmt"
	"io"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/jmylchreest/ecourts/internal/model"
)

// field is one labelled line of a details table.
type field struct {
	label string
	value string
}

func caseFields(c *model.CaseRecord) []field {
	if c == nil {
		return nil
	}
	return []field{
		{"CNR Number", c.CNR},
		{"Case Type", c.CaseType},
		{"Case Number", c.CaseNumber},
		{"Case Year", c.CaseYear},
		{"Petitioner", c.Petitioner},
		{"Respondent", c.Respondent},
		{"Court Name", c.CourtName},
		{"Court Number", c.CourtNumber},
		{"Judge", c.JudgeName},
		{"Filing Date", c.FilingDate},
		{"Registration Date", c.RegistrationDate},
		{"Status", c.Status},
		{"Next Hearing", c.NextHearingDate},
	}
}

func listingFields(l *model.ListingRecord) []field {
	serial := ""
	if l.SerialNumber != nil {
		serial = strconv.Itoa(*l.SerialNumber)
	}
	return []field{
		{"Date", l.ListingDate},
		{"Serial Number", serial},
		{"Court", l.CourtName},
		{"Court Number", l.CourtNumber},
		{"Judge", l.JudgeName},
		{"Purpose", l.Purpose},
	}
}

func appendFields(tw table.Writer, fields []field) {
	for _, f := range fields {
		if f.value != "" {
			tw.AppendRow(table.Row{f.label, f.value})
		}
	}
}

// renderOutcome prints a search outcome as a two-column table. The listing
// section is shown only when a listing check was requested.
func renderOutcome(w io.Writer, out *model.SearchOutcome, listingLabel string) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleLight)
	tw.SetTitle("Search Results")

	if !out.Success {
		tw.AppendRow(table.Row{"Result", "✗ " + out.Message})
		if e := out.ErrorText(); e != "" {
			tw.AppendRow(table.Row{"Error", e})
		}
		tw.Render()
		return
	}

	tw.AppendRow(table.Row{"Result", "✓ " + out.Message})
	tw.AppendSeparator()
	appendFields(tw, caseFields(out.Case))

	if listingLabel != "" {
		tw.AppendSeparator()
		if out.IsListed && out.Listing != nil {
			tw.AppendRow(table.Row{"Listing", "✓ Case IS LISTED"})
			appendFields(tw, listingFields(out.Listing))
		} else {
			tw.AppendRow(table.Row{"Listing", fmt.Sprintf("✗ Case is NOT listed %s", listingLabel)})
		}
	}
	tw.Render()
}

// renderCauseList prints one row per listing.
func renderCauseList(w io.Writer, cl *model.CauseList) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleLight)

	title := "Cause List " + cl.Date
	if cl.CourtComplex != "" {
		title += " - " + cl.CourtComplex
	}
	tw.SetTitle(title)
	tw.AppendHeader(table.Row{"#", "Case", "Parties", "Court", "Judge", "Purpose"})

	for _, l := range cl.Listings {
		serial, caseNo, parties := "", "", ""
		if l.SerialNumber != nil {
			serial = strconv.Itoa(*l.SerialNumber)
		}
		if l.Case != nil {
			caseNo = l.Case.CaseNumber
			if l.Case.CNR != "" {
				caseNo += " (" + l.Case.CNR + ")"
			}
			parties = l.Case.Petitioner
			if l.Case.Respondent != "" {
				parties += " vs " + l.Case.Respondent
			}
		}
		tw.AppendRow(table.Row{serial, caseNo, parties, l.CourtNumber, l.JudgeName, l.Purpose})
	}

	tw.AppendFooter(table.Row{"", fmt.Sprintf("%d cases", cl.TotalCases)})
	tw.Render()
}
