package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/jmylchreest/ecourts/internal/model"
)

// column identifies a cause-list table column by its header text.
type column int

const (
	colNone column = iota
	colSerial
	colCase
	colParty
	colPurpose
	colCourt
	colJudge
)

// headerRules is checked in order; the first match names the column.
var headerRules = []struct {
	col   column
	match func(string) bool
}{
	{colSerial, anyOf("sr", "serial", "s.no", "sl.")},
	{colCase, anyOf("case")},
	{colParty, anyOf("part", "petitioner", "versus")},
	{colPurpose, anyOf("purpose", "stage")},
	{colJudge, anyOf("judge", "bench")},
	{colCourt, anyOf("court")},
}

var (
	cnrPattern   = regexp.MustCompile(`\b[A-Z]{4}[0-9]{12}\b`)
	versusSplit  = regexp.MustCompile(`(?i)\s+(?:vs\.?|v/s|versus)\s+`)
	leadingDigit = regexp.MustCompile(`^\d+`)
)

// Listings returns one ListingRecord per data row of every table whose
// header names a case column. listingDate is copied onto each record.
func (e *Extractor) Listings(html, listingDate string) []model.ListingRecord {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		e.log.Error("error parsing cause list", "error", err)
		return nil
	}

	var listings []model.ListingRecord
	doc.Find("table").Each(func(_ int, table *goquery.Selection) {
		rows := table.Find("tr")
		if rows.Length() < 2 {
			return
		}

		cols := headerColumns(rows.First())
		if !hasColumn(cols, colCase) {
			return
		}

		rows.Slice(1, rows.Length()).Each(func(_ int, row *goquery.Selection) {
			if l, ok := listingFromRow(row, cols, listingDate); ok {
				listings = append(listings, l)
			}
		})
	})

	e.log.Debug("cause list scan complete", "date", listingDate, "listings", len(listings))
	return listings
}

func headerColumns(row *goquery.Selection) []column {
	var cols []column
	row.Find("td, th").Each(func(_ int, cell *goquery.Selection) {
		label := NormalizeLabel(cell.Text())
		col := colNone
		for _, h := range headerRules {
			if h.match(label) {
				col = h.col
				break
			}
		}
		cols = append(cols, col)
	})
	return cols
}

func hasColumn(cols []column, want column) bool {
	for _, c := range cols {
		if c == want {
			return true
		}
	}
	return false
}

func listingFromRow(row *goquery.Selection, cols []column, listingDate string) (model.ListingRecord, bool) {
	l := model.ListingRecord{ListingDate: listingDate}
	rec := &model.CaseRecord{}

	row.Find("td, th").Each(func(i int, cell *goquery.Selection) {
		if i >= len(cols) {
			return
		}
		text := cleanText(cell.Text())
		switch cols[i] {
		case colSerial:
			if n, err := strconv.Atoi(leadingDigit.FindString(text)); err == nil {
				l.SerialNumber = &n
			}
		case colCase:
			if cnr := cnrPattern.FindString(text); cnr != "" {
				rec.CNR = cnr
				text = cleanText(strings.Replace(text, cnr, "", 1))
			}
			rec.CaseNumber = text
		case colParty:
			parts := versusSplit.Split(text, 2)
			rec.Petitioner = strings.TrimSpace(parts[0])
			if len(parts) == 2 {
				rec.Respondent = strings.TrimSpace(parts[1])
			}
		case colPurpose:
			l.Purpose = text
		case colCourt:
			l.CourtNumber = text
		case colJudge:
			l.JudgeName = text
		}
	})

	if rec.CaseNumber == "" && rec.CNR == "" {
		return l, false
	}
	l.Case = rec
	return l, true
}
