package extract

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/jmylchreest/ecourts/internal/logger"
	"github.com/jmylchreest/ecourts/internal/model"
)

// Extractor scans rendered pages for case and listing tables.
type Extractor struct {
	log *slog.Logger
}

// New creates an Extractor. A nil logger falls back to the process logger.
func New(log *slog.Logger) *Extractor {
	if log == nil {
		log = logger.Component("extract")
	}
	return &Extractor{log: log}
}

// Case returns the case record described by the page's label/value rows,
// or nil when the page has no tables or no row supplied a case number.
// Malformed markup is reported as nil, never as an error.
func (e *Extractor) Case(html string) (rec *model.CaseRecord) {
	defer func() {
		if r := recover(); r != nil {
			e.log.Error("error parsing case details", "error", fmt.Sprint(r))
			rec = nil
		}
	}()

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		e.log.Error("error parsing case details", "error", err)
		return nil
	}

	tables := doc.Find("table")
	if tables.Length() == 0 {
		e.log.Warn("no tables found on page")
		return nil
	}

	rec = &model.CaseRecord{}
	matched := 0
	tables.Each(func(_ int, table *goquery.Selection) {
		table.Find("tr").Each(func(_ int, row *goquery.Selection) {
			cells := row.Find("td, th")
			if cells.Length() < 2 {
				return
			}
			label := cells.Eq(0).Text()
			value := cleanText(cells.Eq(1).Text())
			if field := ApplyRow(rec, label, value); field != "" {
				matched++
				e.log.Debug("mapped row", "field", field, "label", NormalizeLabel(label))
			}
		})
	})

	e.log.Debug("case table scan complete", "tables", tables.Length(), "mapped_rows", matched)
	if !rec.Present() {
		return nil
	}
	return rec
}
