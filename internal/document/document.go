// Package document turns project parameters into a paginated quotation:
// assembled line items, totals, and a page assignment ready to render.
package document

import (
	"time"

	"go.uber.org/zap"

	"github.com/Simplici0/quotedoc/internal/paginate"
	"github.com/Simplici0/quotedoc/internal/pricing"
	"github.com/Simplici0/quotedoc/internal/quote"
	"github.com/Simplici0/quotedoc/internal/settings"
)

// Request is everything the caller collects for one quotation.
type Request struct {
	ClientName string                    `json:"clientName"`
	Title      string                    `json:"title"`
	IssuedAt   time.Time                 `json:"issuedAt"`
	Params     pricing.ProjectParameters `json:"params"`
	Manual     []quote.LineItem          `json:"manualItems"`
}

// Page is one printable sheet of the quotation.
type Page struct {
	Number     int
	Kind       paginate.Kind
	Items      []quote.LineItem
	ShowTotals bool
}

// Document is the presentation boundary: ordered items, their page
// assignment, and the computed totals.
type Document struct {
	ClientName      string
	Title           string
	IssuedAt        time.Time
	SettingsVersion int
	Estimate        pricing.Range
	Items           []quote.LineItem
	Totals          quote.Totals
	Pages           []Page
	PriceMenu       []string
	CustomFields    []settings.CustomField
	// TotalsOverflow is set when the last page may not have room for the
	// totals block.
	TotalsOverflow bool
}

// TotalPages is the number of printable pages.
func (d Document) TotalPages() int { return len(d.Pages) }

// Options controls pagination.
type Options struct {
	Metrics paginate.Metrics
	Budget  paginate.Budget
	Log     *zap.Logger
}

// DefaultOptions paginates for A4 with the first page reserving room for totals.
func DefaultOptions() Options {
	return Options{
		Metrics: paginate.DefaultMetrics(),
		Budget:  paginate.A4Budget(true),
	}
}

// Compose runs the assembler and the pagination engine. s is passed
// explicitly so a draft can be previewed before it is saved.
func Compose(req Request, s settings.Settings, opts Options) Document {
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}

	q := quote.Assemble(req.Params, s, req.Manual)

	height := func(it quote.LineItem) float64 {
		return opts.Metrics.Height(len(it.SubItems))
	}
	layout := paginate.Paginate(q.Items, height, opts.Budget)

	pages := make([]Page, 0, layout.TotalPages())
	for _, p := range layout.Pages {
		pages = append(pages, Page{
			Number:     p.Number,
			Kind:       p.Kind,
			Items:      p.Items,
			ShowTotals: layout.IsLastItemPage(p.Number),
		})
	}

	overflow := layout.TotalsMayOverflow(opts.Budget.TotalsReserve)
	if overflow {
		log.Warn("totals block may overflow the last page",
			zap.Int("pages", layout.TotalPages()),
			zap.Float64("used", layout.Pages[len(layout.Pages)-1].Used),
		)
	}

	issued := req.IssuedAt
	if issued.IsZero() {
		issued = time.Now()
	}

	return Document{
		ClientName:      req.ClientName,
		Title:           req.Title,
		IssuedAt:        issued,
		SettingsVersion: s.Version,
		Estimate:        pricing.TotalEstimate(req.Params, s),
		Items:           q.Items,
		Totals:          q.Totals,
		Pages:           pages,
		PriceMenu:       quote.PriceMenu(req.Params, s),
		CustomFields:    append([]settings.CustomField(nil), s.CustomFields...),
		TotalsOverflow:  overflow,
	}
}
