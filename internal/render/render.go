// Package render produces the fixed-size HTML markup of each quotation page.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strconv"

	"github.com/dustin/go-humanize"

	"github.com/Simplici0/quotedoc/internal/document"
	"github.com/Simplici0/quotedoc/internal/paginate"
	"github.com/Simplici0/quotedoc/internal/pricing"
	"github.com/Simplici0/quotedoc/internal/quote"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageTemplate = template.Must(
	template.New("page.html").
		Funcs(template.FuncMap{"span": formatRange}).
		ParseFS(templateFS, "templates/page.html"),
)

type row struct {
	Description string
	SubItems    []string
	Quantity    int
	Unit        string
	Amount      string
}

type pageView struct {
	Doc        document.Document
	Page       document.Page
	Rows       []row
	TotalPages int
	WidthPx    int
	HeightPx   int
	Geo        geometry
}

// geometry feeds the paginate constants into the stylesheet so the row
// budgets and the printed page agree.
type geometry struct {
	Padding      int
	FirstHeader  int
	ContHeader   int
	TableHeader  int
	Row          int
	SubItem      int
	Totals       int
	TotalsMargin int
	Footer       int
}

func a4Geometry() geometry {
	return geometry{
		Padding:      paginate.PagePaddingPx / 2,
		FirstHeader:  paginate.FirstHeaderPx,
		ContHeader:   paginate.ContinuationHeaderPx,
		TableHeader:  paginate.TableHeaderPx,
		Row:          paginate.BaseRowPx,
		SubItem:      paginate.SubItemPx,
		Totals:       paginate.TotalsBlockPx,
		TotalsMargin: paginate.TotalsMarginPx,
		Footer:       paginate.FooterPx,
	}
}

// Page renders one page of doc as a standalone HTML document sized to an
// A4 sheet at 96 DPI.
func Page(doc document.Document, p document.Page) (string, error) {
	view := pageView{
		Doc:        doc,
		Page:       p,
		TotalPages: doc.TotalPages(),
		WidthPx:    paginate.A4WidthPx,
		HeightPx:   paginate.A4HeightPx,
		Geo:        a4Geometry(),
	}

	base := pricing.Range{}
	for _, it := range doc.Items {
		if it.ID == quote.IDPageCost {
			if r, ok := it.Price.(quote.Range); ok {
				base = pricing.Range{Min: r.Min, Max: r.Max}
			}
		}
	}
	for _, it := range p.Items {
		view.Rows = append(view.Rows, newRow(it, base))
	}

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, view); err != nil {
		return "", fmt.Errorf("render page %d: %w", p.Number, err)
	}
	return buf.String(), nil
}

// Pages renders every page of doc in order.
func Pages(doc document.Document) ([]string, error) {
	out := make([]string, 0, len(doc.Pages))
	for _, p := range doc.Pages {
		html, err := Page(doc, p)
		if err != nil {
			return nil, err
		}
		out = append(out, html)
	}
	return out, nil
}

func newRow(it quote.LineItem, base pricing.Range) row {
	r := row{
		Description: it.Description,
		SubItems:    it.SubItems,
		Quantity:    it.Quantity,
	}

	switch p := it.Price.(type) {
	case quote.Fixed:
		r.Unit = humanize.Comma(p.UnitPrice)
	case quote.Range:
		r.Unit = formatRange(pricing.Range{Min: p.Min, Max: p.Max})
	case quote.Percent:
		r.Unit = strconv.FormatFloat(p.Ratio, 'f', -1, 64) + "%"
	case quote.Text:
		r.Unit = p.Placeholder
		r.Amount = p.Placeholder
		return r
	}

	total, _ := it.Total(base)
	r.Amount = formatRange(total)
	if it.DiscountPercent > 0 {
		r.Amount += fmt.Sprintf(" (-%s%%)", strconv.FormatFloat(it.DiscountPercent, 'f', -1, 64))
	}
	return r
}

func formatRange(r pricing.Range) string {
	if r.Degenerate() {
		return humanize.Comma(r.Min)
	}
	return humanize.Comma(r.Min) + " ~ " + humanize.Comma(r.Max)
}
