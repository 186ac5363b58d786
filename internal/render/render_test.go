package render

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/Simplici0/quotedoc/internal/document"
	"github.com/Simplici0/quotedoc/internal/paginate"
	"github.com/Simplici0/quotedoc/internal/pricing"
	"github.com/Simplici0/quotedoc/internal/quote"
	"github.com/Simplici0/quotedoc/internal/settings"
)

func scenario() document.Document {
	req := document.Request{
		ClientName: "Acme <Studio>",
		IssuedAt:   time.Date(2026, 10, 16, 0, 0, 0, 0, time.UTC),
		Params: pricing.ProjectParameters{
			Blocks:   pricing.Span{Min: 15, Max: 30},
			Style:    pricing.StyleFancy,
			Features: []pricing.Feature{pricing.FeatureShopping},
			Products: pricing.Span{Min: 20, Max: 60},
			Notes:    []pricing.NoteTag{pricing.NoteMembership},
			Server:   pricing.ServerOption{Status: pricing.StatusPending},
		},
		Manual: []quote.LineItem{
			{ID: "pm", Description: "Project management", Quantity: 1, Price: quote.Percent{Ratio: 10}},
		},
	}
	return document.Compose(req, settings.Default(), document.DefaultOptions())
}

func TestPage_RendersItemsAndTotals(t *testing.T) {
	doc := scenario()
	html, err := Page(doc, doc.Pages[0])
	if err != nil {
		t.Fatalf("Page: %v", err)
	}

	for _, want := range []string{
		"QUOTATION",
		"Acme &lt;Studio&gt;",
		"2026-10-16",
		"600,000 ~ 720,000",
		"Quote on request",
		"60,000 ~ 72,000",
		"Subtotal",
		"Server maintenance: 1 year 300,000",
		"1 / 1",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("page html missing %q", want)
		}
	}
}

func TestPage_ContinuationHasNoFirstHeader(t *testing.T) {
	doc := scenario()
	p := document.Page{Number: 2, Kind: "continuation", Items: doc.Items[:1]}
	html, err := Page(doc, p)
	if err != nil {
		t.Fatalf("Page: %v", err)
	}
	if strings.Contains(html, "QUOTATION") {
		t.Fatal("continuation page rendered the first-page header")
	}
	if strings.Contains(html, "Subtotal") {
		t.Fatal("page without ShowTotals rendered totals")
	}
}

func TestPages_OnePerDocumentPage(t *testing.T) {
	doc := scenario()
	pages, err := Pages(doc)
	if err != nil {
		t.Fatalf("Pages: %v", err)
	}
	if len(pages) != doc.TotalPages() {
		t.Fatalf("rendered %d pages, want %d", len(pages), doc.TotalPages())
	}
}

func TestPage_StylesheetMatchesBudget(t *testing.T) {
	doc := scenario()
	html, err := Page(doc, doc.Pages[0])
	if err != nil {
		t.Fatalf("Page: %v", err)
	}

	for _, want := range []string{
		fmt.Sprintf(".totals { height: %dpx; margin-top: %dpx; }", paginate.TotalsBlockPx, paginate.TotalsMarginPx),
		fmt.Sprintf("tbody tr.row td { height: %dpx;", paginate.BaseRowPx),
		fmt.Sprintf("tbody tr.sub td { height: %dpx;", paginate.SubItemPx),
		fmt.Sprintf(".header-first { height: %dpx;", paginate.FirstHeaderPx),
	} {
		if !strings.Contains(html, want) {
			t.Errorf("stylesheet missing %q", want)
		}
	}
	if got := document.DefaultOptions().Budget.TotalsReserve; got != paginate.TotalsBlockPx+paginate.TotalsMarginPx {
		t.Errorf("totals reserve = %v, want block plus margin", got)
	}
}
