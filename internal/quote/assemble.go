package quote

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/Simplici0/quotedoc/internal/pricing"
	"github.com/Simplici0/quotedoc/internal/settings"
)

// IDs of generated line items.
const (
	IDPageCost = "page-cost"
	IDBoard    = "feature-board"
	IDShopping = "feature-shopping"
	IDServer   = "server"
	IDDomain   = "domain"
)

// Quote is the assembled, ordered item list plus the amounts derived from it.
type Quote struct {
	Items []LineItem
	// Base is the page-production range percent items are applied to.
	Base   pricing.Range
	Totals Totals
}

// Assemble builds the full item list: page production, paid features,
// special notes, server and domain, then the manual items. Manual items with
// a blank description are dropped. Inputs are not modified.
func Assemble(p pricing.ProjectParameters, s settings.Settings, manual []LineItem) Quote {
	items := Generate(p, s)
	base := pricing.PageRange(p, s)

	for _, m := range manual {
		if strings.TrimSpace(m.Description) == "" {
			continue
		}
		m.SubItems = append([]string(nil), m.SubItems...)
		if m.ID == "" {
			m.ID = uuid.NewString()
		}
		items = append(items, m)
	}

	return Quote{
		Items:  items,
		Base:   base,
		Totals: Summarize(items, base, s.VATPercent),
	}
}

// Generate returns the parameter-driven items in display order.
func Generate(p pricing.ProjectParameters, s settings.Settings) []LineItem {
	items := make([]LineItem, 0, 8)

	if p.Blocks.Min > 0 {
		items = append(items, pageCostItem(p, s))
	}

	if p.HasFeature(pricing.FeatureBoard) {
		items = append(items, LineItem{
			ID:          IDBoard,
			Description: "Bulletin board",
			Quantity:    1,
			Price:       Fixed{UnitPrice: s.Features.BoardCost},
		})
	}
	if p.HasFeature(pricing.FeatureShopping) {
		r := pricing.ShoppingRange(p, s)
		items = append(items, LineItem{
			ID:          IDShopping,
			Description: fmt.Sprintf("Online shop (%s products)", spanText(p.Products)),
			SubItems: []string{
				fmt.Sprintf("Up to %d products included in the base price", s.Features.ShoppingIncludedUnits),
			},
			Quantity: 1,
			Price:    Range{Min: r.Min, Max: r.Max},
		})
	}

	for _, n := range noteTable {
		if n.tag == pricing.NoteRenewal || !p.HasNote(n.tag) {
			continue
		}
		items = append(items, LineItem{
			ID:          "note-" + string(n.tag),
			Description: n.description,
			SubItems:    append([]string(nil), n.subItems...),
			Quantity:    1,
			Price:       Text{Placeholder: QuoteOnRequest},
		})
	}

	if p.Server.Confirmed() {
		items = append(items, LineItem{
			ID:          IDServer,
			Description: fmt.Sprintf("Server maintenance (%s)", yearsText(p.Server.Years)),
			SubItems:    []string{"Hosting, SSL certificate and monitoring"},
			Quantity:    1,
			Price:       Fixed{UnitPrice: pricing.ServerCost(p.Server.Years, s)},
		})
	}

	if p.Domain.Confirmed() {
		label := "Domain registration"
		if p.Domain.IsTransfer() {
			label = "Domain transfer"
		}
		items = append(items, LineItem{
			ID:          IDDomain,
			Description: fmt.Sprintf("%s (%s)", label, yearsText(p.Domain.Years)),
			Quantity:    1,
			Price:       Fixed{UnitPrice: pricing.DomainCost(p.Domain.Years, p.Domain.IsTransfer(), s)},
		})
	}

	return items
}

func pageCostItem(p pricing.ProjectParameters, s settings.Settings) LineItem {
	r := pricing.PageRange(p, s)

	style := fmt.Sprintf("Style: normal (x%g)", s.Style.Normal)
	if p.Fancy() {
		style = fmt.Sprintf("Style: fancy (x%g)", s.Style.Fancy)
	}
	sub := []string{style}
	if p.HasNote(pricing.NoteRenewal) {
		if n, ok := lookupNote(pricing.NoteRenewal); ok {
			sub = append(sub, n.description+": "+n.subItems[0])
		}
	}

	return LineItem{
		ID:          IDPageCost,
		Description: fmt.Sprintf("Page production (%s screen blocks)", spanText(p.Blocks)),
		SubItems:    sub,
		Quantity:    1,
		Price:       Range{Min: r.Min, Max: r.Max},
	}
}

func spanText(s pricing.Span) string {
	if s.Min == s.Max {
		return fmt.Sprintf("%d", s.Min)
	}
	return fmt.Sprintf("%d-%d", s.Min, s.Max)
}

func yearsText(years int) string {
	if years == 1 {
		return "1 year"
	}
	return fmt.Sprintf("%d years", years)
}
