package quote

import (
	"github.com/Simplici0/quotedoc/internal/pricing"
)

// Kind names a pricing variant on the wire.
type Kind string

const (
	KindFixed   Kind = "fixed"
	KindRange   Kind = "range"
	KindText    Kind = "text"
	KindPercent Kind = "percent"
)

// Pricing is the input-type variant of a line item. The set of variants is
// closed: Fixed, Range, Text and Percent.
type Pricing interface {
	Kind() Kind
	sealed()
}

// Fixed is a single unit price.
type Fixed struct {
	UnitPrice int64
}

// Range is a min/max unit price rendered as a span.
type Range struct {
	Min int64
	Max int64
}

// Text carries a placeholder such as "Quote on request" and never a number.
type Text struct {
	Placeholder string
}

// Percent is a ratio of the page-production amount.
type Percent struct {
	Ratio float64
}

func (Fixed) Kind() Kind   { return KindFixed }
func (Range) Kind() Kind   { return KindRange }
func (Text) Kind() Kind    { return KindText }
func (Percent) Kind() Kind { return KindPercent }

func (Fixed) sealed()   {}
func (Range) sealed()   {}
func (Text) sealed()    {}
func (Percent) sealed() {}

// LineItem is one billable row of a quotation.
type LineItem struct {
	ID              string
	Description     string
	SubItems        []string
	Quantity        int
	Price           Pricing
	DiscountPercent float64
}

// Total computes the row amount. base is the page-production range that
// percent items are applied to. The boolean is false for text items, which
// are excluded from every sum.
func (it LineItem) Total(base pricing.Range) (pricing.Range, bool) {
	qty := int64(it.Quantity)

	switch p := it.Price.(type) {
	case Fixed:
		v := pricing.ApplyDiscount(p.UnitPrice*qty, it.DiscountPercent)
		return pricing.Fixed(v), true
	case Range:
		return pricing.Range{
			Min: pricing.ApplyDiscount(p.Min*qty, it.DiscountPercent),
			Max: pricing.ApplyDiscount(p.Max*qty, it.DiscountPercent),
		}, true
	case Percent:
		return pricing.Range{
			Min: pricing.ApplyPercent(base.Min, p.Ratio) * qty,
			Max: pricing.ApplyPercent(base.Max, p.Ratio) * qty,
		}, true
	default:
		return pricing.Range{}, false
	}
}

// Priced reports whether the item contributes to sums.
func (it LineItem) Priced() bool {
	_, ok := it.Price.(Text)
	return !ok && it.Price != nil
}
