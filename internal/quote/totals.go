package quote

import "github.com/Simplici0/quotedoc/internal/pricing"

// Totals is the summary block printed on the last item page.
type Totals struct {
	Subtotal   pricing.Range `json:"subtotal"`
	VATPercent float64       `json:"vatPercent"`
	VAT        pricing.Range `json:"vat"`
	Total      pricing.Range `json:"total"`
}

// Summarize sums every priced item. Text items are skipped.
func Summarize(items []LineItem, base pricing.Range, vatPercent float64) Totals {
	var sub pricing.Range
	for _, it := range items {
		if !it.Priced() {
			continue
		}
		r, _ := it.Total(base)
		sub = sub.Add(r)
	}

	vat := pricing.Range{
		Min: pricing.ApplyPercent(sub.Min, vatPercent),
		Max: pricing.ApplyPercent(sub.Max, vatPercent),
	}
	return Totals{
		Subtotal:   sub,
		VATPercent: vatPercent,
		VAT:        vat,
		Total:      sub.Add(vat),
	}
}
