package quote

import (
	"encoding/json"
	"fmt"
)

type wireItem struct {
	ID              string   `json:"id,omitempty"`
	Description     string   `json:"description"`
	SubItems        []string `json:"subItems,omitempty"`
	Quantity        int      `json:"quantity"`
	Type            Kind     `json:"type"`
	UnitPrice       *int64   `json:"unitPrice,omitempty"`
	MinPrice        *int64   `json:"minPrice,omitempty"`
	MaxPrice        *int64   `json:"maxPrice,omitempty"`
	Placeholder     string   `json:"placeholder,omitempty"`
	Percent         *float64 `json:"percent,omitempty"`
	Total           *int64   `json:"total,omitempty"`
	DiscountPercent float64  `json:"discountPercent,omitempty"`
}

// MarshalJSON encodes the item with a "type" discriminator.
func (it LineItem) MarshalJSON() ([]byte, error) {
	w := wireItem{
		ID:              it.ID,
		Description:     it.Description,
		SubItems:        it.SubItems,
		Quantity:        it.Quantity,
		DiscountPercent: it.DiscountPercent,
	}

	switch p := it.Price.(type) {
	case Fixed:
		w.Type = KindFixed
		w.UnitPrice = &p.UnitPrice
	case Range:
		w.Type = KindRange
		w.MinPrice = &p.Min
		w.MaxPrice = &p.Max
	case Text:
		w.Type = KindText
		w.Placeholder = p.Placeholder
	case Percent:
		w.Type = KindPercent
		w.Percent = &p.Ratio
	default:
		return nil, fmt.Errorf("%w: item %q has no pricing", ErrInvalidItem, it.ID)
	}

	return json.Marshal(w)
}

// UnmarshalJSON decodes an item and rejects fields that do not belong to its
// type: a text item may not carry a number and a percent item may not carry a
// unit price.
func (it *LineItem) UnmarshalJSON(data []byte) error {
	var w wireItem
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	if w.Total != nil {
		return fmt.Errorf("%w: total is derived and cannot be supplied", ErrInvalidItem)
	}

	var p Pricing
	switch w.Type {
	case KindFixed:
		if w.UnitPrice == nil {
			return fmt.Errorf("%w: fixed item requires unitPrice", ErrInvalidItem)
		}
		p = Fixed{UnitPrice: *w.UnitPrice}
	case KindRange:
		if w.MinPrice == nil || w.MaxPrice == nil {
			return fmt.Errorf("%w: range item requires minPrice and maxPrice", ErrInvalidItem)
		}
		p = Range{Min: *w.MinPrice, Max: *w.MaxPrice}
	case KindText:
		if w.UnitPrice != nil || w.MinPrice != nil || w.MaxPrice != nil || w.Percent != nil {
			return fmt.Errorf("%w: text item cannot carry a price", ErrInvalidItem)
		}
		p = Text{Placeholder: w.Placeholder}
	case KindPercent:
		if w.UnitPrice != nil || w.MinPrice != nil || w.MaxPrice != nil {
			return fmt.Errorf("%w: percent item cannot carry a unit price", ErrInvalidItem)
		}
		if w.Percent == nil {
			return fmt.Errorf("%w: percent item requires percent", ErrInvalidItem)
		}
		p = Percent{Ratio: *w.Percent}
	default:
		return fmt.Errorf("%w: unknown type %q", ErrInvalidItem, w.Type)
	}

	if w.Quantity == 0 {
		w.Quantity = 1
	}

	*it = LineItem{
		ID:              w.ID,
		Description:     w.Description,
		SubItems:        w.SubItems,
		Quantity:        w.Quantity,
		Price:           p,
		DiscountPercent: w.DiscountPercent,
	}
	return nil
}
