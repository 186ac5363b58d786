package settings

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid pricing settings")

// Merge decodes persisted settings over Default so fields missing from older
// records keep their default values. Lists are replaced whole, never merged
// element by element: a missing or empty tier list keeps the default tiers and
// a missing custom field list keeps the default fields.
func Merge(raw []byte) (Settings, error) {
	s := Default()
	if len(raw) == 0 {
		return s, nil
	}

	// json reuses existing slice elements, which would leak default values
	// into stored tiers that omit a field.
	s.PageTiers = nil
	s.CustomFields = nil
	if err := json.Unmarshal(raw, &s); err != nil {
		return Default(), fmt.Errorf("decode pricing settings: %w", err)
	}

	d := Default()
	if len(s.PageTiers) == 0 {
		s.PageTiers = d.PageTiers
	}
	if s.CustomFields == nil {
		s.CustomFields = d.CustomFields
	}

	return s, nil
}

// Validate checks the invariants the calculator relies on. It runs when
// settings are edited, never during a calculation.
func (s Settings) Validate() error {
	if len(s.PageTiers) == 0 {
		return fmt.Errorf("%w: at least one page tier is required", ErrInvalid)
	}
	for i, t := range s.PageTiers {
		if t.MinBlocks < 1 {
			return fmt.Errorf("%w: tier %d min blocks must be at least 1", ErrInvalid, i+1)
		}
		if t.MinBlocks > t.MaxBlocks {
			return fmt.Errorf("%w: tier %d min blocks %d exceeds max blocks %d", ErrInvalid, i+1, t.MinBlocks, t.MaxBlocks)
		}
		if t.Cost < 0 {
			return fmt.Errorf("%w: tier %d cost must not be negative", ErrInvalid, i+1)
		}
		if i > 0 {
			prev := s.PageTiers[i-1]
			if t.MinBlocks != prev.MaxBlocks+1 {
				return fmt.Errorf("%w: tier %d must start at %d", ErrInvalid, i+1, prev.MaxBlocks+1)
			}
		}
	}

	if s.Style.Normal <= 0 || s.Style.Fancy <= 0 {
		return fmt.Errorf("%w: style multipliers must be positive", ErrInvalid)
	}
	if s.Features.ShoppingIncludedUnits < 0 {
		return fmt.Errorf("%w: included shopping units must not be negative", ErrInvalid)
	}
	if s.VATPercent < 0 || s.VATPercent > 100 {
		return fmt.Errorf("%w: VAT percent must be between 0 and 100", ErrInvalid)
	}

	costs := map[string]int64{
		"extraPerTwoBlocks":   s.ExtraPerTwoBlocks,
		"boardCost":           s.Features.BoardCost,
		"shoppingBaseCost":    s.Features.ShoppingBaseCost,
		"shoppingPerUnitCost": s.Features.ShoppingPerUnitCost,
		"server.oneYear":      s.Server.OneYear,
		"server.twoYear":      s.Server.TwoYear,
		"server.threeYear":    s.Server.ThreeYear,
		"domain.perYear":      s.Domain.PerYear,
		"domain.transfer":     s.Domain.TransferSurcharge,
		"revision.minor":      s.Revision.Minor,
		"revision.major":      s.Revision.Major,
	}
	for name, v := range costs {
		if v < 0 {
			return fmt.Errorf("%w: %s must not be negative", ErrInvalid, name)
		}
	}

	return nil
}
