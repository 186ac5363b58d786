package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/Simplici0/quotedoc/internal/settings"
)

// ShoppingRoundingUnit is the increment the shopping overage is rounded up to.
const ShoppingRoundingUnit int64 = 50000

// Range is a min/max pair of currency amounts. Min == Max is a valid,
// degenerate range.
type Range struct {
	Min int64 `json:"min"`
	Max int64 `json:"max"`
}

// Fixed returns the degenerate range [v, v].
func Fixed(v int64) Range { return Range{Min: v, Max: v} }

// Add returns the element-wise sum of r and o.
func (r Range) Add(o Range) Range {
	return Range{Min: r.Min + o.Min, Max: r.Max + o.Max}
}

// Degenerate reports whether both bounds are equal.
func (r Range) Degenerate() bool { return r.Min == r.Max }

// PageCost prices a number of screen blocks. Blocks below the first tier
// take the first tier's cost; blocks beyond the last tier add
// ExtraPerTwoBlocks for every started pair of extra blocks.
func PageCost(blocks int, s settings.Settings) int64 {
	if len(s.PageTiers) == 0 {
		return 0
	}
	for _, t := range s.PageTiers {
		if blocks <= t.MaxBlocks {
			return t.Cost
		}
	}

	last := s.PageTiers[len(s.PageTiers)-1]
	over := int64(blocks - last.MaxBlocks)
	return last.Cost + (over+1)/2*s.ExtraPerTwoBlocks
}

// PageCostRange prices both bounds independently; they may land in
// different tiers.
func PageCostRange(minBlocks, maxBlocks int, s settings.Settings) Range {
	return Range{Min: PageCost(minBlocks, s), Max: PageCost(maxBlocks, s)}
}

// ApplyStyleMultiplier scales cost by the style tier's multiplier and rounds
// to the nearest currency unit.
func ApplyStyleMultiplier(cost int64, fancy bool, s settings.Settings) int64 {
	m := s.Style.Normal
	if fancy {
		m = s.Style.Fancy
	}
	return decimal.NewFromInt(cost).Mul(decimal.NewFromFloat(m)).Round(0).IntPart()
}

// ApplyStyleRange applies ApplyStyleMultiplier to both bounds.
func ApplyStyleRange(r Range, fancy bool, s settings.Settings) Range {
	return Range{
		Min: ApplyStyleMultiplier(r.Min, fancy, s),
		Max: ApplyStyleMultiplier(r.Max, fancy, s),
	}
}

// ShoppingCost prices an online shop by product count. The overage beyond the
// included units is rounded up to ShoppingRoundingUnit.
func ShoppingCost(products int, s settings.Settings) int64 {
	f := s.Features
	if products <= f.ShoppingIncludedUnits {
		return f.ShoppingBaseCost
	}

	extra := int64(products-f.ShoppingIncludedUnits) * f.ShoppingPerUnitCost
	rounded := (extra + ShoppingRoundingUnit - 1) / ShoppingRoundingUnit * ShoppingRoundingUnit
	return f.ShoppingBaseCost + rounded
}

// DomainCost prices a domain for the given number of years.
func DomainCost(years int, transfer bool, s settings.Settings) int64 {
	cost := s.Domain.PerYear * int64(years)
	if transfer {
		cost += s.Domain.TransferSurcharge
	}
	return cost
}

// ServerCost prices server maintenance. Durations below one year use the
// one-year tier and durations above three years use the three-year tier.
func ServerCost(years int, s settings.Settings) int64 {
	switch {
	case years <= 1:
		return s.Server.OneYear
	case years == 2:
		return s.Server.TwoYear
	default:
		return s.Server.ThreeYear
	}
}

// PageRange is the style-adjusted page-production range, or zero when no
// blocks were requested.
func PageRange(p ProjectParameters, s settings.Settings) Range {
	if p.Blocks.Min <= 0 {
		return Range{}
	}
	return ApplyStyleRange(PageCostRange(p.Blocks.Min, p.Blocks.Max, s), p.Fancy(), s)
}

// ShoppingRange prices both bounds of the product-count range.
func ShoppingRange(p ProjectParameters, s settings.Settings) Range {
	return Range{
		Min: ShoppingCost(p.Products.Min, s),
		Max: ShoppingCost(p.Products.Max, s),
	}
}

// FeatureCost sums the paid features. Other features cost nothing.
func FeatureCost(p ProjectParameters, s settings.Settings) Range {
	var r Range
	if p.HasFeature(FeatureBoard) {
		r = r.Add(Fixed(s.Features.BoardCost))
	}
	if p.HasFeature(FeatureShopping) {
		r = r.Add(ShoppingRange(p, s))
	}
	return r
}

// TotalEstimate is the style-adjusted page cost plus the feature cost.
func TotalEstimate(p ProjectParameters, s settings.Settings) Range {
	return PageRange(p, s).Add(FeatureCost(p, s))
}

// ApplyPercent returns percent% of amount, rounded to a currency unit.
func ApplyPercent(amount int64, percent float64) int64 {
	return decimal.NewFromInt(amount).
		Mul(decimal.NewFromFloat(percent)).
		Div(decimal.NewFromInt(100)).
		Round(0).
		IntPart()
}

// ApplyDiscount reduces amount by percent%, rounded to a currency unit.
func ApplyDiscount(amount int64, percent float64) int64 {
	if percent <= 0 {
		return amount
	}
	return amount - ApplyPercent(amount, percent)
}
