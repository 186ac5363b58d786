package settings

// PageTier prices a contiguous, inclusive range of screen blocks.
type PageTier struct {
	MinBlocks int   `json:"minBlocks"`
	MaxBlocks int   `json:"maxBlocks"`
	Cost      int64 `json:"cost"`
}

// StyleMultiplier holds the page-cost multiplier for each style tier.
type StyleMultiplier struct {
	Normal float64 `json:"normal"`
	Fancy  float64 `json:"fancy"`
}

// FeatureCosts prices the paid features. Every other feature is included at no charge.
type FeatureCosts struct {
	BoardCost             int64 `json:"boardCost"`
	ShoppingBaseCost      int64 `json:"shoppingBaseCost"`
	ShoppingPerUnitCost   int64 `json:"shoppingPerUnitCost"`
	ShoppingIncludedUnits int   `json:"shoppingIncludedUnits"`
}

// ServerCosts prices server maintenance per contract duration.
type ServerCosts struct {
	OneYear   int64 `json:"oneYear"`
	TwoYear   int64 `json:"twoYear"`
	ThreeYear int64 `json:"threeYear"`
}

// DomainCosts prices domain registration.
type DomainCosts struct {
	PerYear           int64 `json:"perYear"`
	TransferSurcharge int64 `json:"transferSurcharge"`
}

// RevisionCosts prices post-delivery revisions.
type RevisionCosts struct {
	Minor int64 `json:"minor"`
	Major int64 `json:"major"`
}

// CustomField is a free-form label/value pair printed on every document.
type CustomField struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Settings is the business's pricing table. It is read-only during a
// calculation; changes go through Store.Save.
type Settings struct {
	Version           int             `json:"version"`
	PageTiers         []PageTier      `json:"pageTiers"`
	ExtraPerTwoBlocks int64           `json:"extraPerTwoBlocks"`
	Style             StyleMultiplier `json:"style"`
	Features          FeatureCosts    `json:"features"`
	Server            ServerCosts     `json:"server"`
	Domain            DomainCosts     `json:"domain"`
	Revision          RevisionCosts   `json:"revision"`
	VATPercent        float64         `json:"vatPercent"`
	CustomFields      []CustomField   `json:"customFields"`
}

// Default returns the documented default pricing table.
func Default() Settings {
	return Settings{
		Version: 1,
		PageTiers: []PageTier{
			{MinBlocks: 1, MaxBlocks: 5, Cost: 200000},
			{MinBlocks: 6, MaxBlocks: 10, Cost: 350000},
			{MinBlocks: 11, MaxBlocks: 15, Cost: 500000},
			{MinBlocks: 16, MaxBlocks: 30, Cost: 600000},
			{MinBlocks: 31, MaxBlocks: 50, Cost: 800000},
		},
		ExtraPerTwoBlocks: 30000,
		Style:             StyleMultiplier{Normal: 1.0, Fancy: 1.2},
		Features: FeatureCosts{
			BoardCost:             100000,
			ShoppingBaseCost:      200000,
			ShoppingPerUnitCost:   10000,
			ShoppingIncludedUnits: 20,
		},
		Server:     ServerCosts{OneYear: 300000, TwoYear: 550000, ThreeYear: 780000},
		Domain:     DomainCosts{PerYear: 20000, TransferSurcharge: 10000},
		Revision:   RevisionCosts{Minor: 50000, Major: 150000},
		VATPercent: 10,
		CustomFields: []CustomField{
			{Label: "Validity", Value: "30 days from the issue date"},
			{Label: "Payment", Value: "50% on contract, 50% on delivery"},
		},
	}
}

// Clone returns a deep copy so callers can edit a draft without touching s.
func (s Settings) Clone() Settings {
	c := s
	c.PageTiers = append([]PageTier(nil), s.PageTiers...)
	c.CustomFields = append([]CustomField(nil), s.CustomFields...)
	return c
}
