package paginate

// Page geometry for an A4 sheet rendered at 96 DPI.
const (
	A4WidthPx  = 794
	A4HeightPx = 1123

	PagePaddingPx        = 96
	FirstHeaderPx        = 320
	ContinuationHeaderPx = 110
	TableHeaderPx        = 40
	FooterPx             = 60
	TotalsBlockPx        = 200
	TotalsMarginPx       = 16

	// TotalsReservePx is the vertical space the totals block takes below
	// the item table, margin included.
	TotalsReservePx = TotalsBlockPx + TotalsMarginPx

	BaseRowPx = 44
	SubItemPx = 20
)

// A4Budget derives the row budgets from the page geometry.
func A4Budget(reserveTotals bool) Budget {
	body := float64(A4HeightPx - PagePaddingPx - TableHeaderPx - FooterPx)
	return Budget{
		First:         body - FirstHeaderPx,
		Continuation:  body - ContinuationHeaderPx,
		TotalsReserve: TotalsReservePx,
		ReserveTotals: reserveTotals,
	}
}

// DefaultMetrics are the row height estimates matching the page templates.
func DefaultMetrics() Metrics {
	return Metrics{BaseRowHeight: BaseRowPx, SubItemHeight: SubItemPx}
}
