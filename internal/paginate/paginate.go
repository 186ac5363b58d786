// Package paginate splits an ordered list of rows into printable pages using
// per-row height estimates and per-page height budgets.
package paginate

// Kind is the layout mode of a page.
type Kind string

const (
	// First pages carry the large document header.
	First Kind = "first"
	// Continuation pages carry a compact header.
	Continuation Kind = "continuation"
)

// Budget holds the available row heights, in CSS pixels, per page kind.
type Budget struct {
	First         float64
	Continuation  float64
	TotalsReserve float64
	// ReserveTotals subtracts TotalsReserve from the first page only.
	ReserveTotals bool
}

// FirstAvailable is the row height available on the first page.
func (b Budget) FirstAvailable() float64 {
	if b.ReserveTotals {
		return b.First - b.TotalsReserve
	}
	return b.First
}

// Available returns the row height available on a page of kind k.
func (b Budget) Available(k Kind) float64 {
	if k == First {
		return b.FirstAvailable()
	}
	return b.Continuation
}

// Metrics estimates row heights without measuring rendered markup.
type Metrics struct {
	BaseRowHeight float64
	SubItemHeight float64
}

// Height is the estimated height of a row with n sub-item lines.
func (m Metrics) Height(n int) float64 {
	return m.BaseRowHeight + float64(n)*m.SubItemHeight
}

// Page is one printable sheet's worth of rows.
type Page[T any] struct {
	Number int
	Kind   Kind
	Items  []T
	// Used is the summed height estimate of Items.
	Used float64
}

// Layout is the result of Paginate. It always has at least one page.
type Layout[T any] struct {
	Pages  []Page[T]
	Budget Budget
}

// TotalPages is the number of pages.
func (l Layout[T]) TotalPages() int { return len(l.Pages) }

// IsLastItemPage reports whether page number n (1-based) is the page the
// totals block should render on.
func (l Layout[T]) IsLastItemPage(n int) bool {
	return n == len(l.Pages)
}

// TotalsMayOverflow reports whether a totals block of the given height does
// not fit below the rows of the last page. Only the first page's budget
// reserves room for totals, so a continuation last page can overflow.
func (l Layout[T]) TotalsMayOverflow(totalsHeight float64) bool {
	last := l.Pages[len(l.Pages)-1]
	full := l.Budget.Continuation
	if last.Kind == First {
		full = l.Budget.First
	}
	return last.Used+totalsHeight > full
}

// Paginate walks items in order, filling each page while the accumulated
// height stays within the page's budget. An overflowing row starts a new
// continuation page. A row taller than an empty page is placed alone; the
// function never fails and never reorders, drops or duplicates rows.
func Paginate[T any](items []T, height func(T) float64, b Budget) Layout[T] {
	cur := Page[T]{Number: 1, Kind: First, Items: []T{}}
	var pages []Page[T]

	for _, it := range items {
		h := height(it)
		if len(cur.Items) > 0 && cur.Used+h > b.Available(cur.Kind) {
			pages = append(pages, cur)
			cur = Page[T]{Number: cur.Number + 1, Kind: Continuation}
		}
		cur.Items = append(cur.Items, it)
		cur.Used += h
	}
	pages = append(pages, cur)

	return Layout[T]{Pages: pages, Budget: b}
}
