package quote

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/Simplici0/quotedoc/internal/pricing"
	"github.com/Simplici0/quotedoc/internal/settings"
)

func ids(items []LineItem) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return out
}

func fullParams() pricing.ProjectParameters {
	return pricing.ProjectParameters{
		Blocks:   pricing.Span{Min: 15, Max: 30},
		Style:    pricing.StyleFancy,
		Features: []pricing.Feature{pricing.FeatureShopping, "gallery", pricing.FeatureBoard},
		Products: pricing.Span{Min: 20, Max: 60},
		Notes:    []pricing.NoteTag{pricing.NoteMigration, pricing.NoteMultilingual},
		Server:   pricing.ServerOption{Status: pricing.StatusConfirmed, Years: 2},
		Domain:   pricing.DomainOption{Status: pricing.StatusConfirmed, Years: 1, Type: pricing.DomainTransfer},
	}
}

func TestAssemble_Order(t *testing.T) {
	manual := []LineItem{
		{ID: "m1", Description: "Logo design", Quantity: 1, Price: Fixed{UnitPrice: 300000}},
		{ID: "m2", Description: "   ", Quantity: 1, Price: Fixed{UnitPrice: 1}},
		{ID: "m3", Description: "Photography", Quantity: 2, Price: Range{Min: 100000, Max: 150000}},
	}

	q := Assemble(fullParams(), settings.Default(), manual)

	want := []string{
		IDPageCost, IDBoard, IDShopping,
		"note-multilingual", "note-migration",
		IDServer, IDDomain,
		"m1", "m3",
	}
	got := ids(q.Items)
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("order = %v, want %v", got, want)
	}
}

func TestAssemble_PageCostItem(t *testing.T) {
	q := Assemble(fullParams(), settings.Default(), nil)
	page := q.Items[0]

	r, ok := page.Price.(Range)
	if !ok {
		t.Fatalf("page cost price = %T, want Range", page.Price)
	}
	if r.Min != 600000 || r.Max != 720000 {
		t.Fatalf("page cost = %+v, want 600000-720000", r)
	}
	if len(page.SubItems) != 1 || !strings.Contains(page.SubItems[0], "fancy") {
		t.Fatalf("unexpected sub-items %v", page.SubItems)
	}
	if q.Base != (pricing.Range{Min: 600000, Max: 720000}) {
		t.Fatalf("base = %+v", q.Base)
	}
}

func TestAssemble_NoBlocksSkipsPageCost(t *testing.T) {
	p := pricing.ProjectParameters{Features: []pricing.Feature{pricing.FeatureBoard}}
	q := Assemble(p, settings.Default(), nil)

	if len(q.Items) != 1 || q.Items[0].ID != IDBoard {
		t.Fatalf("items = %v, want only the board", ids(q.Items))
	}
}

func TestAssemble_RenewalFoldsIntoPageCost(t *testing.T) {
	s := settings.Default()
	p := pricing.ProjectParameters{
		Blocks: pricing.Span{Min: 5, Max: 8},
		Style:  pricing.StyleNormal,
	}
	without := Assemble(p, s, nil)

	p.Notes = []pricing.NoteTag{pricing.NoteRenewal}
	with := Assemble(p, s, nil)

	if len(with.Items) != len(without.Items) {
		t.Fatalf("renewal added a line item: %v", ids(with.Items))
	}
	if len(with.Items[0].SubItems) != len(without.Items[0].SubItems)+1 {
		t.Fatalf("renewal did not annotate page cost: %v", with.Items[0].SubItems)
	}
	if !strings.Contains(with.Items[0].SubItems[1], "Renewal") {
		t.Fatalf("unexpected annotation %q", with.Items[0].SubItems[1])
	}
}

func TestAssemble_EachOtherNoteIsOneTextItem(t *testing.T) {
	s := settings.Default()
	for _, n := range noteTable {
		if n.tag == pricing.NoteRenewal {
			continue
		}
		p := pricing.ProjectParameters{Notes: []pricing.NoteTag{n.tag, n.tag}}
		q := Assemble(p, s, nil)

		if len(q.Items) != 1 {
			t.Fatalf("note %s produced %d items", n.tag, len(q.Items))
		}
		txt, ok := q.Items[0].Price.(Text)
		if !ok || txt.Placeholder != QuoteOnRequest {
			t.Fatalf("note %s price = %#v, want text placeholder", n.tag, q.Items[0].Price)
		}
		if _, priced := q.Items[0].Total(q.Base); priced {
			t.Fatalf("note %s was priced", n.tag)
		}
	}
}

func TestAssemble_PendingOptionsProduceNoItems(t *testing.T) {
	p := pricing.ProjectParameters{
		Server: pricing.ServerOption{Status: pricing.StatusPending},
		Domain: pricing.DomainOption{Status: pricing.StatusPending},
	}
	q := Assemble(p, settings.Default(), nil)
	if len(q.Items) != 0 {
		t.Fatalf("pending options produced items: %v", ids(q.Items))
	}

	menu := PriceMenu(p, settings.Default())
	if len(menu) != 3 || !strings.Contains(menu[0], "300,000") {
		t.Fatalf("unexpected price menu %v", menu)
	}
}

func TestAssemble_ServerAndDomainPrices(t *testing.T) {
	s := settings.Default()
	q := Assemble(fullParams(), s, nil)

	byID := map[string]LineItem{}
	for _, it := range q.Items {
		byID[it.ID] = it
	}
	if got := byID[IDServer].Price.(Fixed).UnitPrice; got != s.Server.TwoYear {
		t.Fatalf("server = %d, want %d", got, s.Server.TwoYear)
	}
	if got := byID[IDDomain].Price.(Fixed).UnitPrice; got != 30000 {
		t.Fatalf("domain = %d, want 30000", got)
	}
	if !strings.HasPrefix(byID[IDDomain].Description, "Domain transfer") {
		t.Fatalf("domain description %q", byID[IDDomain].Description)
	}
}

func TestAssemble_DoesNotMutateInputs(t *testing.T) {
	p := fullParams()
	manual := []LineItem{{Description: "Extra", SubItems: []string{"a"}, Quantity: 1, Price: Fixed{UnitPrice: 10}}}

	q := Assemble(p, settings.Default(), manual)
	q.Items[len(q.Items)-1].SubItems[0] = "changed"

	if manual[0].ID != "" {
		t.Fatal("manual item id was written back to the input")
	}
	if manual[0].SubItems[0] != "a" {
		t.Fatal("manual sub-items share storage with the output")
	}
	if q.Items[len(q.Items)-1].ID == "" {
		t.Fatal("manual item without id was not given one")
	}
}

func TestLineItemTotal(t *testing.T) {
	base := pricing.Range{Min: 600000, Max: 720000}
	tests := []struct {
		name   string
		item   LineItem
		want   pricing.Range
		priced bool
	}{
		{"fixed", LineItem{Quantity: 2, Price: Fixed{UnitPrice: 50000}}, pricing.Fixed(100000), true},
		{"fixed discount", LineItem{Quantity: 1, Price: Fixed{UnitPrice: 100000}, DiscountPercent: 10}, pricing.Fixed(90000), true},
		{"range discount", LineItem{Quantity: 1, Price: Range{Min: 100000, Max: 200000}, DiscountPercent: 50}, pricing.Range{Min: 50000, Max: 100000}, true},
		{"percent ignores discount", LineItem{Quantity: 1, Price: Percent{Ratio: 10}, DiscountPercent: 50}, pricing.Range{Min: 60000, Max: 72000}, true},
		{"text", LineItem{Quantity: 1, Price: Text{Placeholder: "TBD"}}, pricing.Range{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.item.Total(base)
			if ok != tt.priced || got != tt.want {
				t.Fatalf("Total = %+v,%v want %+v,%v", got, ok, tt.want, tt.priced)
			}
			if tt.item.Priced() != tt.priced {
				t.Fatalf("Priced = %v, want %v", tt.item.Priced(), tt.priced)
			}
		})
	}
}

func TestSummarize_SkipsUnpricedItems(t *testing.T) {
	items := []LineItem{
		{Quantity: 1, Price: Fixed{UnitPrice: 100000}},
		{Quantity: 1, Price: Text{Placeholder: "Quote on request"}},
		{Quantity: 1},
	}
	got := Summarize(items, pricing.Range{}, 10)
	if got.Subtotal != pricing.Fixed(100000) || got.Total != pricing.Fixed(110000) {
		t.Fatalf("totals = %+v", got)
	}
}

func TestSummarize_ScenarioWithVAT(t *testing.T) {
	p := pricing.ProjectParameters{
		Blocks:   pricing.Span{Min: 15, Max: 30},
		Style:    pricing.StyleFancy,
		Features: []pricing.Feature{pricing.FeatureShopping},
		Products: pricing.Span{Min: 20, Max: 60},
		Notes:    []pricing.NoteTag{pricing.NoteIntegration},
	}
	q := Assemble(p, settings.Default(), nil)

	if q.Totals.Subtotal != (pricing.Range{Min: 800000, Max: 1320000}) {
		t.Fatalf("subtotal = %+v", q.Totals.Subtotal)
	}
	if q.Totals.VAT != (pricing.Range{Min: 80000, Max: 132000}) {
		t.Fatalf("vat = %+v", q.Totals.VAT)
	}
	if q.Totals.Total != (pricing.Range{Min: 880000, Max: 1452000}) {
		t.Fatalf("total = %+v", q.Totals.Total)
	}
}

func TestLineItemJSON(t *testing.T) {
	raw := `[
		{"description":"Design","type":"fixed","unitPrice":100000},
		{"description":"Copy","type":"range","minPrice":10,"maxPrice":20,"quantity":3},
		{"description":"Hosting","type":"text","placeholder":"Quote on request"},
		{"description":"PM","type":"percent","percent":10}
	]`

	var items []LineItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if items[0].Quantity != 1 {
		t.Fatalf("missing quantity should default to 1, got %d", items[0].Quantity)
	}
	if _, ok := items[2].Price.(Text); !ok {
		t.Fatalf("item 2 price = %T", items[2].Price)
	}
	if p, ok := items[3].Price.(Percent); !ok || p.Ratio != 10 {
		t.Fatalf("item 3 price = %#v", items[3].Price)
	}

	encoded, err := json.Marshal(items[1])
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if !strings.Contains(string(encoded), `"type":"range"`) {
		t.Fatalf("encoded item lacks discriminator: %s", encoded)
	}
}

func TestLineItemJSON_RejectsMismatchedFields(t *testing.T) {
	for _, raw := range []string{
		`{"description":"x","type":"text","unitPrice":5}`,
		`{"description":"x","type":"percent","percent":5,"unitPrice":5}`,
		`{"description":"x","type":"percent"}`,
		`{"description":"x","type":"range","minPrice":1}`,
		`{"description":"x","type":"fixed"}`,
		`{"description":"x","type":"fixed","unitPrice":1,"total":2}`,
		`{"description":"x","type":"bogus"}`,
	} {
		var it LineItem
		if err := json.Unmarshal([]byte(raw), &it); !errors.Is(err, ErrInvalidItem) {
			t.Errorf("Unmarshal(%s) = %v, want ErrInvalidItem", raw, err)
		}
	}
}
