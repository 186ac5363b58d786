package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/Simplici0/quotedoc/internal/document"
	"github.com/Simplici0/quotedoc/internal/generator"
	"github.com/Simplici0/quotedoc/internal/pricing"
	"github.com/Simplici0/quotedoc/internal/quote"
)

type layoutPage struct {
	Number     int              `json:"number"`
	Kind       string           `json:"kind"`
	Items      []quote.LineItem `json:"items"`
	ShowTotals bool             `json:"showTotals"`
}

type layoutOutput struct {
	TotalPages     int           `json:"totalPages"`
	Estimate       pricing.Range `json:"estimate"`
	Totals         quote.Totals  `json:"totals"`
	TotalsOverflow bool          `json:"totalsOverflow"`
	Pages          []layoutPage  `json:"pages"`
	PriceMenu      []string      `json:"priceMenu"`
}

func newLayoutCmd(a *app) *cobra.Command {
	var file string

	c := &cobra.Command{
		Use:   "layout",
		Short: "Assemble line items and assign them to pages",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := readRequest(cmd, file)
			if err != nil {
				return err
			}
			provider, database, err := a.open()
			if err != nil {
				return err
			}
			if database != nil {
				defer database.Close()
			}

			gen := &generator.Generator{Settings: provider, Options: document.DefaultOptions(), Log: a.log}
			doc, err := gen.Layout(cmd.Context(), req, nil)
			if err != nil {
				return err
			}

			if a.asJSON {
				return printJSON(cmd.OutOrStdout(), newLayoutOutput(doc))
			}
			return printLayout(cmd.OutOrStdout(), doc)
		},
	}

	c.Flags().StringVarP(&file, "file", "f", "-", "request JSON file, or - for stdin")
	return c
}

func newLayoutOutput(doc document.Document) layoutOutput {
	out := layoutOutput{
		TotalPages:     doc.TotalPages(),
		Estimate:       doc.Estimate,
		Totals:         doc.Totals,
		TotalsOverflow: doc.TotalsOverflow,
		PriceMenu:      doc.PriceMenu,
	}
	for _, p := range doc.Pages {
		out.Pages = append(out.Pages, layoutPage{
			Number:     p.Number,
			Kind:       string(p.Kind),
			Items:      p.Items,
			ShowTotals: p.ShowTotals,
		})
	}
	return out
}

func printLayout(w io.Writer, doc document.Document) error {
	base := pricing.Range{}
	for _, it := range doc.Items {
		if it.ID == quote.IDPageCost {
			if r, ok := it.Price.(quote.Range); ok {
				base = pricing.Range{Min: r.Min, Max: r.Max}
			}
		}
	}

	for _, p := range doc.Pages {
		fmt.Fprintf(w, "Page %d/%d (%s)\n", p.Number, doc.TotalPages(), p.Kind)
		for _, it := range p.Items {
			amount := "-"
			if r, ok := it.Total(base); ok {
				amount = formatRange(r)
			} else if t, ok := it.Price.(quote.Text); ok {
				amount = t.Placeholder
			}
			fmt.Fprintf(w, "  %-48s x%-3d %s\n", it.Description, it.Quantity, amount)
			for _, sub := range it.SubItems {
				fmt.Fprintf(w, "      - %s\n", sub)
			}
		}
		if p.ShowTotals {
			fmt.Fprintf(w, "  Subtotal: %s\n", formatRange(doc.Totals.Subtotal))
			fmt.Fprintf(w, "  VAT (%g%%): %s\n", doc.Totals.VATPercent, formatRange(doc.Totals.VAT))
			fmt.Fprintf(w, "  Total: %s\n", formatRange(doc.Totals.Total))
		}
	}
	if doc.TotalsOverflow {
		fmt.Fprintln(w, "warning: the totals block may not fit on the last page")
	}
	return nil
}
