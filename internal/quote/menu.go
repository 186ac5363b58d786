package quote

import (
	"fmt"

	"github.com/dustin/go-humanize"

	"github.com/Simplici0/quotedoc/internal/pricing"
	"github.com/Simplici0/quotedoc/internal/settings"
)

// PriceMenu lists the informational notes printed under the item table:
// prices for server and domain options that are still pending, and the
// revision rates. Pending options never produce line items.
func PriceMenu(p pricing.ProjectParameters, s settings.Settings) []string {
	var lines []string

	if p.Server.Status == pricing.StatusPending {
		lines = append(lines, fmt.Sprintf(
			"Server maintenance: 1 year %s / 2 years %s / 3 years %s",
			humanize.Comma(s.Server.OneYear),
			humanize.Comma(s.Server.TwoYear),
			humanize.Comma(s.Server.ThreeYear),
		))
	}
	if p.Domain.Status == pricing.StatusPending {
		lines = append(lines, fmt.Sprintf(
			"Domain: %s per year, transfer +%s",
			humanize.Comma(s.Domain.PerYear),
			humanize.Comma(s.Domain.TransferSurcharge),
		))
	}
	lines = append(lines, fmt.Sprintf(
		"Revisions after delivery: minor %s / major %s",
		humanize.Comma(s.Revision.Minor),
		humanize.Comma(s.Revision.Major),
	))

	return lines
}
