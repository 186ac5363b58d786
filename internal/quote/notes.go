package quote

import "github.com/Simplici0/quotedoc/internal/pricing"

// QuoteOnRequest is the placeholder printed on special-note rows.
const QuoteOnRequest = "Quote on request"

type noteText struct {
	tag         pricing.NoteTag
	description string
	subItems    []string
}

// noteTable is ordered; special-note rows follow this order regardless of
// the order the tags were selected in.
var noteTable = []noteText{
	{
		tag:         pricing.NoteRenewal,
		description: "Renewal of an existing site",
		subItems:    []string{"Existing content is reviewed and migrated page by page"},
	},
	{
		tag:         pricing.NoteMultilingual,
		description: "Multilingual support",
		subItems:    []string{"Language switcher and per-language pages", "Translation is supplied by the client"},
	},
	{
		tag:         pricing.NoteMembership,
		description: "Member accounts",
		subItems:    []string{"Sign-up, login and profile pages", "Social login scoped after consultation"},
	},
	{
		tag:         pricing.NoteIntegration,
		description: "External system integration",
		subItems:    []string{"Third-party API or ERP connection", "Scope depends on the provider's documentation"},
	},
	{
		tag:         pricing.NoteCustomAdmin,
		description: "Custom admin features",
		subItems:    []string{"Back-office screens beyond the standard CMS"},
	},
	{
		tag:         pricing.NoteMigration,
		description: "Data migration",
		subItems:    []string{"Import of posts, members or products from the current system"},
	},
}

func lookupNote(tag pricing.NoteTag) (noteText, bool) {
	for _, n := range noteTable {
		if n.tag == tag {
			return n, true
		}
	}
	return noteText{}, false
}
