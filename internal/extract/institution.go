package extract

import "regexp"

// Profile parameterizes the extractor for one institution's statement
// layout. The same scanning core runs for every profile; only the section
// markers, keyword sets, and skip patterns differ.
type Profile struct {
	ID string

	// Section headers that flip the line scanner's state.
	ReceiptSections      []*regexp.Regexp
	DisbursementSections []*regexp.Regexp
	CheckSections        []*regexp.Regexp

	// Institution-specific lines to drop before row matching, on top of
	// the shared filter.
	SkipPatterns []string

	// UsesPartialDates marks layouts that print MM/DD with the year only
	// in the statement-period header.
	UsesPartialDates bool
}

var profiles = map[string]Profile{
	// Credit-union layout: MM/DD dates, "Deposit Dividend" receipts,
	// sections labeled by share account.
	"creditunion": {
		ID: "creditunion",
		ReceiptSections: compileAll(
			`(?i)^deposits(\s+and\s+(other\s+)?(credits|dividends))?\b`,
			`(?i)^dividends?\s+(paid|earned)\b`,
		),
		DisbursementSections: compileAll(
			`(?i)^withdrawals(\s+and\s+(other\s+)?debits)?\b`,
			`(?i)^fees?\s+(charged|and\s+service\s+charges)\b`,
		),
		CheckSections: compileAll(
			`(?i)^(drafts|checks)\s+(cleared|paid)\b`,
		),
		SkipPatterns: []string{
			`(?i)^(share|savings|checking)\s+(id|account)\b`,
			`(?i)dividend\s+rate\s+summary`,
		},
		UsesPartialDates: true,
	},

	// Retail-bank layout: full MM/DD/YYYY dates, classic three-section
	// statement body.
	"bank": {
		ID: "bank",
		ReceiptSections: compileAll(
			`(?i)^deposits\s+and\s+other\s+credits\b`,
			`(?i)^electronic\s+deposits\b`,
		),
		DisbursementSections: compileAll(
			`(?i)^(withdrawals|payments)\s+and\s+other\s+debits\b`,
			`(?i)^electronic\s+payments\b`,
			`(?i)^other\s+withdrawals\b`,
			`(?i)^service\s+fees\b`,
		),
		CheckSections: compileAll(
			`(?i)^checks\s+(paid|in\s+serial\s+order)\b`,
		),
		SkipPatterns: []string{
			`(?i)^daily\s+balance\s+summary`,
			`(?i)^how\s+to\s+balance\s+your\s+account`,
		},
	},

	// Fallback for unrecognized text layouts, table mode, and spreadsheet
	// rows: no section structure, direction from the shared keyword list.
	"generic": {
		ID: "generic",
	},
}

// ProfileFor returns the extraction profile for an institution identifier,
// falling back to the generic profile.
func ProfileFor(id string) Profile {
	if p, ok := profiles[id]; ok {
		return p
	}
	return profiles["generic"]
}

func compileAll(patterns ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		out = append(out, regexp.MustCompile(p))
	}
	return out
}
