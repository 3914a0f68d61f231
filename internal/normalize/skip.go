package normalize

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// Filter rejects statement lines and parsed candidates that are not real
// transaction flows: section headers, running totals, marketing
// boilerplate, and certificate balances that only look like transactions.
type Filter struct {
	skipPatterns  []*regexp.Regexp
	headerWords   map[string]struct{}
	minDescLen    int
	amountCeiling decimal.Decimal
}

// FilterConfig tunes the rejection rules. Zero values fall back to the
// defaults used by the statement layouts this pipeline targets.
type FilterConfig struct {
	ExtraSkipPatterns []string
	MinDescLen        int
	AmountCeiling     decimal.Decimal
}

var defaultSkipPatterns = []string{
	`(?i)^\s*(date|description|amount|balance|debits?|credits?|withdrawals?|deposits?)\s*$`,
	`(?i)(beginning|ending|opening|closing|previous|new)\s+balance`,
	`(?i)total\s+(deposits|withdrawals|credits|debits|fees|checks|for\s+this\s+period)`,
	`(?i)balance\s+(forward|summary|this\s+statement)`,
	`(?i)(page\s+\d+\s+of\s+\d+|continued\s+on\s+next\s+page)`,
	`(?i)(member\s+fdic|ncua|equal\s+housing|all\s+accounts.*insured)`,
	`(?i)(thank\s+you\s+for\s+banking|questions\s+about|customer\s+service|visit\s+us\s+at)`,
	`(?i)annual\s+percentage\s+yield`,
	`(?i)(certificate|share\s+cert|cd)\s+(account|balance)`,
	`(?i)statement\s+period`,
	`(?i)account\s+(number|summary|activity)`,
}

var exactHeaderKeywords = []string{
	"date", "description", "amount", "balance", "debit", "credit",
	"deposits", "withdrawals", "checks", "transaction", "transactions",
}

// NewFilter compiles the skip rules.
func NewFilter(cfg FilterConfig) *Filter {
	f := &Filter{
		headerWords: make(map[string]struct{}, len(exactHeaderKeywords)),
		minDescLen:  cfg.MinDescLen,
	}
	if f.minDescLen == 0 {
		f.minDescLen = 3
	}
	f.amountCeiling = cfg.AmountCeiling
	if f.amountCeiling.IsZero() {
		// Excludes certificate and investment balances that show up in
		// account-summary tables but are not transaction flows.
		f.amountCeiling = decimal.NewFromInt(1_000_000)
	}
	for _, p := range defaultSkipPatterns {
		f.skipPatterns = append(f.skipPatterns, regexp.MustCompile(p))
	}
	for _, p := range cfg.ExtraSkipPatterns {
		f.skipPatterns = append(f.skipPatterns, regexp.MustCompile(p))
	}
	for _, w := range exactHeaderKeywords {
		f.headerWords[w] = struct{}{}
	}
	return f
}

// SkipLine reports whether a raw line is a known non-transaction line and
// should never reach the row matcher.
func (f *Filter) SkipLine(line string) bool {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return true
	}
	for _, p := range f.skipPatterns {
		if p.MatchString(trimmed) {
			return true
		}
	}
	return false
}

// RejectCandidate applies the post-match checks to an already-parsed
// description and amount. It returns a human-readable reason, or "" when
// the candidate survives.
func (f *Filter) RejectCandidate(description string, amount decimal.Decimal) string {
	desc := strings.TrimSpace(description)
	if len(desc) < f.minDescLen {
		return "description too short"
	}
	if isPurelyNumeric(desc) {
		return "description is numeric"
	}
	if _, header := f.headerWords[strings.ToLower(desc)]; header {
		return "description is a column header"
	}
	if amount.Abs().GreaterThan(f.amountCeiling) {
		return "amount exceeds sanity ceiling"
	}
	return ""
}

// AmountCeiling exposes the configured sanity ceiling for warning checks.
func (f *Filter) AmountCeiling() decimal.Decimal {
	return f.amountCeiling
}

func isPurelyNumeric(s string) bool {
	for _, r := range s {
		if r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' {
			return false
		}
	}
	return true
}
