// Package extract turns raw document content (text lines or table cell
// grids) into candidate transactions. One parameterized extractor covers
// every statement layout; per-institution differences are data (keyword
// sets, section markers, skip patterns), not code.
package extract

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rozsagyenelaw/accounting-app/internal/ledger"
)

// DirectionHint records what the surrounding document context implied about
// a candidate before classification. Section headers override keyword
// inference for lines that carry no keyword of their own.
type DirectionHint int

const (
	HintNone DirectionHint = iota
	HintReceipt
	HintDisbursement
)

// Candidate is a provisionally extracted transaction. It may be incomplete;
// the extractor discards any candidate missing a date, description, or
// amount before it leaves the package.
type Candidate struct {
	Date        time.Time
	Description string
	Amount      decimal.Decimal // signed as printed
	CheckNumber string
	Hint        DirectionHint
	Raw         string
}

// receiptKeywords is the shared fallback list used when neither a section
// header nor a sign gives the direction away.
var receiptKeywords = []string{
	"deposit", "credit", "refund", "interest", "dividend",
	"wire in", "incoming wire", "direct dep", "ach credit",
	"reimbursement", "rebate",
}

// InferDirection derives the flow direction for a candidate. Precedence:
// explicit section hint, then amount sign, then the shared keyword list.
// Everything unmatched is a disbursement.
func InferDirection(c Candidate) ledger.Direction {
	switch c.Hint {
	case HintReceipt:
		return ledger.Receipt
	case HintDisbursement:
		return ledger.Disbursement
	}
	if c.Amount.IsNegative() {
		return ledger.Disbursement
	}
	desc := strings.ToLower(c.Description)
	for _, kw := range receiptKeywords {
		if strings.Contains(desc, kw) {
			return ledger.Receipt
		}
	}
	return ledger.Disbursement
}
