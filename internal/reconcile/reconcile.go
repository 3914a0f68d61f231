// Package reconcile checks the court-accounting balance identity over a
// completed transaction set: opening balances plus receipts must equal
// disbursements plus ending balances.
package reconcile

import (
	"github.com/shopspring/decimal"

	"github.com/rozsagyenelaw/accounting-app/internal/ledger"
)

// tolerance is a fixed absolute rounding allowance, not a percentage.
var tolerance = decimal.RequireFromString("0.01")

// Balances carries the asset figures reported outside the transaction
// flow. Gains/other charges and losses/distribution line items are
// optional schedule entries.
type Balances struct {
	OpeningCash    decimal.Decimal
	OpeningNonCash decimal.Decimal
	ClosingCash    decimal.Decimal
	ClosingNonCash decimal.Decimal
	Gains          decimal.Decimal
	Losses         decimal.Decimal
}

// Report is the reconciliation result. It is derived state: always
// recomputed from the current transactions and balances, never persisted
// as authoritative.
type Report struct {
	IsBalanced bool
	Charges    decimal.Decimal
	Credits    decimal.Decimal
	Difference decimal.Decimal
}

// Run computes the charge and credit sides of the accounting identity and
// reports whether they balance within the rounding tolerance.
func Run(txs []ledger.Transaction, b Balances) Report {
	receipts, disbursements := ledger.Totals(txs)

	charges := b.OpeningCash.Add(b.OpeningNonCash).Add(receipts).Add(b.Gains)
	credits := disbursements.Add(b.Losses).Add(b.ClosingCash).Add(b.ClosingNonCash)
	diff := charges.Sub(credits)

	return Report{
		IsBalanced: diff.Abs().LessThan(tolerance),
		Charges:    charges,
		Credits:    credits,
		Difference: diff,
	}
}
