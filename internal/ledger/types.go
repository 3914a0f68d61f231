// Package ledger defines the normalized transaction model shared by the
// extraction, classification, and reconciliation layers.
package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

// Direction indicates whether money flowed into or out of the estate.
type Direction string

const (
	Receipt      Direction = "RECEIPT"
	Disbursement Direction = "DISBURSEMENT"
)

// Transaction is the final unit of the ledger. Amount is always positive;
// Direction carries the sign and is derived exactly once, at classification
// time. Transactions are immutable after classification.
type Transaction struct {
	Date        time.Time
	Description string
	Amount      decimal.Decimal
	Direction   Direction
	Category    string
	SubCategory string
	Confidence  int // 0-100, classifier certainty (not a probability)
	CheckNumber string
	SourceTag   string
}

// ParseResult is produced once per input document. Errors and Warnings are
// human-readable diagnostic strings surfaced directly to the end user.
type ParseResult struct {
	Transactions []Transaction
	Errors       []string
	Warnings     []string
}

// Merge appends another result's transactions and diagnostics.
func (r *ParseResult) Merge(other *ParseResult) {
	if other == nil {
		return
	}
	r.Transactions = append(r.Transactions, other.Transactions...)
	r.Errors = append(r.Errors, other.Errors...)
	r.Warnings = append(r.Warnings, other.Warnings...)
}
