package ledger

import "github.com/shopspring/decimal"

// Totals sums receipts and disbursements separately. Amounts are stored
// positive so both sums are plain additions.
func Totals(txs []Transaction) (receipts, disbursements decimal.Decimal) {
	for _, tx := range txs {
		switch tx.Direction {
		case Receipt:
			receipts = receipts.Add(tx.Amount)
		case Disbursement:
			disbursements = disbursements.Add(tx.Amount)
		}
	}
	return receipts, disbursements
}
