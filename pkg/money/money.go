// Package money renders ledger amounts for display. Internal arithmetic
// stays on decimals; go-money supplies the locale-correct currency
// formatting for schedules and console output.
package money

import (
	gomoney "github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// FormatUSD renders a decimal dollar amount with symbol and thousands
// separators, e.g. 1234.5 -> "$1,234.50". Sub-cent precision is rounded
// half up before formatting.
func FormatUSD(d decimal.Decimal) string {
	cents := d.Shift(2).Round(0).IntPart()
	return gomoney.New(cents, gomoney.USD).Display()
}
