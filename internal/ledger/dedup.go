package ledger

import (
	"fmt"
	"sort"
	"strings"
)

// signature builds the duplicate-detection key for a transaction. Two rows
// with the same date, normalized description, and amount are considered the
// same transaction regardless of which extraction strategy produced them.
func signature(tx Transaction) string {
	return fmt.Sprintf("%s|%s|%s",
		tx.Date.Format("2006-01-02"),
		strings.ToUpper(strings.TrimSpace(tx.Description)),
		tx.Amount.StringFixed(2),
	)
}

// Dedup drops transactions whose signature has already been seen, preserving
// the first occurrence. Deduplicating an already-deduplicated list is a no-op.
func Dedup(txs []Transaction) ([]Transaction, int) {
	seen := make(map[string]struct{}, len(txs))
	out := make([]Transaction, 0, len(txs))
	for _, tx := range txs {
		sig := signature(tx)
		if _, dup := seen[sig]; dup {
			continue
		}
		seen[sig] = struct{}{}
		out = append(out, tx)
	}
	return out, len(txs) - len(out)
}

// SortByDate orders transactions chronologically, oldest first. The sort is
// stable so same-day transactions keep their extraction order.
func SortByDate(txs []Transaction) {
	sort.SliceStable(txs, func(i, j int) bool {
		return txs[i].Date.Before(txs[j].Date)
	})
}
