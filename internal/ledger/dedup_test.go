package ledger

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func tx(date string, desc string, amount string) Transaction {
	d, _ := time.Parse("2006-01-02", date)
	return Transaction{
		Date:        d,
		Description: desc,
		Amount:      decimal.RequireFromString(amount),
		Direction:   Receipt,
	}
}

func TestDedup(t *testing.T) {
	t.Run("drops exact duplicates keeping first occurrence", func(t *testing.T) {
		first := tx("2023-04-01", "Deposit Dividend", "75.99")
		first.SourceTag = "table"
		second := tx("2023-04-01", "Deposit Dividend", "75.99")
		second.SourceTag = "paragraph"

		out, removed := Dedup([]Transaction{first, second})

		assert.Len(t, out, 1)
		assert.Equal(t, 1, removed)
		assert.Equal(t, "table", out[0].SourceTag)
	})

	t.Run("treats description case-insensitively", func(t *testing.T) {
		out, removed := Dedup([]Transaction{
			tx("2023-04-01", "CVS PHARMACY", "12.50"),
			tx("2023-04-01", "cvs pharmacy", "12.50"),
		})
		assert.Len(t, out, 1)
		assert.Equal(t, 1, removed)
	})

	t.Run("keeps rows differing in any key field", func(t *testing.T) {
		out, removed := Dedup([]Transaction{
			tx("2023-04-01", "Deposit", "75.99"),
			tx("2023-04-02", "Deposit", "75.99"),
			tx("2023-04-01", "Deposit", "76.00"),
		})
		assert.Len(t, out, 3)
		assert.Zero(t, removed)
	})

	t.Run("is idempotent", func(t *testing.T) {
		once, _ := Dedup([]Transaction{
			tx("2023-04-01", "Deposit", "75.99"),
			tx("2023-04-01", "Deposit", "75.99"),
			tx("2023-05-01", "Check 101", "200.00"),
		})
		twice, removed := Dedup(once)
		assert.Equal(t, once, twice)
		assert.Zero(t, removed)
	})
}

func TestSortByDate(t *testing.T) {
	txs := []Transaction{
		tx("2023-06-15", "c", "1.00"),
		tx("2023-01-02", "a", "1.00"),
		tx("2023-01-02", "b", "2.00"),
	}
	SortByDate(txs)

	assert.Equal(t, "a", txs[0].Description)
	assert.Equal(t, "b", txs[1].Description)
	assert.Equal(t, "c", txs[2].Description)
}
