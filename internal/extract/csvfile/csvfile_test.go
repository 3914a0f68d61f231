package csvfile

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rozsagyenelaw/accounting-app/internal/extract"
	"github.com/rozsagyenelaw/accounting-app/internal/ledger"
)

func newTestParser() *Parser {
	return New(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestParser_SingleAmountColumn(t *testing.T) {
	data := []byte(`Date,Description,Amount
04/03/2023,SSA TREAS 310 XXSOC SEC,1543.00
04/12/2023,CVS PHARMACY #1234,-45.67`)

	candidates, errs, err := newTestParser().Parse(data)

	require.NoError(t, err)
	assert.Empty(t, errs)
	require.Len(t, candidates, 2)

	assert.Equal(t, "SSA TREAS 310 XXSOC SEC", candidates[0].Description)
	assert.Equal(t, "1543.00", candidates[0].Amount.StringFixed(2))
	assert.Equal(t, ledger.Receipt, extract.InferDirection(candidates[0]))

	assert.True(t, candidates[1].Amount.IsNegative())
	assert.Equal(t, ledger.Disbursement, extract.InferDirection(candidates[1]))
}

func TestParser_DebitCreditColumns(t *testing.T) {
	data := []byte(`Date;Description;Debit;Credit
04/03/2023;Pension payment received;;2100.00
04/12/2023;Utility autopay;210.33;`)

	candidates, errs, err := newTestParser().Parse(data)

	require.NoError(t, err)
	assert.Empty(t, errs)
	require.Len(t, candidates, 2)

	assert.Equal(t, extract.HintReceipt, candidates[0].Hint)
	assert.Equal(t, "2100.00", candidates[0].Amount.StringFixed(2))

	assert.Equal(t, extract.HintDisbursement, candidates[1].Hint)
	assert.Equal(t, "210.33", candidates[1].Amount.StringFixed(2))
}

func TestParser_CheckNumberColumn(t *testing.T) {
	data := []byte(`Date,Description,Amount,Check Number
04/18/2023,Check to caregiver,-500.00,1047`)

	candidates, _, err := newTestParser().Parse(data)

	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, "1047", candidates[0].CheckNumber)
}

func TestParser_RowDiagnostics(t *testing.T) {
	data := []byte(`Date,Description,Amount
not-a-date,Something,10.00
04/03/2023,,10.00
04/04/2023,Valid transaction row,10.00
04/05/2023,Broken amount,ten dollars`)

	candidates, errs, err := newTestParser().Parse(data)

	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, "Valid transaction row", candidates[0].Description)

	require.Len(t, errs, 3)
	assert.Contains(t, errs[0], `invalid date "not-a-date"`)
	assert.Contains(t, errs[1], "missing description")
	assert.Contains(t, errs[2], `invalid amount "ten dollars"`)
}

func TestParser_EmptyFile(t *testing.T) {
	_, _, err := newTestParser().Parse([]byte("   \n"))
	assert.Error(t, err)
}
