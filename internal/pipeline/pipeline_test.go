package pipeline

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rozsagyenelaw/accounting-app/internal/layout"
	"github.com/rozsagyenelaw/accounting-app/internal/ledger"
	"github.com/rozsagyenelaw/accounting-app/pkg/config"
)

func newTestPipeline() *Pipeline {
	cfg := &config.Config{OCR: config.OCRConfig{TimeoutSeconds: 5}}
	return New(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

type stubAnalyzer struct {
	structure *layout.Structure
	err       error
}

func (s *stubAnalyzer) Analyze(context.Context, []byte) (*layout.Structure, error) {
	return s.structure, s.err
}

func TestParseFile_CSV(t *testing.T) {
	data := []byte(`Date,Description,Credit,Debit
04/03/2023,SSA TREAS 310 XXSOC SEC,1543.00,
04/12/2023,CVS PHARMACY #1234,,45.67
04/15/2023,PGANDE WEB PAYMENT,,210.33`)

	result := newTestPipeline().ParseFile(context.Background(), "april.csv", data)

	require.Empty(t, result.Errors)
	require.Len(t, result.Transactions, 3)

	ssa := result.Transactions[0]
	assert.Equal(t, ledger.Receipt, ssa.Direction)
	assert.Equal(t, "Social Security Benefits", ssa.Category)
	assert.GreaterOrEqual(t, ssa.Confidence, 90)
	assert.Equal(t, "april.csv", ssa.SourceTag)

	cvs := result.Transactions[1]
	assert.Equal(t, ledger.Disbursement, cvs.Direction)
	assert.Equal(t, "Medical Expenses", cvs.Category)
	// Amounts are stored positive; direction carries the sign.
	assert.Equal(t, "45.67", cvs.Amount.StringFixed(2))
}

func TestParseFile_CompleteCandidatesAlwaysSurvive(t *testing.T) {
	// Round-trip property: every row with date, description, and amount
	// becomes exactly one transaction.
	data := []byte(`Date,Description,Amount
04/01/2023,Row one payee,10.00
04/02/2023,Row two payee,20.00
04/03/2023,Row three payee,30.00
04/04/2023,Row four payee,40.00`)

	result := newTestPipeline().ParseFile(context.Background(), "rows.csv", data)

	require.Empty(t, result.Errors)
	assert.Len(t, result.Transactions, 4)
}

func TestParseFile_LargeDisbursementWarning(t *testing.T) {
	data := []byte(`Date,Description,Credit,Debit
04/02/2023,ATTORNEY RETAINER LAW OFFICE,,12500.00
04/05/2023,CVS PHARMACY #1234,,45.67
04/09/2023,SAFEWAY 1442,,88.10`)

	result := newTestPipeline().ParseFile(context.Background(), "april.csv", data)

	require.Empty(t, result.Errors)
	require.Len(t, result.Transactions, 3)
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "large disbursement 12500.00")
}

func TestParseFile_FatalInput(t *testing.T) {
	p := newTestPipeline()

	t.Run("empty file", func(t *testing.T) {
		result := p.ParseFile(context.Background(), "empty.csv", nil)
		require.Len(t, result.Errors, 1)
		assert.Contains(t, result.Errors[0], "no file content")
		assert.Empty(t, result.Transactions)
	})

	t.Run("unsupported extension", func(t *testing.T) {
		result := p.ParseFile(context.Background(), "statement.docx", []byte("x"))
		require.Len(t, result.Errors, 1)
		assert.Contains(t, result.Errors[0], "unsupported file type")
	})
}

func TestParseFile_PDFLayoutService(t *testing.T) {
	structure := &layout.Structure{Pages: []layout.Page{{
		Paragraphs: []string{"Statement Period: 04/01/2023 - 04/30/2023"},
		Tables: []layout.Table{{Cells: []layout.Cell{
			{Row: 0, Col: 0, Text: "04/01"},
			{Row: 0, Col: 2, Text: "Deposit Dividend Split Rate"},
			{Row: 0, Col: 3, Text: "75.99"},
			{Row: 0, Col: 4, Text: "95,075.99"},
		}}},
	}}}

	p := newTestPipeline().WithAnalyzer(&stubAnalyzer{structure: structure})
	result := p.ParseFile(context.Background(), "scan.pdf", []byte("%PDF-1.4"))

	require.Empty(t, result.Errors)
	require.Len(t, result.Transactions, 1)

	tx := result.Transactions[0]
	assert.Equal(t, "2023-04-01", tx.Date.Format("2006-01-02"))
	assert.Equal(t, "75.99", tx.Amount.StringFixed(2))
	assert.Equal(t, ledger.Receipt, tx.Direction)
}

func TestParseFile_PDFFallbackChain(t *testing.T) {
	// Layout analysis fails; the pipeline warns and falls back to the
	// text layer, which here yields a parseable statement.
	p := newTestPipeline().WithAnalyzer(&stubAnalyzer{err: errors.New("credentials rejected")})
	p.textExtract = func([]byte) (string, error) {
		return `First Community Bank Statement Period: 04/01/2023 - 04/30/2023
Deposits and Other Credits
04/03/2023  SSA TREAS 310 XXSOC SEC          1,543.00
04/05/2023  Pension benefit ACH              2,100.00
04/08/2023  Interest payment                     0.42
and some padding text so the text layer counts as useful content here`, nil
	}

	result := p.ParseFile(context.Background(), "native.pdf", []byte("%PDF-1.4"))

	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "layout analysis unavailable")
	require.Len(t, result.Transactions, 3)
	assert.Equal(t, ledger.Receipt, result.Transactions[0].Direction)
}

func TestParseFile_PDFOCRFallback(t *testing.T) {
	p := newTestPipeline().WithAnalyzer(&stubAnalyzer{err: errors.New("service unavailable")})
	p.textExtract = func([]byte) (string, error) { return "", nil } // scanned: no text layer
	p.ocrExtract = func(context.Context, []byte) (string, error) {
		return `Statement Period: 04/01/2023 - 04/30/2023
~. 04/12/2023  CVS PHARMACY #1234   45.67
04/15/2023  WALGREENS STORE 0042    12.99
04/20/2023  SAFEWAY 1442            88.10`, nil
	}

	result := p.ParseFile(context.Background(), "scan.pdf", []byte("%PDF-1.4"))

	require.Empty(t, result.Errors)
	require.Len(t, result.Transactions, 3)
	assert.Equal(t, "Medical Expenses", result.Transactions[0].Category)
}

func TestParseFile_OCRTimeoutDefaulted(t *testing.T) {
	// No OCR timeout configured: the pipeline applies a working default
	// instead of handing OCR an already-expired context.
	p := New(&config.Config{}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	p.textExtract = func([]byte) (string, error) { return "", nil }
	p.ocrExtract = func(ctx context.Context, _ []byte) (string, error) {
		require.NoError(t, ctx.Err())
		deadline, ok := ctx.Deadline()
		require.True(t, ok)
		assert.Greater(t, time.Until(deadline), time.Minute)
		return `Statement Period: 04/01/2023 - 04/30/2023
04/12/2023  CVS PHARMACY #1234   45.67
04/15/2023  WALGREENS STORE 0042    12.99
04/20/2023  SAFEWAY 1442            88.10`, nil
	}

	result := p.ParseFile(context.Background(), "scan.pdf", []byte("%PDF-1.4"))

	require.Empty(t, result.Errors)
	assert.Len(t, result.Transactions, 3)
}

func TestParseFile_OCRFailureIsPerFile(t *testing.T) {
	p := newTestPipeline()
	p.textExtract = func([]byte) (string, error) { return "", nil }
	p.ocrExtract = func(context.Context, []byte) (string, error) {
		return "", errors.New("tesseract not found: install tesseract-ocr to process scanned PDFs")
	}

	result := p.ParseFile(context.Background(), "scan.pdf", []byte("%PDF-1.4"))

	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "tesseract not found")
	assert.Empty(t, result.Transactions)
}

func TestParseBatch(t *testing.T) {
	fileA := []byte(`Date,Description,Amount
04/10/2023,Pension benefit deposit,2100.00
04/01/2023,Deposit Dividend Split Rate,75.99`)
	// fileB repeats the dividend row and adds a later disbursement.
	fileB := []byte(`Date,Description,Amount
04/01/2023,Deposit Dividend Split Rate,75.99
04/20/2023,CVS PHARMACY #1234,-45.67`)

	batch := newTestPipeline().ParseBatch(context.Background(), []File{
		{Name: "a.csv", Data: fileA},
		{Name: "b.csv", Data: fileB},
	})

	require.Len(t, batch.Files, 2)
	require.Len(t, batch.Transactions, 3)

	// Chronological order across files, not submission order.
	assert.Equal(t, "2023-04-01", batch.Transactions[0].Date.Format("2006-01-02"))
	assert.Equal(t, "2023-04-10", batch.Transactions[1].Date.Format("2006-01-02"))
	assert.Equal(t, "2023-04-20", batch.Transactions[2].Date.Format("2006-01-02"))

	// The duplicate came from file A first, so its tag survives.
	assert.Equal(t, "a.csv", batch.Transactions[0].SourceTag)
}

func TestParseBatch_OneFailureDoesNotAbortBatch(t *testing.T) {
	batch := newTestPipeline().ParseBatch(context.Background(), []File{
		{Name: "bad.docx", Data: []byte("x")},
		{Name: "good.csv", Data: []byte("Date,Description,Amount\n04/01/2023,Valid payee row,10.00")},
	})

	require.Len(t, batch.Files, 2)
	assert.NotEmpty(t, batch.Files[0].Result.Errors)
	assert.Len(t, batch.Transactions, 1)
}
