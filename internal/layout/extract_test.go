package layout

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rozsagyenelaw/accounting-app/internal/extract"
)

// stubAnalyzer returns a canned structure, standing in for the external
// service.
type stubAnalyzer struct {
	structure *Structure
	err       error
}

func (s *stubAnalyzer) Analyze(_ context.Context, _ []byte) (*Structure, error) {
	return s.structure, s.err
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func grid(rows [][]string) Table {
	var t Table
	for r, row := range rows {
		for c, text := range row {
			t.Cells = append(t.Cells, Cell{Row: r, Col: c, Text: text})
		}
	}
	return t
}

func TestExtractor_TableFirst(t *testing.T) {
	structure := &Structure{Pages: []Page{{
		Paragraphs: []string{"Statement Period: 04/01/2023 - 04/30/2023"},
		Tables: []Table{grid([][]string{
			{"Date", "Description", "Amount", "Balance"},
			{"04/01", "", "Deposit Dividend Split Rate", "75.99", "95,075.99"},
			{"04/12/2023", "CVS PHARMACY #1234", "45.67", "95,030.32"},
		})},
	}}}

	e := NewExtractor(&stubAnalyzer{structure: structure}, testLogger())
	candidates, err := e.Extract(context.Background(), []byte("doc"))

	require.NoError(t, err)
	require.Len(t, candidates, 2)
	assert.Equal(t, "2023-04-01", candidates[0].Date.Format("2006-01-02"))
	assert.Equal(t, "75.99", candidates[0].Amount.StringFixed(2))
	assert.Equal(t, "CVS PHARMACY #1234", candidates[1].Description)
}

func TestExtractor_ParagraphTriple(t *testing.T) {
	structure := &Structure{Pages: []Page{{
		Paragraphs: []string{
			"Statement Period: 04/01/2023 - 04/30/2023",
			"04/15",
			"Deposit ACH SOC SEC",
			"1,543.00",
		},
	}}}

	e := NewExtractor(&stubAnalyzer{structure: structure}, testLogger())
	candidates, err := e.Extract(context.Background(), []byte("doc"))

	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, "2023-04-15", candidates[0].Date.Format("2006-01-02"))
	assert.Equal(t, "Deposit ACH SOC SEC", candidates[0].Description)
	assert.Equal(t, "1543.00", candidates[0].Amount.StringFixed(2))
}

func TestExtractor_SingleParagraphTransaction(t *testing.T) {
	structure := &Structure{Pages: []Page{{
		Paragraphs: []string{
			"04/12/2023  CVS PHARMACY #1234   45.67",
		},
	}}}

	e := NewExtractor(&stubAnalyzer{structure: structure}, testLogger())
	candidates, err := e.Extract(context.Background(), []byte("doc"))

	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, "CVS PHARMACY #1234", candidates[0].Description)
}

func TestExtractor_DedupesAcrossStrategies(t *testing.T) {
	// The same transaction appears in a detected table and again as a
	// paragraph rendering of the same row.
	structure := &Structure{Pages: []Page{{
		Paragraphs: []string{
			"Statement Period: 04/01/2023 - 04/30/2023",
			"04/01/2023  Deposit Dividend Split Rate  75.99",
		},
		Tables: []Table{grid([][]string{
			{"04/01", "Deposit Dividend Split Rate", "75.99"},
		})},
	}}}

	e := NewExtractor(&stubAnalyzer{structure: structure}, testLogger())
	candidates, err := e.Extract(context.Background(), []byte("doc"))

	require.NoError(t, err)
	require.Len(t, candidates, 1)
}

func TestExtractor_ParagraphFallbackUsesDocumentAnchor(t *testing.T) {
	// Partial date in both a table and a single-paragraph rendering of the
	// same row. The statement year differs from the current year, so both
	// strategies must resolve against the document anchor to agree.
	structure := &Structure{Pages: []Page{{
		Paragraphs: []string{
			"Statement Period: 04/01/2022 - 04/30/2022",
			"04/01  Deposit Dividend Split Rate   75.99",
		},
		Tables: []Table{grid([][]string{
			{"04/01", "Deposit Dividend Split Rate", "75.99"},
		})},
	}}}

	e := NewExtractor(&stubAnalyzer{structure: structure}, testLogger())
	candidates, err := e.Extract(context.Background(), []byte("doc"))

	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, "2022-04-01", candidates[0].Date.Format("2006-01-02"))
}

func TestStrategyKey_MultibyteDescriptions(t *testing.T) {
	// The truncation boundary lands inside a multi-byte rune when counted
	// in bytes; the key must stay valid UTF-8 and equal for equal
	// descriptions.
	c := extract.Candidate{
		Date:        time.Date(2023, 4, 2, 0, 0, 0, 0, time.UTC),
		Description: "CRÈMERIE LÉVESQUE №42 PARIS",
		Amount:      decimal.RequireFromString("12.50"),
	}

	key := strategyKey(c)
	assert.True(t, utf8.ValidString(key))
	assert.Contains(t, key, "CRÈMERIE LÉV")
	assert.Equal(t, key, strategyKey(c))
}

func TestExtractor_PropagatesAnalyzerFailure(t *testing.T) {
	e := NewExtractor(&stubAnalyzer{err: errors.New("service unavailable")}, testLogger())
	_, err := e.Extract(context.Background(), []byte("doc"))
	assert.Error(t, err)
}

func TestTableRows_OrdersByRowAndColumn(t *testing.T) {
	table := Table{Cells: []Cell{
		{Row: 1, Col: 1, Text: "Deposit"},
		{Row: 0, Col: 0, Text: "Date"},
		{Row: 1, Col: 0, Text: "04/01"},
		{Row: 0, Col: 1, Text: "Description"},
		{Row: 1, Col: 2, Text: "75.99"},
	}}

	rows := table.Rows()
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"Date", "Description"}, rows[0])
	assert.Equal(t, []string{"04/01", "Deposit", "75.99"}, rows[1])
}
