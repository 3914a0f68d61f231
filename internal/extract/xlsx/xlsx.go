// Package xlsx parses spreadsheet statement exports with excelize. Rows
// are handed to the shared table-mode scanner, so a spreadsheet behaves
// exactly like a detected PDF table.
package xlsx

import (
	"bytes"
	"fmt"
	"log/slog"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/rozsagyenelaw/accounting-app/internal/extract"
	"github.com/rozsagyenelaw/accounting-app/internal/normalize"
)

// Parser reads workbook rows into candidate transactions.
type Parser struct {
	table  *extract.TableExtractor
	logger *slog.Logger
}

// New creates a spreadsheet parser.
func New(logger *slog.Logger) *Parser {
	return &Parser{
		table:  extract.NewTableExtractor(logger),
		logger: logger,
	}
}

// Parse opens the workbook, picks the most plausible sheet, and scans its
// rows. The statement-period anchor is searched across all cell text so
// partial dates resolve the same way they do in PDF tables.
func (p *Parser) Parse(data []byte) ([]extract.Candidate, []string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheet := findStatementSheet(f)
	if sheet == "" {
		return nil, nil, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, nil, fmt.Errorf("read sheet %s: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, []string{fmt.Sprintf("sheet %s is empty", sheet)}, nil
	}

	anchor := normalize.FindYearAnchor(flattenRows(rows))
	candidates := p.table.ExtractRows(rows, anchor)

	var warnings []string
	if len(candidates) == 0 {
		warnings = append(warnings, fmt.Sprintf("no transactions recognized in sheet %s", sheet))
	}
	return candidates, warnings, nil
}

// findStatementSheet prefers transaction-sounding sheet names and falls
// back to the first sheet.
func findStatementSheet(f *excelize.File) string {
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return ""
	}
	preferred := []string{"transactions", "statement", "activity", "ledger", "sheet1"}
	for _, want := range preferred {
		for _, s := range sheets {
			if strings.EqualFold(s, want) {
				return s
			}
		}
	}
	return sheets[0]
}

func flattenRows(rows [][]string) string {
	var b strings.Builder
	for _, row := range rows {
		b.WriteString(strings.Join(row, " "))
		b.WriteByte('\n')
	}
	return b.String()
}
