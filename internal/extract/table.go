package extract

import (
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rozsagyenelaw/accounting-app/internal/normalize"
)

// TableExtractor scans detected table rows (cell grids) for transactions.
// It shares the normalization and filter leaves with line mode but has no
// section state: tables carry their structure in columns, not headers.
type TableExtractor struct {
	filter *normalize.Filter
	logger *slog.Logger
	now    time.Time
}

// NewTableExtractor builds a table-mode extractor.
func NewTableExtractor(logger *slog.Logger) *TableExtractor {
	return &TableExtractor{
		filter: normalize.NewFilter(normalize.FilterConfig{}),
		logger: logger,
		now:    time.Now(),
	}
}

// ExtractRows scans each row for a date token, an amount token, and
// description text. A row yields a candidate only when all three are
// found; incomplete rows are dropped at debug level. The first
// amount-shaped cell wins, so a trailing running-balance column is never
// mistaken for the transaction amount.
func (e *TableExtractor) ExtractRows(rows [][]string, anchor normalize.YearAnchor) []Candidate {
	out := make([]Candidate, 0, len(rows))
	for _, row := range rows {
		if c := e.scanRow(row, anchor); c != nil {
			out = append(out, *c)
		}
	}
	return out
}

func (e *TableExtractor) scanRow(row []string, anchor normalize.YearAnchor) *Candidate {
	var (
		date      time.Time
		dateFound bool
		amount    decimal.Decimal
		amtFound  bool
		descParts []string
	)

	for _, cell := range row {
		cell = strings.TrimSpace(cell)
		if cell == "" {
			continue
		}

		if !dateFound {
			if d, err := e.parseCellDate(cell, anchor); err == nil {
				date = d
				dateFound = true
				continue
			}
		}

		if !amtFound && normalize.LooksLikeAmount(cell) {
			if a, err := normalize.ParseAmount(cell); err == nil {
				amount = a
				amtFound = true
				continue
			}
		}

		// Anything long enough and not purely numeric contributes to the
		// description, in encounter order.
		if len(cell) >= 3 && !isNumericToken(cell) {
			descParts = append(descParts, cell)
		}
	}

	if !dateFound || !amtFound || len(descParts) == 0 {
		e.logger.Debug("table row dropped: incomplete", "row", strings.Join(row, "|"))
		return nil
	}

	desc := strings.Join(descParts, " ")
	if reason := e.filter.RejectCandidate(desc, amount); reason != "" {
		e.logger.Debug("table row dropped", "reason", reason, "row", strings.Join(row, "|"))
		return nil
	}

	return &Candidate{
		Date:        date,
		Description: desc,
		Amount:      amount,
		Raw:         strings.Join(row, " "),
	}
}

func (e *TableExtractor) parseCellDate(cell string, anchor normalize.YearAnchor) (time.Time, error) {
	if normalize.IsPartialDate(cell) {
		return normalize.ResolvePartialDate(cell, anchor, e.now)
	}
	return normalize.ParseDate(cell)
}

func isNumericToken(s string) bool {
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
		case r == '.' || r == ',' || r == '$' || r == '(' || r == ')' || r == '-' || r == '/':
		default:
			return false
		}
	}
	return true
}
