// Package layout extracts transactions through an external table and
// paragraph structure-analysis service. The service is behind the Analyzer
// port so the extraction strategies stay deterministic under test; any
// adapter failure makes the orchestrator fall back to local text
// extraction and OCR.
package layout

import (
	"context"
	"errors"
	"sort"
)

// ErrNotConfigured indicates no analysis endpoint or credential is set.
var ErrNotConfigured = errors.New("layout analysis service is not configured")

// Cell is one table cell with its grid position.
type Cell struct {
	Row  int
	Col  int
	Text string
}

// Table is a detected cell grid.
type Table struct {
	Cells []Cell
}

// Page holds the structures detected on one page, in reading order.
type Page struct {
	Tables     []Table
	Paragraphs []string
}

// Structure is the service's view of a whole document.
type Structure struct {
	Pages []Page
}

// Analyzer is the port to the external structure-analysis service.
type Analyzer interface {
	Analyze(ctx context.Context, doc []byte) (*Structure, error)
}

// Rows converts a table's cells into ordered rows of cell text. Cells are
// grouped by row index and sorted by column so the scanner sees them the
// way they appear on the page.
func (t Table) Rows() [][]string {
	byRow := make(map[int][]Cell)
	for _, c := range t.Cells {
		byRow[c.Row] = append(byRow[c.Row], c)
	}

	rowIndexes := make([]int, 0, len(byRow))
	for idx := range byRow {
		rowIndexes = append(rowIndexes, idx)
	}
	sort.Ints(rowIndexes)

	rows := make([][]string, 0, len(rowIndexes))
	for _, idx := range rowIndexes {
		cells := byRow[idx]
		sort.Slice(cells, func(i, j int) bool { return cells[i].Col < cells[j].Col })
		row := make([]string, 0, len(cells))
		for _, c := range cells {
			row = append(row, c.Text)
		}
		rows = append(rows, row)
	}
	return rows
}
