// Package csvfile parses delimited-text statement exports. It uses gocsv
// for header-matched unmarshaling so the same struct covers the column
// names the known institutions use in their download formats.
package csvfile

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/shopspring/decimal"

	"github.com/rozsagyenelaw/accounting-app/internal/extract"
	"github.com/rozsagyenelaw/accounting-app/internal/normalize"
)

// row is a raw delimited record. gocsv matches columns by header name, so
// one struct absorbs the naming differences between institution exports.
type row struct {
	Date        string `csv:"date"`
	PostDate    string `csv:"post date"`
	TransDate   string `csv:"transaction date"`
	Description string `csv:"description"`
	Memo        string `csv:"memo"`
	Payee       string `csv:"payee"`
	Details     string `csv:"details"`
	Amount      string `csv:"amount"`
	Debit       string `csv:"debit"`
	Withdrawal  string `csv:"withdrawal"`
	Credit      string `csv:"credit"`
	Deposit     string `csv:"deposit"`
	CheckNumber string `csv:"check number"`
	CheckNo     string `csv:"check #"`
	Balance     string `csv:"balance"`
}

// Parser converts delimited text into candidate transactions.
type Parser struct {
	filter *normalize.Filter
	logger *slog.Logger
	now    time.Time
}

// New creates a delimited-text parser.
func New(logger *slog.Logger) *Parser {
	return &Parser{
		filter: normalize.NewFilter(normalize.FilterConfig{}),
		logger: logger,
		now:    time.Now(),
	}
}

// Parse reads the whole document and returns the surviving candidates plus
// row-level diagnostics. The delimiter is detected from the header line.
func (p *Parser) Parse(data []byte) ([]extract.Candidate, []string, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil, fmt.Errorf("file is empty")
	}

	delimiter := detectDelimiter(firstLine(data))
	anchor := normalize.FindYearAnchor(string(data))

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = delimiter
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	var rows []row
	if err := gocsv.UnmarshalCSV(&normalizedHeaderReader{r: reader}, &rows); err != nil {
		return nil, nil, fmt.Errorf("parse csv: %w", err)
	}

	var (
		candidates []extract.Candidate
		errs       []string
	)
	for i, r := range rows {
		rowNum := i + 2 // 1-indexed plus header
		c, reason := p.processRow(r, anchor)
		if c == nil {
			if reason != "" {
				errs = append(errs, fmt.Sprintf("row %d: %s", rowNum, reason))
			}
			continue
		}
		candidates = append(candidates, *c)
	}
	return candidates, errs, nil
}

// processRow converts one record to a candidate. A row with no date is
// dropped silently (blank separator rows are common in exports); other
// failures produce a diagnostic.
func (p *Parser) processRow(r row, anchor normalize.YearAnchor) (*extract.Candidate, string) {
	dateStr := coalesce(r.Date, r.PostDate, r.TransDate)
	if dateStr == "" {
		return nil, ""
	}

	date, err := p.parseDate(dateStr, anchor)
	if err != nil {
		return nil, fmt.Sprintf("invalid date %q", dateStr)
	}

	desc := coalesce(r.Description, r.Payee, r.Details, r.Memo)
	if desc == "" {
		return nil, "missing description"
	}
	desc = strings.Join(strings.Fields(desc), " ")

	amount, hint, reason := p.resolveAmount(r)
	if reason != "" {
		return nil, reason
	}

	if rej := p.filter.RejectCandidate(desc, amount); rej != "" {
		p.logger.Debug("csv row dropped", "reason", rej, "description", desc)
		return nil, ""
	}

	return &extract.Candidate{
		Date:        date,
		Description: desc,
		Amount:      amount,
		CheckNumber: coalesce(r.CheckNumber, r.CheckNo),
		Hint:        hint,
		Raw:         desc + " " + amount.StringFixed(2),
	}, ""
}

// resolveAmount prefers the single amount column and falls back to the
// debit/credit pair. The pair fixes direction explicitly; a single signed
// amount leaves direction to keyword inference.
func (p *Parser) resolveAmount(r row) (amount decimal.Decimal, hint extract.DirectionHint, reason string) {
	if s := strings.TrimSpace(r.Amount); s != "" {
		a, err := normalize.ParseAmount(s)
		if err != nil {
			return amount, extract.HintNone, fmt.Sprintf("invalid amount %q", s)
		}
		return a, extract.HintNone, ""
	}

	if s := coalesce(r.Debit, r.Withdrawal); s != "" {
		a, err := normalize.ParseAmount(s)
		if err != nil {
			return amount, extract.HintNone, fmt.Sprintf("invalid debit %q", s)
		}
		return a.Abs(), extract.HintDisbursement, ""
	}
	if s := coalesce(r.Credit, r.Deposit); s != "" {
		a, err := normalize.ParseAmount(s)
		if err != nil {
			return amount, extract.HintNone, fmt.Sprintf("invalid credit %q", s)
		}
		return a.Abs(), extract.HintReceipt, ""
	}
	return amount, extract.HintNone, "no amount found"
}

func (p *Parser) parseDate(s string, anchor normalize.YearAnchor) (time.Time, error) {
	if normalize.IsPartialDate(s) {
		return normalize.ResolvePartialDate(s, anchor, p.now)
	}
	return normalize.ParseDate(s)
}

// normalizedHeaderReader lowercases the first record so gocsv tag matching
// is case-insensitive across institution exports.
type normalizedHeaderReader struct {
	r          *csv.Reader
	headerSeen bool
}

func (n *normalizedHeaderReader) Read() ([]string, error) {
	record, err := n.r.Read()
	if err != nil {
		return record, err
	}
	if !n.headerSeen {
		n.headerSeen = true
		for i, h := range record {
			record[i] = strings.ToLower(strings.TrimSpace(h))
		}
	}
	return record, nil
}

func (n *normalizedHeaderReader) ReadAll() ([][]string, error) {
	var records [][]string
	for {
		record, err := n.Read()
		if err == io.EOF {
			return records, nil
		}
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
}

func detectDelimiter(line string) rune {
	best, bestCount := ',', 0
	for _, d := range []rune{',', ';', '\t', '|'} {
		if count := strings.Count(line, string(d)); count > bestCount {
			best, bestCount = d, count
		}
	}
	return best
}

func firstLine(data []byte) string {
	if idx := bytes.IndexByte(data, '\n'); idx >= 0 {
		return string(data[:idx])
	}
	return string(data)
}

func coalesce(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
