package layout

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/rozsagyenelaw/accounting-app/internal/extract"
	"github.com/rozsagyenelaw/accounting-app/internal/normalize"
)

// Extractor runs the two extraction strategies over an analyzed document:
// table-first, then a paragraph fallback for transactions the table
// detector missed. Results are combined and deduplicated.
type Extractor struct {
	analyzer Analyzer
	table    *extract.TableExtractor
	line     *extract.LineExtractor
	logger   *slog.Logger
	now      time.Time
}

// NewExtractor wires the strategies to an analyzer port.
func NewExtractor(analyzer Analyzer, logger *slog.Logger) *Extractor {
	return &Extractor{
		analyzer: analyzer,
		table:    extract.NewTableExtractor(logger),
		line:     extract.NewLineExtractor(extract.ProfileFor("generic"), logger),
		logger:   logger,
		now:      time.Now(),
	}
}

// Extract analyzes the document and returns candidates from both
// strategies. An analyzer failure propagates so the orchestrator can fall
// back to local extraction.
func (e *Extractor) Extract(ctx context.Context, doc []byte) ([]extract.Candidate, error) {
	structure, err := e.analyzer.Analyze(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("layout analysis: %w", err)
	}

	anchor := e.findAnchor(structure)

	fromTables := e.scanTables(structure, anchor)
	fromParagraphs := e.scanParagraphs(structure, anchor)

	combined := append(fromTables, fromParagraphs...)
	deduped := dedupAcrossStrategies(combined)
	e.logger.Debug("layout extraction complete",
		"tables", len(fromTables), "paragraphs", len(fromParagraphs), "final", len(deduped))
	return deduped, nil
}

func (e *Extractor) findAnchor(s *Structure) normalize.YearAnchor {
	var b strings.Builder
	for _, page := range s.Pages {
		for _, p := range page.Paragraphs {
			b.WriteString(p)
			b.WriteByte('\n')
		}
	}
	return normalize.FindYearAnchor(b.String())
}

// scanTables runs table mode over every detected table.
func (e *Extractor) scanTables(s *Structure, anchor normalize.YearAnchor) []extract.Candidate {
	var out []extract.Candidate
	for _, page := range s.Pages {
		for _, t := range page.Tables {
			out = append(out, e.table.ExtractRows(t.Rows(), anchor)...)
		}
	}
	for i := range out {
		out[i].Raw = "table: " + out[i].Raw
	}
	return out
}

// scanParagraphs handles the degenerate layouts the table detector misses:
// a transaction split across a date paragraph, a description paragraph,
// and an amount paragraph; and single paragraphs that carry a whole
// transaction line.
func (e *Extractor) scanParagraphs(s *Structure, anchor normalize.YearAnchor) []extract.Candidate {
	var out []extract.Candidate
	for _, page := range s.Pages {
		paragraphs := page.Paragraphs
		for i := 0; i < len(paragraphs); i++ {
			if c := e.matchTriple(paragraphs, i, anchor); c != nil {
				out = append(out, *c)
				i += 2
				continue
			}
			out = append(out, e.line.ExtractWithAnchor(paragraphs[i], anchor)...)
		}
	}
	return out
}

// matchTriple tests paragraphs[i..i+2] for the three-line layout: date,
// description, amount.
func (e *Extractor) matchTriple(paragraphs []string, i int, anchor normalize.YearAnchor) *extract.Candidate {
	if i+2 >= len(paragraphs) {
		return nil
	}
	dateTok := strings.TrimSpace(paragraphs[i])
	descTok := strings.TrimSpace(paragraphs[i+1])
	amtTok := strings.TrimSpace(paragraphs[i+2])

	date, err := e.parseDateToken(dateTok, anchor)
	if err != nil {
		return nil
	}
	if len(descTok) < 3 || !normalize.LooksLikeAmount(amtTok) {
		return nil
	}
	// The description paragraph must not itself be a date or amount.
	if _, err := e.parseDateToken(descTok, anchor); err == nil {
		return nil
	}
	if normalize.LooksLikeAmount(descTok) {
		return nil
	}
	amount, err := normalize.ParseAmount(amtTok)
	if err != nil {
		return nil
	}

	return &extract.Candidate{
		Date:        date,
		Description: strings.Join(strings.Fields(descTok), " "),
		Amount:      amount,
		Raw:         "paragraph: " + dateTok + " " + descTok + " " + amtTok,
	}
}

func (e *Extractor) parseDateToken(token string, anchor normalize.YearAnchor) (time.Time, error) {
	if normalize.IsPartialDate(token) {
		return normalize.ResolvePartialDate(token, anchor, e.now)
	}
	return normalize.ParseDate(token)
}

// dedupAcrossStrategies drops candidates found by both strategies. The key
// is date + amount rounded to cents + a description prefix, so minor
// wording differences between a table cell and its paragraph rendering
// still collapse.
func dedupAcrossStrategies(candidates []extract.Candidate) []extract.Candidate {
	seen := make(map[string]struct{}, len(candidates))
	out := make([]extract.Candidate, 0, len(candidates))
	for _, c := range candidates {
		key := strategyKey(c)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, c)
	}
	return out
}

func strategyKey(c extract.Candidate) string {
	desc := strings.ToUpper(strings.TrimSpace(c.Description))
	// Truncate by runes; OCR output is not guaranteed to be ASCII.
	if runes := []rune(desc); len(runes) > 12 {
		desc = string(runes[:12])
	}
	return fmt.Sprintf("%s|%s|%s",
		c.Date.Format("2006-01-02"),
		c.Amount.Round(2).StringFixed(2),
		desc,
	)
}
