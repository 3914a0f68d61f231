// Package pipeline orchestrates a document's journey from raw bytes to
// classified transactions: dispatch by file type, extraction with the
// layout-service / direct-text / OCR fallback chain, classification, and
// batch aggregation. One file's failure never aborts the batch.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rozsagyenelaw/accounting-app/internal/classify"
	"github.com/rozsagyenelaw/accounting-app/internal/extract"
	"github.com/rozsagyenelaw/accounting-app/internal/extract/csvfile"
	"github.com/rozsagyenelaw/accounting-app/internal/extract/xlsx"
	"github.com/rozsagyenelaw/accounting-app/internal/layout"
	"github.com/rozsagyenelaw/accounting-app/internal/ledger"
	"github.com/rozsagyenelaw/accounting-app/internal/ocr"
	"github.com/rozsagyenelaw/accounting-app/internal/pdftext"
	"github.com/rozsagyenelaw/accounting-app/pkg/config"
)

// lowCountThreshold triggers the soft "suspiciously few transactions"
// warning for a file that parsed successfully.
const lowCountThreshold = 3

// largeDisbursementCeiling flags disbursements worth a second look. These
// stay in the ledger; the warning is advisory.
var largeDisbursementCeiling = decimal.NewFromInt(10000)

// Pipeline wires the extraction paths to the classifier. Build once; all
// held state is read-only during parses.
type Pipeline struct {
	csv        *csvfile.Parser
	xlsx       *xlsx.Parser
	layoutExt  *layout.Extractor // nil when the service is not configured
	ocrTimeout time.Duration
	classifier *classify.Classifier
	logger     *slog.Logger

	// Extraction seams, overridable in tests.
	textExtract func(data []byte) (string, error)
	ocrExtract  func(ctx context.Context, data []byte) (string, error)
}

// New builds the pipeline from configuration. The layout-analysis path is
// only wired when an endpoint and credential are present.
func New(cfg *config.Config, logger *slog.Logger) *Pipeline {
	engine := ocr.New(ocr.Config{DPI: cfg.OCR.DPI, MaxPages: cfg.OCR.MaxPages}, logger)
	ocrTimeout := time.Duration(cfg.OCR.TimeoutSeconds) * time.Second
	if ocrTimeout <= 0 {
		ocrTimeout = 300 * time.Second
	}
	p := &Pipeline{
		csv:         csvfile.New(logger),
		xlsx:        xlsx.New(logger),
		ocrTimeout:  ocrTimeout,
		classifier:  classify.New(),
		logger:      logger,
		textExtract: pdftext.Extract,
		ocrExtract:  engine.ExtractText,
	}
	if client, err := layout.NewClient(cfg.Layout.Endpoint, cfg.Layout.APIKey); err == nil {
		p.layoutExt = layout.NewExtractor(client, logger)
	}
	return p
}

// WithAnalyzer swaps in an alternative structure-analysis port. Used by
// tests and by callers that front a different service.
func (p *Pipeline) WithAnalyzer(a layout.Analyzer) *Pipeline {
	p.layoutExt = layout.NewExtractor(a, p.logger)
	return p
}

// File is one uploaded document: bytes plus the extension hint.
type File struct {
	Name string
	Data []byte
}

// FileResult pairs a file with its parse outcome and the identifier handed
// to the external store.
type FileResult struct {
	DocumentID uuid.UUID
	Name       string
	Result     ledger.ParseResult
}

// BatchResult aggregates a batch: per-file outcomes plus the combined,
// deduplicated, chronologically sorted ledger.
type BatchResult struct {
	Files        []FileResult
	Transactions []ledger.Transaction
	Warnings     []string
}

// ParseBatch processes files sequentially in submission order and combines
// their transactions into one chronological ledger.
func (p *Pipeline) ParseBatch(ctx context.Context, files []File) *BatchResult {
	batch := &BatchResult{}
	var combined []ledger.Transaction
	for _, f := range files {
		result := p.ParseFile(ctx, f.Name, f.Data)
		batch.Files = append(batch.Files, FileResult{
			DocumentID: uuid.New(),
			Name:       f.Name,
			Result:     *result,
		})
		combined = append(combined, result.Transactions...)
	}

	deduped, removed := ledger.Dedup(combined)
	ledger.SortByDate(deduped)
	batch.Transactions = deduped
	if removed >= 2 {
		batch.Warnings = append(batch.Warnings,
			fmt.Sprintf("removed %d duplicate transactions across files", removed))
	}
	return batch
}

// ParseFile dispatches one document by its extension hint and returns its
// result. Fatal input problems (no content, unsupported type) are rejected
// up front with no partial processing.
func (p *Pipeline) ParseFile(ctx context.Context, name string, data []byte) *ledger.ParseResult {
	result := &ledger.ParseResult{}
	if len(data) == 0 {
		result.Errors = append(result.Errors, fmt.Sprintf("%s: no file content provided", name))
		return result
	}

	var (
		candidates []extract.Candidate
		diags      []string
		err        error
	)
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv", ".txt":
		candidates, diags, err = p.csv.Parse(data)
		result.Errors = append(result.Errors, prefixAll(name, diags)...)
	case ".xlsx", ".xls":
		candidates, diags, err = p.xlsx.Parse(data)
		result.Warnings = append(result.Warnings, prefixAll(name, diags)...)
	case ".pdf":
		candidates, err = p.parsePDF(ctx, name, data, result)
	default:
		result.Errors = append(result.Errors,
			fmt.Sprintf("%s: unsupported file type %q", name, filepath.Ext(name)))
		return result
	}
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", name, err))
		return result
	}

	result.Transactions = p.classifyAll(candidates, name)
	if len(result.Transactions) == 0 {
		result.Errors = append(result.Errors,
			fmt.Sprintf("%s: no transactions matched in document", name))
	} else if len(result.Transactions) < lowCountThreshold {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("%s: only %d transactions found; review the source document", name, len(result.Transactions)))
	}
	for _, tx := range result.Transactions {
		if tx.Direction == ledger.Disbursement && tx.Amount.GreaterThanOrEqual(largeDisbursementCeiling) {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("%s: large disbursement %s on %s (%s); verify against the source",
					name, tx.Amount.StringFixed(2), tx.Date.Format("2006-01-02"), tx.Description))
		}
	}
	return result
}

// parsePDF walks the fallback chain: layout-analysis service when
// configured, then the PDF text layer, then OCR for scanned documents.
func (p *Pipeline) parsePDF(ctx context.Context, name string, data []byte, result *ledger.ParseResult) ([]extract.Candidate, error) {
	if p.layoutExt != nil {
		candidates, err := p.layoutExt.Extract(ctx, data)
		if err == nil {
			return candidates, nil
		}
		// Per-strategy failure: fall through to local extraction.
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("%s: layout analysis unavailable, using local extraction: %v", name, err))
		p.logger.Warn("layout analysis failed", "file", name, "error", err)
	}

	text, err := p.textExtract(data)
	if err != nil {
		p.logger.Debug("pdf text layer unreadable", "file", name, "error", err)
		text = ""
	}
	if !pdftext.HasUsefulText(text) {
		ocrCtx, cancel := context.WithTimeout(ctx, p.ocrTimeout)
		defer cancel()
		text, err = p.ocrExtract(ocrCtx, data)
		if err != nil {
			return nil, err
		}
	}

	profile := detectProfile(text)
	line := extract.NewLineExtractor(profile, p.logger)
	return line.Extract(text), nil
}

// classifyAll turns every complete candidate into exactly one transaction.
// Direction is derived here, once; the amount is stored positive.
func (p *Pipeline) classifyAll(candidates []extract.Candidate, sourceTag string) []ledger.Transaction {
	txs := make([]ledger.Transaction, 0, len(candidates))
	for _, c := range candidates {
		if c.Amount.IsZero() {
			continue
		}
		direction := extract.InferDirection(c)
		verdict := p.classifier.Classify(c.Description, direction)
		txs = append(txs, ledger.Transaction{
			Date:        c.Date,
			Description: c.Description,
			Amount:      c.Amount.Abs(),
			Direction:   direction,
			Category:    verdict.Category,
			SubCategory: verdict.SubCategory,
			Confidence:  verdict.Confidence,
			CheckNumber: c.CheckNumber,
			SourceTag:   sourceTag,
		})
	}
	return txs
}

// detectProfile picks the institution profile from layout fingerprints in
// the extracted text.
func detectProfile(text string) extract.Profile {
	lower := strings.ToLower(text)
	switch {
	case strings.Contains(lower, "credit union") || strings.Contains(lower, "share draft"):
		return extract.ProfileFor("creditunion")
	case strings.Contains(lower, "deposits and other credits") || strings.Contains(lower, "checks paid"):
		return extract.ProfileFor("bank")
	default:
		return extract.ProfileFor("generic")
	}
}

func prefixAll(name string, diags []string) []string {
	out := make([]string, 0, len(diags))
	for _, d := range diags {
		out = append(out, fmt.Sprintf("%s: %s", name, d))
	}
	return out
}
