package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/rozsagyenelaw/accounting-app/internal/ledger"
	"github.com/rozsagyenelaw/accounting-app/internal/pipeline"
	"github.com/rozsagyenelaw/accounting-app/pkg/config"
	"github.com/rozsagyenelaw/accounting-app/pkg/money"
	"github.com/rozsagyenelaw/accounting-app/pkg/storage"
)

func parseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse <file>...",
		Short: "Parse statement documents into a classified ledger",
		Long: `Parse one or more statement documents and print the combined ledger.
Transactions from all files are deduplicated and sorted chronologically.

Supported formats: .csv, .txt, .xlsx, .xls, .pdf (native and scanned).`,
		Args: cobra.MinimumNArgs(1),
		RunE: runParse,
	}

	cmd.Flags().Bool("json", false, "Emit the ledger as JSON on stdout")
	cmd.Flags().StringP("output", "o", "", "Write output to a file instead of stdout")
	cmd.Flags().String("archive-dir", "", "Archive source documents under this directory")
	cmd.Flags().String("case", "default", "Case identifier used for archiving")

	return cmd
}

// transactionView is the JSON shape of one ledger entry. Amounts are
// emitted as fixed two-decimal strings so downstream tooling never sees
// binary-float rounding.
type transactionView struct {
	Date        string `json:"date"`
	Description string `json:"description"`
	Amount      string `json:"amount"`
	Direction   string `json:"direction"`
	Category    string `json:"category"`
	SubCategory string `json:"subCategory,omitempty"`
	Confidence  int    `json:"confidence"`
	CheckNumber string `json:"checkNumber,omitempty"`
	Source      string `json:"source"`
}

type batchView struct {
	Transactions []transactionView `json:"transactions"`
	Warnings     []string          `json:"warnings,omitempty"`
	Errors       []string          `json:"errors,omitempty"`
}

func runParse(cmd *cobra.Command, args []string) error {
	asJSON, _ := cmd.Flags().GetBool("json")
	outputPath, _ := cmd.Flags().GetString("output")

	batch, err := parseFiles(cmd, args)
	if err != nil {
		return err
	}

	out := os.Stdout
	if outputPath != "" {
		f, err := os.Create(outputPath)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	if asJSON {
		return writeJSON(out, batch)
	}
	writeTable(out, batch)
	return nil
}

// parseFiles loads every named file and runs the batch pipeline. Unreadable
// files fail the command up front; parse failures inside the pipeline stay
// per-file. When an archive directory is set, each source document is
// stored under the identifier its ledger entries carry.
func parseFiles(cmd *cobra.Command, paths []string) (*pipeline.BatchResult, error) {
	files := make([]pipeline.File, 0, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		files = append(files, pipeline.File{Name: filepath.Base(path), Data: data})
	}

	p := pipeline.New(config.Load(), slog.Default())
	batch := p.ParseBatch(cmd.Context(), files)

	for _, fr := range batch.Files {
		for _, w := range fr.Result.Warnings {
			slog.Warn(w)
		}
		for _, e := range fr.Result.Errors {
			slog.Error(e)
		}
	}
	for _, w := range batch.Warnings {
		slog.Warn(w)
	}

	if err := archiveBatch(cmd, files, batch); err != nil {
		return nil, err
	}
	return batch, nil
}

// archiveBatch stores the source documents when --archive-dir is set.
// batch.Files is index-aligned with the submitted files.
func archiveBatch(cmd *cobra.Command, files []pipeline.File, batch *pipeline.BatchResult) error {
	archiveDir, _ := cmd.Flags().GetString("archive-dir")
	if archiveDir == "" {
		return nil
	}
	caseID, _ := cmd.Flags().GetString("case")

	archive, err := storage.NewLocalArchive(archiveDir)
	if err != nil {
		return err
	}
	for i, f := range files {
		docID := batch.Files[i].DocumentID
		if _, err := archive.Store(cmd.Context(), caseID, docID, f.Name, bytes.NewReader(f.Data)); err != nil {
			return fmt.Errorf("archive %s: %w", f.Name, err)
		}
		slog.Info("archived source document", "file", f.Name, "document_id", docID)
	}
	return nil
}

func writeJSON(out *os.File, batch *pipeline.BatchResult) error {
	view := batchView{Transactions: make([]transactionView, 0, len(batch.Transactions))}
	for _, tx := range batch.Transactions {
		view.Transactions = append(view.Transactions, transactionView{
			Date:        tx.Date.Format("2006-01-02"),
			Description: tx.Description,
			Amount:      tx.Amount.StringFixed(2),
			Direction:   string(tx.Direction),
			Category:    tx.Category,
			SubCategory: tx.SubCategory,
			Confidence:  tx.Confidence,
			CheckNumber: tx.CheckNumber,
			Source:      tx.SourceTag,
		})
	}
	view.Warnings = append(view.Warnings, batch.Warnings...)
	for _, fr := range batch.Files {
		view.Warnings = append(view.Warnings, fr.Result.Warnings...)
		view.Errors = append(view.Errors, fr.Result.Errors...)
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(view)
}

func writeTable(out *os.File, batch *pipeline.BatchResult) {
	receipts, disbursements := ledger.Totals(batch.Transactions)

	fmt.Fprintf(out, "%-12s %-10s %12s  %-30s  %s\n",
		"DATE", "TYPE", "AMOUNT", "CATEGORY", "DESCRIPTION")
	for _, tx := range batch.Transactions {
		fmt.Fprintf(out, "%-12s %-10s %12s  %-30s  %s\n",
			tx.Date.Format("2006-01-02"),
			tx.Direction,
			money.FormatUSD(tx.Amount),
			tx.Category,
			tx.Description)
	}
	fmt.Fprintf(out, "\n%d transactions  receipts %s  disbursements %s\n",
		len(batch.Transactions), money.FormatUSD(receipts), money.FormatUSD(disbursements))
}
