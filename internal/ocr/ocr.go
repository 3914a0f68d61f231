// Package ocr recovers text from scanned PDFs by rasterizing pages and
// running an OCR engine over each image. It shells out to pdftoppm and
// tesseract; both are external tools, and their absence is reported as a
// distinct, user-actionable failure rather than a generic error.
package ocr

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
)

// Failure classes. Infrastructure problems (missing tools, timeouts) get
// different guidance than content problems (too little recognizable text).
var (
	ErrRasterizerMissing = errors.New("pdftoppm not found: install poppler-utils to process scanned PDFs")
	ErrEngineMissing     = errors.New("tesseract not found: install tesseract-ocr to process scanned PDFs")
	ErrTimeout           = errors.New("OCR timed out: the document may be too large or the page limit too high")
	ErrTooLittleText     = errors.New("OCR produced too little text: the scan quality may be too low to read")
)

// Config bounds OCR work. Rasterization DPI trades accuracy for speed;
// MaxPages keeps worst-case latency bounded.
type Config struct {
	DPI      int
	MaxPages int
}

// DefaultConfig returns the tuning used in production: 300 DPI is the
// accuracy sweet spot for tesseract on statement scans.
func DefaultConfig() Config {
	return Config{DPI: 300, MaxPages: 20}
}

// Engine runs the rasterize-then-recognize loop.
type Engine struct {
	cfg    Config
	logger *slog.Logger

	// Overridable for tests.
	lookPath func(string) (string, error)
	runner   func(ctx context.Context, name string, args ...string) error
}

// New creates an OCR engine.
func New(cfg Config, logger *slog.Logger) *Engine {
	if cfg.DPI == 0 {
		cfg.DPI = 300
	}
	if cfg.MaxPages == 0 {
		cfg.MaxPages = 20
	}
	return &Engine{
		cfg:      cfg,
		logger:   logger,
		lookPath: exec.LookPath,
		runner: func(ctx context.Context, name string, args ...string) error {
			return exec.CommandContext(ctx, name, args...).Run()
		},
	}
}

// ExtractText rasterizes up to MaxPages pages and OCRs them in page order.
// The caller's context bounds the whole operation; a deadline hit maps to
// ErrTimeout.
func (e *Engine) ExtractText(ctx context.Context, pdfData []byte) (string, error) {
	if _, err := e.lookPath("pdftoppm"); err != nil {
		return "", ErrRasterizerMissing
	}
	if _, err := e.lookPath("tesseract"); err != nil {
		return "", ErrEngineMissing
	}

	workDir, err := os.MkdirTemp("", "ocr-*")
	if err != nil {
		return "", fmt.Errorf("create work dir: %w", err)
	}
	defer os.RemoveAll(workDir)

	pdfPath := filepath.Join(workDir, "input.pdf")
	if err := os.WriteFile(pdfPath, pdfData, 0o600); err != nil {
		return "", fmt.Errorf("write pdf: %w", err)
	}

	pages, err := e.rasterize(ctx, workDir, pdfPath)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	for _, page := range pages {
		text, err := e.recognize(ctx, workDir, page)
		if err != nil {
			return "", err
		}
		b.WriteString(text)
		b.WriteByte('\n')
	}

	text := b.String()
	if len(strings.TrimSpace(text)) < 50 {
		return "", ErrTooLittleText
	}
	e.logger.Debug("ocr complete", "pages", len(pages), "chars", len(text))
	return text, nil
}

// rasterize renders pages to PNG and returns the image paths sorted by
// page number. pdftoppm numbers its output files, so a lexical sort of the
// zero-padded names preserves page order.
func (e *Engine) rasterize(ctx context.Context, workDir, pdfPath string) ([]string, error) {
	args := []string{
		"-png",
		"-r", fmt.Sprint(e.cfg.DPI),
		"-f", "1",
		"-l", fmt.Sprint(e.cfg.MaxPages),
		pdfPath,
		filepath.Join(workDir, "page"),
	}
	if err := e.runner(ctx, "pdftoppm", args...); err != nil {
		if ctx.Err() != nil {
			return nil, ErrTimeout
		}
		return nil, fmt.Errorf("rasterize pdf: %w", err)
	}

	pages, err := filepath.Glob(filepath.Join(workDir, "page*.png"))
	if err != nil || len(pages) == 0 {
		return nil, fmt.Errorf("rasterization produced no pages")
	}
	sort.Strings(pages)
	return pages, nil
}

// recognize OCRs one page image and returns its text.
func (e *Engine) recognize(ctx context.Context, workDir, imagePath string) (string, error) {
	outBase := strings.TrimSuffix(imagePath, ".png")
	if err := e.runner(ctx, "tesseract", imagePath, outBase, "--psm", "6"); err != nil {
		if ctx.Err() != nil {
			return "", ErrTimeout
		}
		return "", fmt.Errorf("ocr page %s: %w", filepath.Base(imagePath), err)
	}

	text, err := os.ReadFile(outBase + ".txt")
	if err != nil {
		return "", fmt.Errorf("read ocr output: %w", err)
	}
	return string(text), nil
}
