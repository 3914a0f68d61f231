// Package pdftext extracts the text layer from digitally-native PDFs.
// A scanned PDF has no usable text layer; callers treat a result below
// MinUsefulChars as the signal to fall back to OCR.
package pdftext

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// MinUsefulChars is the threshold below which extracted text is considered
// evidence of a scanned (image-only) PDF.
const MinUsefulChars = 100

// Extract pulls plain text from every page, preserving page order and
// returning lines grouped by vertical position so statement rows survive.
func Extract(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}

	var b strings.Builder
	for pageNum := 1; pageNum <= reader.NumPage(); pageNum++ {
		page := reader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}
		rows, err := page.GetTextByRow()
		if err != nil {
			// A single unreadable page should not sink the document.
			continue
		}
		for _, row := range rows {
			var words []string
			for _, word := range row.Content {
				if w := strings.TrimSpace(word.S); w != "" {
					words = append(words, w)
				}
			}
			if len(words) > 0 {
				b.WriteString(strings.Join(words, " "))
				b.WriteByte('\n')
			}
		}
	}
	return b.String(), nil
}

// HasUsefulText reports whether extracted text is substantial enough to
// parse directly instead of falling back to OCR.
func HasUsefulText(text string) bool {
	return len(strings.TrimSpace(text)) >= MinUsefulChars
}
