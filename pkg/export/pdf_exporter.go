package export

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

const (
	pageWidth   = 190.0
	utf8Family  = "portal"
	coreFamily  = "Helvetica"
	titleSize   = 14
	headerSize  = 10
	bodySize    = 9
	rowHeight   = 7
	headerHeight = 8
)

// PDFExporter renders datasets into a tabular A4 PDF.
//
// Core PDF fonts only cover Latin-1, so Cyrillic text needs a TrueType font
// registered through WithUTF8Font. Without one, unsupported runes are replaced.
type PDFExporter struct {
	fontPath string
}

// PDFOption customises a PDFExporter.
type PDFOption func(*PDFExporter)

// WithUTF8Font embeds the TrueType font at path for all text.
func WithUTF8Font(path string) PDFOption {
	return func(e *PDFExporter) {
		e.fontPath = path
	}
}

// NewPDFExporter constructs a PDF exporter.
func NewPDFExporter(opts ...PDFOption) *PDFExporter {
	e := &PDFExporter{}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Render creates a PDF document with the dataset title and a table body.
func (e *PDFExporter) Render(data Dataset) ([]byte, error) {
	if len(data.Headers) == 0 {
		return nil, fmt.Errorf("pdf requires at least one header")
	}
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 15, 10)
	pdf.SetTitle(data.Title, true)

	family, bold, text := coreFamily, "B", pdf.UnicodeTranslatorFromDescriptor("")
	if e.fontPath != "" {
		pdf.AddUTF8Font(utf8Family, "", e.fontPath)
		if err := pdf.Error(); err != nil {
			return nil, fmt.Errorf("load pdf font %s: %w", e.fontPath, err)
		}
		family, bold, text = utf8Family, "", func(s string) string { return s }
	}
	pdf.AddPage()

	if data.Title != "" {
		pdf.SetFont(family, bold, titleSize)
		pdf.CellFormat(0, 10, text(data.Title), "", 1, "C", false, 0, "")
		pdf.Ln(5)
	}

	widths := columnWidths(len(data.Headers))
	pdf.SetFont(family, bold, headerSize)
	for i, header := range data.Headers {
		pdf.CellFormat(widths[i], headerHeight, text(header), "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont(family, "", bodySize)
	for _, row := range data.Rows {
		for i := range data.Headers {
			value := ""
			if i < len(row) {
				value = row[i]
			}
			pdf.CellFormat(widths[i], rowHeight, text(value), "1", 0, "", false, 0, "")
		}
		pdf.Ln(-1)
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// columnWidths gives the last column, usually a URL, half of the page.
func columnWidths(n int) []float64 {
	widths := make([]float64, n)
	if n == 1 {
		widths[0] = pageWidth
		return widths
	}
	last := pageWidth / 2
	rest := (pageWidth - last) / float64(n-1)
	for i := range widths {
		widths[i] = rest
	}
	widths[n-1] = last
	return widths
}
