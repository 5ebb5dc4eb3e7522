package formatter

import (
	"bytes"
	"fmt"
	"os"

	"github.com/jung-kurt/gofpdf"
)

const (
	pdfContentType   = "application/pdf"
	pdfFileExtension = ".pdf"

	// pdfFontName is the gofpdf family name of the UTF-8 font.
	pdfFontName = "DejaVuSans"

	pdfFontRuntimePath = "ttf/DejaVuSans.ttf"
	pdfFontSourcePath  = "internal/pkg/formatter/ttf/DejaVuSans.ttf"
)

type PDFFormatter struct {
	fontPath string
}

func NewPDFFormatter() *PDFFormatter {
	return &PDFFormatter{fontPath: resolveFontPath()}
}

// resolveFontPath looks for DejaVuSans next to the binary, then in the source tree.
func resolveFontPath() string {
	if path := os.Getenv("DOCQA_PDF_FONT"); path != "" {
		return path
	}
	if _, err := os.Stat(pdfFontRuntimePath); err == nil {
		return pdfFontRuntimePath
	}
	if _, err := os.Stat(pdfFontSourcePath); err == nil {
		return pdfFontSourcePath
	}
	return ""
}

// Format writes the title, then each section as a bold label followed by its lines.
func (mf *PDFFormatter) Format(doc Document) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	fontName := "Arial"
	// core fonts are cp1252 only
	translate := pdf.UnicodeTranslatorFromDescriptor("")
	if mf.fontPath != "" {
		pdf.AddUTF8Font(pdfFontName, "", mf.fontPath)
		pdf.AddUTF8Font(pdfFontName, "B", mf.fontPath)
		fontName = pdfFontName
		translate = func(s string) string { return s }
	}

	pdf.SetFont(fontName, "B", 20)
	pdf.Cell(0, 10, translate(doc.title()))
	pdf.Ln(14)

	pdf.SetFont(fontName, "", 12)
	_, fontSize := pdf.GetFontSize()
	lineHeight := fontSize * 1.5

	for _, s := range doc.Sections {
		pdf.SetFont(fontName, "B", 12)
		pdf.MultiCell(0, lineHeight, translate(s.Label+":"), "", "", false)
		pdf.SetFont(fontName, "", 12)
		for _, line := range s.Lines {
			pdf.MultiCell(0, lineHeight, translate(line), "", "", false)
		}
		pdf.Ln(lineHeight / 2)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func (mf *PDFFormatter) ContentType() string {
	return pdfContentType
}

func (mf *PDFFormatter) FileExtension() string {
	return pdfFileExtension
}
