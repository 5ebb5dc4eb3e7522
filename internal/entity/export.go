package entity

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

var ErrUnsupportedFormat = errors.New("unsupported export format")

// ExportFormat is a file format a transcript can be exported to
type ExportFormat string

const (
	FormatMarkdown ExportFormat = "md"
	FormatPDF      ExportFormat = "pdf"
	FormatDOCX     ExportFormat = "docx"
)

// ParseExportFormat accepts a format name or file extension, with or without the dot.
func ParseExportFormat(s string) (ExportFormat, error) {
	switch strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), ".") {
	case "", "md", "markdown":
		return FormatMarkdown, nil
	case "pdf":
		return FormatPDF, nil
	case "docx":
		return FormatDOCX, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, s)
	}
}

// ExportFormatFromPath picks the format from a file extension.
func ExportFormatFromPath(path string) (ExportFormat, error) {
	return ParseExportFormat(filepath.Ext(path))
}
