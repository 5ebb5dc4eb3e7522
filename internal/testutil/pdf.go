// Package testutil holds fixtures shared by package tests.
package testutil

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/futig/docqa-client/internal/entity"
	"github.com/jung-kurt/gofpdf"
	"github.com/stretchr/testify/require"
)

// PDF renders a one-page PDF containing text.
func PDF(t testing.TB, text string) []byte {
	t.Helper()

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "", 12)
	pdf.MultiCell(0, 6, text, "", "", false)

	var buf bytes.Buffer
	require.NoError(t, pdf.Output(&buf))
	return buf.Bytes()
}

// PDFFile is a SelectedFile with generated PDF content.
func PDFFile(t testing.TB, name, text string) entity.SelectedFile {
	t.Helper()
	return entity.NewSelectedFile(name, PDF(t, text))
}

// WritePDF writes a generated PDF into dir and returns its path.
func WritePDF(t testing.TB, dir, name, text string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, PDF(t, text), 0o600))
	return path
}
