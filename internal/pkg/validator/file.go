package validator

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/futig/docqa-client/internal/config"
	"github.com/futig/docqa-client/internal/entity"
)

var AllowedExtensions = map[string]bool{
	".pdf": true,
}

var pdfMagic = []byte("%PDF-")

// Validator validates documents before they become part of a selection
type Validator struct {
	cfg config.UploadConfig
}

func NewFileValidator(cfg config.UploadConfig) *Validator {
	return &Validator{cfg: cfg}
}

// ValidateMeta checks what is known before the content is read.
func (v *Validator) ValidateMeta(name string, size int64) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: missing file name", entity.ErrInvalidFile)
	}

	ext := strings.ToLower(filepath.Ext(name))
	if !AllowedExtensions[ext] {
		return fmt.Errorf("%w: %s (only PDF files are allowed)", entity.ErrInvalidExtension, name)
	}

	if size > v.cfg.MaxFileSize {
		return fmt.Errorf("%w: file '%s' is %d bytes (max %d)", entity.ErrFileTooLarge, name, size, v.cfg.MaxFileSize)
	}

	return nil
}

// ValidateFile checks a fully read file.
func (v *Validator) ValidateFile(file entity.SelectedFile) error {
	if err := v.ValidateMeta(file.Name, file.Size); err != nil {
		return err
	}

	if file.Size == 0 {
		return fmt.Errorf("%w: file '%s' is empty", entity.ErrInvalidFile, file.Name)
	}

	if !bytes.HasPrefix(file.Content, pdfMagic) {
		return fmt.Errorf("%w: file '%s' is not a PDF document", entity.ErrInvalidFile, file.Name)
	}

	return nil
}

// ValidateSelection validates every file and the file count of a selection.
func (v *Validator) ValidateSelection(files []entity.SelectedFile) error {
	if len(files) > v.cfg.MaxFileCount {
		return fmt.Errorf("%w: maximum %d files allowed, got %d", entity.ErrTooManyFiles, v.cfg.MaxFileCount, len(files))
	}

	for _, f := range files {
		if err := v.ValidateFile(f); err != nil {
			return err
		}
	}

	return nil
}

// SanitizeFilename strips directories and characters that break multipart headers
func SanitizeFilename(filename string) string {
	filename = filepath.Base(strings.ReplaceAll(filename, "\\", "/"))
	replacer := strings.NewReplacer(
		"\"", "",
		"\r", "",
		"\n", "",
	)
	return replacer.Replace(filename)
}
