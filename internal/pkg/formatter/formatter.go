package formatter

import (
	"fmt"

	"github.com/futig/docqa-client/internal/entity"
)

const defaultTitle = "Chat transcript"

// Section is one labelled part of an exported transcript: a question, an
// answer, or the list of cited sources.
type Section struct {
	Label string
	Lines []string
}

// Document is a transcript laid out for export
type Document struct {
	Title    string
	Sections []Section
}

func (d Document) title() string {
	if d.Title == "" {
		return defaultTitle
	}
	return d.Title
}

// inline reports whether the section fits on one line after its label
func (s Section) inline() bool {
	return len(s.Lines) == 1
}

type Formatter interface {
	Format(doc Document) ([]byte, error)
	ContentType() string
	FileExtension() string
}

type Factory struct{}

func NewFactory() *Factory {
	return &Factory{}
}

func (f *Factory) Create(format entity.ExportFormat) (Formatter, error) {
	switch format {
	case entity.FormatMarkdown:
		return NewMarkdownFormatter(), nil
	case entity.FormatDOCX:
		return NewDOCXFormatter(), nil
	case entity.FormatPDF:
		return NewPDFFormatter(), nil
	default:
		return nil, fmt.Errorf("%w: %s", entity.ErrUnsupportedFormat, format)
	}
}
