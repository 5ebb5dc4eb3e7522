package formatter

import (
	"bytes"
	"fmt"

	"github.com/unidoc/unioffice/document"
)

const (
	docxContentType   = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	docxFileExtension = ".docx"
)

type DOCXFormatter struct{}

func NewDOCXFormatter() *DOCXFormatter {
	return &DOCXFormatter{}
}

// Format puts every section in its own paragraphs with a bold label run.
func (mf *DOCXFormatter) Format(doc Document) ([]byte, error) {
	out := document.New()
	defer out.Close()

	title := out.AddParagraph()
	title.SetStyle("Heading1")
	title.AddRun().AddText(doc.title())

	for _, s := range doc.Sections {
		par := out.AddParagraph()
		label := par.AddRun()
		label.Properties().SetBold(true)
		label.AddText(s.Label + ":")

		if s.inline() {
			par.AddRun().AddText(" " + s.Lines[0])
			continue
		}
		for _, line := range s.Lines {
			out.AddParagraph().AddRun().AddText(line)
		}
	}

	var buf bytes.Buffer
	if err := out.Save(&buf); err != nil {
		return nil, fmt.Errorf("save docx: %w", err)
	}
	return buf.Bytes(), nil
}

func (mf *DOCXFormatter) ContentType() string {
	return docxContentType
}

func (mf *DOCXFormatter) FileExtension() string {
	return docxFileExtension
}
