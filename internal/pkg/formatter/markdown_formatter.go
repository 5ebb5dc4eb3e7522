package formatter

import (
	"bytes"
	"fmt"
	"strings"
)

const (
	markdownContentType   = "text/markdown; charset=utf-8"
	markdownFileExtension = ".md"
)

type MarkdownFormatter struct{}

func NewMarkdownFormatter() *MarkdownFormatter {
	return &MarkdownFormatter{}
}

// Format writes labels in bold; multi-line sections start below their label.
func (mf *MarkdownFormatter) Format(doc Document) ([]byte, error) {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "# %s\n", doc.title())

	for _, s := range doc.Sections {
		buf.WriteString("\n")
		if s.inline() {
			fmt.Fprintf(&buf, "**%s:** %s\n", s.Label, s.Lines[0])
			continue
		}
		fmt.Fprintf(&buf, "**%s:**\n\n", s.Label)
		buf.WriteString(strings.Join(s.Lines, "\n"))
		buf.WriteString("\n")
	}
	return buf.Bytes(), nil
}

func (mf *MarkdownFormatter) ContentType() string {
	return markdownContentType
}

func (mf *MarkdownFormatter) FileExtension() string {
	return markdownFileExtension
}
