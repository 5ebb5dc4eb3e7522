package render

import (
	"fmt"
	"strings"

	"github.com/futig/docqa-client/internal/entity"
	"github.com/futig/docqa-client/internal/pkg/formatter"
	"github.com/futig/docqa-client/internal/session"
)

const (
	labelQuestion = "Question"
	labelAnswer   = "Answer"
	labelSources  = "Sources"
)

// sectionRenderer lays entries out as labelled export sections.
type sectionRenderer struct {
	sections []formatter.Section
}

func (r *sectionRenderer) VisitQuestion(q session.Question) {
	r.add(labelQuestion, strings.Split(q.Text, "\n"))
}

func (r *sectionRenderer) VisitAnswer(a session.Answer) {
	r.add(labelAnswer, strings.Split(a.Text, "\n"))
}

func (r *sectionRenderer) VisitSourceList(s session.SourceList) {
	r.add(labelSources, SourceLines(s))
}

func (r *sectionRenderer) add(label string, lines []string) {
	r.sections = append(r.sections, formatter.Section{Label: label, Lines: lines})
}

// TranscriptDocument converts entries into an export document.
func TranscriptDocument(entries []session.Entry) formatter.Document {
	r := &sectionRenderer{}
	for _, e := range entries {
		e.Accept(r)
	}
	return formatter.Document{Sections: r.sections}
}

// Export is a rendered transcript file.
type Export struct {
	Data        []byte
	ContentType string
	Extension   string
}

// ExportTranscript renders entries into the given file format.
func ExportTranscript(factory *formatter.Factory, format entity.ExportFormat, entries []session.Entry) (*Export, error) {
	f, err := factory.Create(format)
	if err != nil {
		return nil, err
	}

	data, err := f.Format(TranscriptDocument(entries))
	if err != nil {
		return nil, fmt.Errorf("format transcript as %s: %w", format, err)
	}

	return &Export{Data: data, ContentType: f.ContentType(), Extension: f.FileExtension()}, nil
}
