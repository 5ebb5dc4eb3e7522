package session

import (
	"testing"

	"github.com/futig/docqa-client/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingVisitor struct {
	kinds []string
}

func (r *recordingVisitor) VisitQuestion(Question)     { r.kinds = append(r.kinds, "question") }
func (r *recordingVisitor) VisitAnswer(Answer)         { r.kinds = append(r.kinds, "answer") }
func (r *recordingVisitor) VisitSourceList(SourceList) { r.kinds = append(r.kinds, "sources") }

func TestEntry_Accept(t *testing.T) {
	v := &recordingVisitor{}

	for _, e := range []Entry{Question{Text: "q"}, Answer{Text: "a"}, NewSourceList(nil)} {
		e.Accept(v)
	}

	assert.Equal(t, []string{"question", "answer", "sources"}, v.kinds)
}

func TestSourceList_IsIsolated(t *testing.T) {
	content := "alpha"
	input := []entity.Source{{Filename: "a.pdf", Content: &content}, {Filename: "b.pdf"}}

	list := NewSourceList(input)
	input[0].Filename = "changed.pdf"
	content = "changed"

	got := list.Sources()
	require.Len(t, got, 2)
	assert.Equal(t, "a.pdf", got[0].Filename)
	assert.Equal(t, "alpha", *got[0].Content)
	assert.Nil(t, got[1].Content)

	*got[0].Content = "mutated"
	assert.Equal(t, "alpha", *list.Sources()[0].Content)
}

func TestTranscript(t *testing.T) {
	tr := newTranscript()
	assert.Zero(t, tr.Len())
	assert.Empty(t, tr.Entries())

	tr.append(Question{Text: "q1"}, Answer{Text: "a1"})
	tr.append(Question{Text: "q2"}, Answer{Text: "a2"})

	assert.Equal(t, 4, tr.Len())

	snapshot := tr.Entries()
	snapshot[0] = Answer{Text: "overwritten"}
	assert.Equal(t, Question{Text: "q1"}, tr.Entries()[0])
}
