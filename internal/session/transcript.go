package session

import (
	"sync"

	"github.com/futig/docqa-client/internal/entity"
)

// Entry is one transcript item: Question, Answer or SourceList.
// The set is closed; renderers handle every variant through EntryVisitor.
type Entry interface {
	Accept(v EntryVisitor)
	entry()
}

// EntryVisitor must handle every Entry variant.
type EntryVisitor interface {
	VisitQuestion(q Question)
	VisitAnswer(a Answer)
	VisitSourceList(s SourceList)
}

type Question struct {
	Text string
}

func (q Question) Accept(v EntryVisitor) { v.VisitQuestion(q) }
func (Question) entry()                  {}

type Answer struct {
	Text string
}

func (a Answer) Accept(v EntryVisitor) { v.VisitAnswer(a) }
func (Answer) entry()                  {}

// SourceList holds the sources cited by the preceding answer.
type SourceList struct {
	sources []entity.Source
}

// NewSourceList copies sources so later changes by the caller don't leak in.
func NewSourceList(sources []entity.Source) SourceList {
	return SourceList{sources: cloneSources(sources)}
}

// Sources returns a copy of the cited sources in backend order.
func (s SourceList) Sources() []entity.Source {
	return cloneSources(s.sources)
}

func (s SourceList) Len() int {
	return len(s.sources)
}

func (s SourceList) Accept(v EntryVisitor) { v.VisitSourceList(s) }
func (SourceList) entry()                  {}

func cloneSources(sources []entity.Source) []entity.Source {
	out := make([]entity.Source, len(sources))
	for i, src := range sources {
		out[i] = entity.Source{Filename: src.Filename}
		if src.Content != nil {
			content := *src.Content
			out[i].Content = &content
		}
	}
	return out
}

// Transcript is the append-only chat log of one session.
type Transcript struct {
	mu      sync.RWMutex
	entries []Entry
}

func newTranscript() *Transcript {
	return &Transcript{}
}

func (t *Transcript) append(entries ...Entry) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries = append(t.entries, entries...)
}

// Entries returns a snapshot in chronological order.
func (t *Transcript) Entries() []Entry {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]Entry, len(t.entries))
	copy(out, t.entries)
	return out
}

func (t *Transcript) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.entries)
}
