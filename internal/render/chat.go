package render

import (
	"strings"

	"github.com/futig/docqa-client/internal/session"
)

// chatRenderer turns entries into chat messages, one message per entry.
type chatRenderer struct {
	includeQuestions bool
	messages         []string
}

func (r *chatRenderer) VisitQuestion(q session.Question) {
	if r.includeQuestions {
		r.messages = append(r.messages, "❓ "+q.Text)
	}
}

func (r *chatRenderer) VisitAnswer(a session.Answer) {
	r.messages = append(r.messages, a.Text)
}

func (r *chatRenderer) VisitSourceList(s session.SourceList) {
	lines := append([]string{"📚 " + MsgSourcesHeading}, SourceLines(s)...)
	r.messages = append(r.messages, strings.Join(lines, "\n"))
}

// ChatMessages renders entries as chat messages. Questions are skipped unless
// includeQuestions is set, since in a chat they are the user's own messages.
func ChatMessages(entries []session.Entry, includeQuestions bool) []string {
	r := &chatRenderer{includeQuestions: includeQuestions}
	for _, e := range entries {
		e.Accept(r)
	}
	return r.messages
}
