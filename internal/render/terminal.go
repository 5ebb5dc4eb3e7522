package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/futig/docqa-client/internal/session"
	"github.com/mattn/go-runewidth"
)

const defaultWidth = 80

// Terminal writes transcript entries to a terminal. Questions are right-aligned,
// answers and sources left-aligned.
type Terminal struct {
	w     io.Writer
	width int

	question *color.Color
	answer   *color.Color
	heading  *color.Color
	filename *color.Color
	info     *color.Color
	warning  *color.Color
	failure  *color.Color
}

type TerminalOption func(*Terminal)

func WithWidth(width int) TerminalOption {
	return func(t *Terminal) {
		if width > 0 {
			t.width = width
		}
	}
}

// WithoutColor disables ANSI escapes, e.g. when output is not a TTY.
func WithoutColor() TerminalOption {
	return func(t *Terminal) {
		for _, c := range t.colors() {
			c.DisableColor()
		}
	}
}

func NewTerminal(w io.Writer, opts ...TerminalOption) *Terminal {
	t := &Terminal{
		w:        w,
		width:    defaultWidth,
		question: color.New(color.FgCyan, color.Bold),
		answer:   color.New(color.Reset),
		heading:  color.New(color.Bold),
		filename: color.New(color.FgYellow),
		info:     color.New(color.FgGreen),
		warning:  color.New(color.FgYellow),
		failure:  color.New(color.FgRed),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *Terminal) colors() []*color.Color {
	return []*color.Color{t.question, t.answer, t.heading, t.filename, t.info, t.warning, t.failure}
}

// Render writes entries in order.
func (t *Terminal) Render(entries []session.Entry) {
	for _, e := range entries {
		e.Accept(t)
	}
}

func (t *Terminal) VisitQuestion(q session.Question) {
	for _, line := range strings.Split(q.Text, "\n") {
		pad := t.width - runewidth.StringWidth(line)
		if pad < 0 {
			pad = 0
		}
		fmt.Fprintln(t.w, strings.Repeat(" ", pad)+t.question.Sprint(line))
	}
}

func (t *Terminal) VisitAnswer(a session.Answer) {
	for _, line := range strings.Split(a.Text, "\n") {
		fmt.Fprintln(t.w, t.answer.Sprint(line))
	}
}

func (t *Terminal) VisitSourceList(s session.SourceList) {
	fmt.Fprintln(t.w, t.heading.Sprint(MsgSourcesHeading))
	for i, src := range s.Sources() {
		fmt.Fprintf(t.w, "  %d. %s: %s\n", i+1, t.filename.Sprint(src.Filename), Excerpt(src.Content))
	}
}

// Notice writes a notice coloured by severity.
func (t *Terminal) Notice(n *Notice) {
	c := t.info
	switch n.Severity {
	case SeverityWarning:
		c = t.warning
	case SeverityError:
		c = t.failure
	}
	fmt.Fprintln(t.w, c.Sprint(n.Text))
}

func (t *Terminal) Info(text string) {
	fmt.Fprintln(t.w, t.info.Sprint(text))
}

func (t *Terminal) Println(text string) {
	fmt.Fprintln(t.w, text)
}
