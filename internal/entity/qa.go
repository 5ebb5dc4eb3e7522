package entity

import "encoding/json"

// Source is a document fragment the backend cited for an answer.
type Source struct {
	Filename string  `json:"filename"`
	Content  *string `json:"content,omitempty"`
}

type QARequest struct {
	Question string `json:"question"`
}

type QAResponse struct {
	Answer  string   `json:"answer"`
	Sources []Source `json:"sources,omitempty"`
}

// ErrorResponse is the error payload of the backend. Detail is either a plain
// string or a list of validation items.
type ErrorResponse struct {
	Detail json.RawMessage `json:"detail,omitempty"`
}

// ValidationItem is one element of a list-shaped error detail.
type ValidationItem struct {
	Loc  []any  `json:"loc,omitempty"`
	Msg  string `json:"msg"`
	Type string `json:"type,omitempty"`
}
