package keyboard

import (
	"errors"
	"fmt"
	"strings"
)

// Telegram rejects callback data longer than 64 bytes
const maxCallbackData = 64

var ErrInvalidCallback = errors.New("invalid callback data")

// CallbackData is the action and value carried by an inline button
type CallbackData struct {
	Action string // ActionAction or ActionExport
	Value  string
}

func (d CallbackData) String() string {
	return EncodeCallback(d.Action, d.Value)
}

// ParseCallback splits "action:value"; the value may itself contain colons.
func ParseCallback(data string) (*CallbackData, error) {
	action, value, ok := strings.Cut(data, ":")
	if !ok || action == "" || len(data) > maxCallbackData {
		return nil, fmt.Errorf("%w: %q", ErrInvalidCallback, data)
	}

	return &CallbackData{Action: action, Value: value}, nil
}

func EncodeCallback(action, value string) string {
	return action + ":" + value
}
