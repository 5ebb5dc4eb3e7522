package keyboard

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCallback(t *testing.T) {
	data, err := ParseCallback("dl:pdf")
	require.NoError(t, err)
	assert.Equal(t, &CallbackData{Action: ActionExport, Value: "pdf"}, data)

	data, err = ParseCallback("action:a:b")
	require.NoError(t, err)
	assert.Equal(t, "a:b", data.Value)

	for _, bad := range []string{"", "upload", ":upload", "dl:" + strings.Repeat("x", 62)} {
		_, err := ParseCallback(bad)
		assert.ErrorIs(t, err, ErrInvalidCallback, bad)
	}

	assert.Equal(t, "dl:md", CallbackData{Action: ActionExport, Value: "md"}.String())
}

func TestUploadKeyboard(t *testing.T) {
	kb := NewBuilder().UploadKeyboard()

	require.Len(t, kb.InlineKeyboard, 1)
	button := kb.InlineKeyboard[0][0]
	require.NotNil(t, button.CallbackData)
	assert.Equal(t, "action:upload", *button.CallbackData)
}

func TestExportKeyboard(t *testing.T) {
	kb := NewBuilder().ExportKeyboard()

	var values []string
	for _, b := range kb.InlineKeyboard[0] {
		values = append(values, *b.CallbackData)
	}
	assert.Equal(t, []string{"dl:md", "dl:pdf", "dl:docx"}, values)
}
