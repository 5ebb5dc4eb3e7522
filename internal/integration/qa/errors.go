package qa

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/futig/docqa-client/internal/entity"
	pkghttp "github.com/futig/docqa-client/pkg/http"
)

func newUploadError(err error) *entity.UploadError {
	var httpErr *pkghttp.HTTPError
	if errors.As(err, &httpErr) {
		return &entity.UploadError{
			Detail:     parseDetail(httpErr.Body),
			StatusCode: httpErr.StatusCode,
			Cause:      err,
		}
	}

	return &entity.UploadError{
		NoResponse: pkghttp.IsNetworkError(err),
		Cause:      err,
	}
}

// parseDetail extracts the "detail" field of an error body. A list of
// validation items is flattened into their messages.
func parseDetail(body []byte) string {
	var payload entity.ErrorResponse
	if err := json.Unmarshal(body, &payload); err != nil || len(payload.Detail) == 0 {
		return ""
	}

	var text string
	if err := json.Unmarshal(payload.Detail, &text); err == nil {
		return strings.TrimSpace(text)
	}

	var items []entity.ValidationItem
	if err := json.Unmarshal(payload.Detail, &items); err == nil {
		msgs := make([]string, 0, len(items))
		for _, item := range items {
			if msg := strings.TrimSpace(item.Msg); msg != "" {
				msgs = append(msgs, msg)
			}
		}
		return strings.Join(msgs, "; ")
	}

	return ""
}
