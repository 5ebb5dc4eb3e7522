package response

import (
	"encoding/json"
	"net/http"
)

// ErrorResponse is the FastAPI-style error body: detail is a string or a list
// of validation items.
type ErrorResponse struct {
	Detail any `json:"detail"`
}

// ValidationItem is one entry of a list-shaped detail
type ValidationItem struct {
	Loc  []any  `json:"loc"`
	Msg  string `json:"msg"`
	Type string `json:"type"`
}

// JSON writes a JSON response
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		}
	}
}

// Error writes {"detail": "<message>"}
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, ErrorResponse{Detail: message})
}

// ValidationError writes a 422 with a list-shaped detail
func ValidationError(w http.ResponseWriter, items ...ValidationItem) {
	JSON(w, http.StatusUnprocessableEntity, ErrorResponse{Detail: items})
}

// Success writes a success response
func Success(w http.ResponseWriter, data any) {
	JSON(w, http.StatusOK, data)
}
