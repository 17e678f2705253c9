// Package respond is the single error-translation point between
// services and the wire. Handlers pass every failure through Error so
// all responses share one shape.
package respond

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/inkwell-app/inkwell-diary/internal/model"
)

// ErrorResponse is the uniform error body: {"status":"error","message":...}.
type ErrorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

// Error translates an error into an HTTP response. Operational errors
// carry their own status and message; anything else is logged and
// surfaced as an opaque 500 so internal detail never reaches clients.
func Error(w http.ResponseWriter, err error) {
	if ae, ok := model.AsAppError(err); ok {
		WriteJSON(w, ae.Status, ErrorResponse{Status: "error", Message: ae.Message})
		return
	}

	log.Error().Stack().Err(err).Msg("unexpected error")
	WriteJSON(w, http.StatusInternalServerError, ErrorResponse{
		Status:  "error",
		Message: "Something went wrong",
	})
}

// WriteUnauthorized writes a 401 with the uniform error shape.
func WriteUnauthorized(w http.ResponseWriter, message string) {
	WriteJSON(w, http.StatusUnauthorized, ErrorResponse{Status: "error", Message: message})
}

// WriteBadRequest writes a 400 with the uniform error shape.
func WriteBadRequest(w http.ResponseWriter, message string) {
	WriteJSON(w, http.StatusBadRequest, ErrorResponse{Status: "error", Message: message})
}
