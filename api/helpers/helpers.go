package helpers

import (
	"encoding/json"
	"errors"
	"net/http"

	log "github.com/sirupsen/logrus"

	"github.com/taskcanvas/taskcanvas/db"
)

// WriteJSON writes object as JSON with the given response code.
func WriteJSON(w http.ResponseWriter, code int, out interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(out); err != nil {
		log.WithError(err).Error("cannot write response body")
	}
}

// WriteErrorStatus writes a JSON error body with the given status code.
func WriteErrorStatus(w http.ResponseWriter, message string, code int) {
	WriteJSON(w, code, map[string]string{"error": message})
}

// WriteError maps a store error to a response: not-found to 404, validation
// to 400, conflicts to 409, everything else to 500.
func WriteError(w http.ResponseWriter, err error) {
	var validationError *db.ValidationError

	switch {
	case errors.Is(err, db.ErrNotFound):
		WriteErrorStatus(w, "not found", http.StatusNotFound)
	case errors.As(err, &validationError):
		WriteErrorStatus(w, validationError.Message, http.StatusBadRequest)
	case errors.Is(err, db.ErrInvalidInput):
		WriteErrorStatus(w, "invalid input", http.StatusBadRequest)
	case errors.Is(err, db.ErrConflict):
		WriteErrorStatus(w, "already exists", http.StatusConflict)
	default:
		log.WithError(err).Error("unexpected error")
		WriteErrorStatus(w, "internal error", http.StatusInternalServerError)
	}
}

// Bind decodes the request body into out, answering 400 on malformed JSON.
func Bind(w http.ResponseWriter, r *http.Request, out interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(out); err != nil {
		WriteErrorStatus(w, "invalid request body", http.StatusBadRequest)
		return false
	}
	return true
}
