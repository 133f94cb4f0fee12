package helpers

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// GetStrParam pulls a route variable. Every id in the API is a UUID, so a
// malformed value is answered with 400 without touching the store.
func GetStrParam(name string, w http.ResponseWriter, r *http.Request) (string, error) {
	value, ok := mux.Vars(r)[name]
	if !ok {
		WriteErrorStatus(w, "missing "+name, http.StatusBadRequest)
		return "", fmt.Errorf("route parameter %s missing", name)
	}

	if _, err := uuid.Parse(value); err != nil {
		WriteErrorStatus(w, "malformed "+name, http.StatusBadRequest)
		return "", fmt.Errorf("route parameter %s is not an id", name)
	}

	return value, nil
}
