package helpers

import (
	"context"
	"net/http"

	"github.com/taskcanvas/taskcanvas/db"
)

type contextKey string

// SetContextValue stores a value on the request context under name.
func SetContextValue(r *http.Request, name string, value interface{}) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), contextKey(name), value))
}

// GetFromContext returns the value stored under name, or nil.
func GetFromContext(r *http.Request, name string) interface{} {
	return r.Context().Value(contextKey(name))
}

// Store returns the store attached to the request by the router.
func Store(r *http.Request) db.Store {
	return GetFromContext(r, "store").(db.Store)
}

// UserFromContext returns the authenticated user, or nil.
func UserFromContext(r *http.Request) *db.User {
	if user, ok := GetFromContext(r, "user").(*db.User); ok {
		return user
	}
	return nil
}
