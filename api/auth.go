package api

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/taskcanvas/taskcanvas/api/helpers"
	"github.com/taskcanvas/taskcanvas/db"
	"github.com/taskcanvas/taskcanvas/services/auth"
)

type authResponse struct {
	Token string  `json:"token"`
	User  db.User `json:"user"`
}

func registerHandler(authService *auth.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var request struct {
			Email    string `json:"email"`
			Name     string `json:"name"`
			Password string `json:"password"`
		}
		if !helpers.Bind(w, r, &request) {
			return
		}

		user, err := authService.Register(r.Context(), request.Email, request.Name, request.Password)
		if err != nil {
			helpers.WriteError(w, err)
			return
		}

		token, _, err := authService.Login(r.Context(), request.Email, request.Password)
		if err != nil {
			helpers.WriteError(w, err)
			return
		}

		helpers.WriteJSON(w, http.StatusCreated, authResponse{Token: token, User: user})
	}
}

func loginHandler(authService *auth.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var request struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if !helpers.Bind(w, r, &request) {
			return
		}

		token, user, err := authService.Login(r.Context(), request.Email, request.Password)
		if err != nil {
			if err == auth.ErrInvalidCredentials {
				helpers.WriteErrorStatus(w, err.Error(), http.StatusUnauthorized)
				return
			}
			helpers.WriteError(w, err)
			return
		}

		helpers.WriteJSON(w, http.StatusOK, authResponse{Token: token, User: user})
	}
}

// authMiddleware resolves the bearer token to a user and stores it on the
// request context. Requests without a valid token get 401.
func authMiddleware(authService *auth.Service) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				helpers.WriteErrorStatus(w, "not authenticated", http.StatusUnauthorized)
				return
			}

			user, err := authService.VerifyToken(r.Context(), parts[1])
			if err != nil {
				helpers.WriteErrorStatus(w, "not authenticated", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, helpers.SetContextValue(r, "user", &user))
		})
	}
}
