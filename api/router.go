// Package api wires the HTTP surface: auth endpoints, the authenticated
// project routes, and the user-scoped invitation/shared-project routes.
package api

import (
	"net/http"
	"os"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/taskcanvas/taskcanvas/api/helpers"
	"github.com/taskcanvas/taskcanvas/api/projects"
	"github.com/taskcanvas/taskcanvas/db"
	"github.com/taskcanvas/taskcanvas/services/auth"
)

// Route builds the full router.
func Route(store db.Store, authService *auth.Service) *mux.Router {
	router := mux.NewRouter()
	router.Use(func(next http.Handler) http.Handler {
		return handlers.LoggingHandler(os.Stdout, handlers.RecoveryHandler()(next))
	})
	router.Use(storeMiddleware(store))

	public := router.PathPrefix("/api/auth").Subrouter()
	public.HandleFunc("/register", registerHandler(authService)).Methods("POST")
	public.HandleFunc("/login", loginHandler(authService)).Methods("POST")

	authenticated := router.PathPrefix("/api").Subrouter()
	authenticated.Use(authMiddleware(authService))

	authenticated.HandleFunc("/projects", projects.GetProjects).Methods("GET")
	authenticated.HandleFunc("/projects", projects.AddProject).Methods("POST")

	scoped := authenticated.PathPrefix("/projects/{project_id}").Subrouter()
	scoped.Use(projects.ProjectMiddleware)
	scoped.HandleFunc("", projects.GetProject).Methods("GET")
	scoped.HandleFunc("", projects.UpdateProject).Methods("PUT")
	scoped.HandleFunc("", projects.DeleteProject).Methods("DELETE")

	scoped.HandleFunc("/notes", projects.GetNotes).Methods("GET")
	scoped.HandleFunc("/tasks", projects.GetTasks).Methods("GET")
	scoped.HandleFunc("/messages", projects.GetMessages).Methods("GET")
	scoped.HandleFunc("/messages", projects.AddMessage).Methods("POST")
	scoped.HandleFunc("/sharing", projects.GetSharings).Methods("GET")
	scoped.HandleFunc("/sharing", projects.AddSharing).Methods("POST")
	scoped.HandleFunc("/sharing/{sharing_id}", projects.DeleteSharing).Methods("DELETE")

	// child-entity writes require edit permission
	writes := scoped.NewRoute().Subrouter()
	writes.Use(projects.RequireWrite)
	writes.HandleFunc("/notes", projects.AddNote).Methods("POST")
	writes.HandleFunc("/notes/{note_id}", projects.UpdateNote).Methods("PUT")
	writes.HandleFunc("/notes/{note_id}", projects.DeleteNote).Methods("DELETE")
	writes.HandleFunc("/tasks", projects.AddTask).Methods("POST")
	writes.HandleFunc("/tasks/{task_id}", projects.UpdateTask).Methods("PUT")
	writes.HandleFunc("/tasks/{task_id}", projects.DeleteTask).Methods("DELETE")

	user := authenticated.PathPrefix("/user").Subrouter()
	user.HandleFunc("/invitations", getInvitations).Methods("GET")
	user.HandleFunc("/invitations/{sharing_id}", respondToInvitation).Methods("POST")
	user.HandleFunc("/shared-projects", getSharedProjects).Methods("GET")

	return router
}

func storeMiddleware(store db.Store) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, helpers.SetContextValue(r, "store", store))
		})
	}
}
