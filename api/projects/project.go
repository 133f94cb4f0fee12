// Package projects holds the project-scoped handlers: the project itself,
// its notes, tasks, chat and sharing records.
package projects

import (
	"errors"
	"net/http"

	"github.com/taskcanvas/taskcanvas/api/helpers"
	"github.com/taskcanvas/taskcanvas/db"
)

// Access is the caller's derived permission on the routed project.
type Access struct {
	IsOwner  bool
	CanWrite bool
}

// ProjectMiddleware ensures a project exists, derives the caller's
// permission and loads both to the context. Users without access get 404 so
// foreign project ids stay unguessable.
func ProjectMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := helpers.UserFromContext(r)

		projectID, err := helpers.GetStrParam("project_id", w, r)
		if err != nil {
			return
		}

		project, err := helpers.Store(r).GetProject(projectID)
		if err != nil {
			helpers.WriteError(w, err)
			return
		}

		access, err := deriveAccess(r, project, user)
		if err != nil {
			helpers.WriteError(w, err)
			return
		}
		if access == nil {
			helpers.WriteErrorStatus(w, "not found", http.StatusNotFound)
			return
		}

		r = helpers.SetContextValue(r, "project", project)
		r = helpers.SetContextValue(r, "access", *access)
		next.ServeHTTP(w, r)
	})
}

func deriveAccess(r *http.Request, project db.Project, user *db.User) (*Access, error) {
	if project.UserID == user.ID {
		return &Access{IsOwner: true, CanWrite: true}, nil
	}

	sharings, err := helpers.Store(r).GetProjectSharings(project.ID)
	if err != nil && !errors.Is(err, db.ErrNotFound) {
		return nil, err
	}
	for _, sharing := range sharings {
		if sharing.SharedWithID != user.ID {
			continue
		}
		if !sharing.CanRead() {
			break
		}
		return &Access{CanWrite: sharing.CanWrite()}, nil
	}
	return nil, nil
}

// RequireWrite guards mutating child-entity routes behind edit permission.
func RequireWrite(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		access := helpers.GetFromContext(r, "access").(Access)
		if !access.CanWrite {
			helpers.WriteErrorStatus(w, "edit permission required", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetProjects returns the user's own projects with note/task counts.
func GetProjects(w http.ResponseWriter, r *http.Request) {
	user := helpers.UserFromContext(r)

	projects, err := helpers.Store(r).GetProjectsWithCounts(user.ID)
	if err != nil {
		helpers.WriteError(w, err)
		return
	}

	helpers.WriteJSON(w, http.StatusOK, projects)
}

// AddProject creates a project owned by the caller.
func AddProject(w http.ResponseWriter, r *http.Request) {
	user := helpers.UserFromContext(r)

	var request struct {
		Title       string `json:"title"`
		Description string `json:"description"`
	}
	if !helpers.Bind(w, r, &request) {
		return
	}

	project, err := helpers.Store(r).CreateProject(db.Project{
		Title:       request.Title,
		Description: request.Description,
		UserID:      user.ID,
	})
	if err != nil {
		helpers.WriteError(w, err)
		return
	}

	helpers.WriteJSON(w, http.StatusCreated, project)
}

// GetProject returns the routed project.
func GetProject(w http.ResponseWriter, r *http.Request) {
	project := helpers.GetFromContext(r, "project").(db.Project)
	helpers.WriteJSON(w, http.StatusOK, project)
}

// UpdateProject changes title/description. Owners and editors may update.
func UpdateProject(w http.ResponseWriter, r *http.Request) {
	project := helpers.GetFromContext(r, "project").(db.Project)
	access := helpers.GetFromContext(r, "access").(Access)

	if !access.CanWrite {
		helpers.WriteErrorStatus(w, "edit permission required", http.StatusForbidden)
		return
	}

	var request struct {
		Title       string `json:"title"`
		Description string `json:"description"`
	}
	if !helpers.Bind(w, r, &request) {
		return
	}

	project.Title = request.Title
	project.Description = request.Description
	if err := helpers.Store(r).UpdateProject(project); err != nil {
		helpers.WriteError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// DeleteProject removes the project and its children. Owner only.
func DeleteProject(w http.ResponseWriter, r *http.Request) {
	project := helpers.GetFromContext(r, "project").(db.Project)
	access := helpers.GetFromContext(r, "access").(Access)

	if !access.IsOwner {
		helpers.WriteErrorStatus(w, "only the owner can delete a project", http.StatusForbidden)
		return
	}

	if err := helpers.Store(r).DeleteProject(project.ID); err != nil {
		helpers.WriteError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
