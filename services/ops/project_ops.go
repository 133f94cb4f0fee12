package ops

import (
	"context"

	"github.com/taskcanvas/taskcanvas/db"
	"github.com/taskcanvas/taskcanvas/pkg/notify"
)

type ProjectOps struct {
	base
}

func NewProjectOps(store db.Store, notifier notify.Notifier) *ProjectOps {
	o := &ProjectOps{}
	o.init(store, notifier)
	return o
}

// Fetch returns the user's projects with note/task counts, newest-updated
// first. On failure the list is empty and the failure has been reported.
func (o *ProjectOps) Fetch(ctx context.Context, userID string) []db.ProjectWithCounts {
	var projects []db.ProjectWithCounts

	ok := o.run(ctx, "Failed to load projects", func(ctx context.Context) error {
		var err error
		projects, err = o.store.GetProjectsWithCounts(userID)
		return err
	})
	if !ok {
		return []db.ProjectWithCounts{}
	}
	return projects
}

// Get fetches a single project by id.
func (o *ProjectOps) Get(ctx context.Context, projectID string) (db.Project, bool) {
	var project db.Project

	ok := o.run(ctx, "Failed to load project", func(ctx context.Context) error {
		var err error
		project, err = o.store.GetProject(projectID)
		return err
	})
	return project, ok
}

// Create inserts a project and returns the server-generated id, or ("",
// false) on failure.
func (o *ProjectOps) Create(ctx context.Context, project db.Project) (string, bool) {
	if err := project.Validate(); err != nil {
		notify.Error(o.notifier, "Failed to create project", err.Error())
		return "", false
	}

	var created db.Project
	ok := o.run(ctx, "Failed to create project", func(ctx context.Context) error {
		var err error
		created, err = o.store.CreateProject(project)
		return err
	})
	if !ok {
		return "", false
	}
	return created.ID, true
}

func (o *ProjectOps) Update(ctx context.Context, project db.Project) bool {
	if err := project.Validate(); err != nil {
		notify.Error(o.notifier, "Failed to update project", err.Error())
		return false
	}

	return o.run(ctx, "Failed to update project", func(ctx context.Context) error {
		return o.store.UpdateProject(project)
	})
}

func (o *ProjectOps) Delete(ctx context.Context, projectID string) bool {
	return o.run(ctx, "Failed to delete project", func(ctx context.Context) error {
		return o.store.DeleteProject(projectID)
	})
}
