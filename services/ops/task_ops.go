package ops

import (
	"context"

	"github.com/taskcanvas/taskcanvas/db"
	"github.com/taskcanvas/taskcanvas/pkg/notify"
)

type TaskOps struct {
	base
}

func NewTaskOps(store db.Store, notifier notify.Notifier) *TaskOps {
	o := &TaskOps{}
	o.init(store, notifier)
	return o
}

// FetchForProject returns the project's tasks, newest-updated first, or an
// empty list when the fetch failed.
func (o *TaskOps) FetchForProject(ctx context.Context, projectID string) []db.Task {
	var tasks []db.Task

	ok := o.run(ctx, "Failed to load tasks", func(ctx context.Context) error {
		var err error
		tasks, err = o.store.GetProjectTasks(projectID)
		return err
	})
	if !ok {
		return []db.Task{}
	}
	return tasks
}

func (o *TaskOps) Create(ctx context.Context, task db.Task) (string, bool) {
	if err := task.Validate(); err != nil {
		notify.Error(o.notifier, "Failed to create task", err.Error())
		return "", false
	}

	var created db.Task
	ok := o.run(ctx, "Failed to create task", func(ctx context.Context) error {
		var err error
		created, err = o.store.CreateTask(task)
		return err
	})
	if !ok {
		return "", false
	}
	return created.ID, true
}

// Patch applies a partial update to an existing task. The task is re-read
// so the patch merges onto current server state.
func (o *TaskOps) Patch(ctx context.Context, taskID string, patch db.TaskPatch) bool {
	return o.run(ctx, "Failed to update task", func(ctx context.Context) error {
		task, err := o.store.GetTask(taskID)
		if err != nil {
			return err
		}
		updated := patch.Apply(task)
		if err := updated.Validate(); err != nil {
			return err
		}
		return o.store.UpdateTask(updated)
	})
}

func (o *TaskOps) Update(ctx context.Context, task db.Task) bool {
	if err := task.Validate(); err != nil {
		notify.Error(o.notifier, "Failed to update task", err.Error())
		return false
	}

	return o.run(ctx, "Failed to update task", func(ctx context.Context) error {
		return o.store.UpdateTask(task)
	})
}

func (o *TaskOps) Delete(ctx context.Context, taskID string) bool {
	return o.run(ctx, "Failed to delete task", func(ctx context.Context) error {
		return o.store.DeleteTask(taskID)
	})
}
