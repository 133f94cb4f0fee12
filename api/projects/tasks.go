package projects

import (
	"net/http"

	"github.com/taskcanvas/taskcanvas/api/helpers"
	"github.com/taskcanvas/taskcanvas/db"
)

// GetTasks returns the project's tasks, newest-updated first.
func GetTasks(w http.ResponseWriter, r *http.Request) {
	project := helpers.GetFromContext(r, "project").(db.Project)

	tasks, err := helpers.Store(r).GetProjectTasks(project.ID)
	if err != nil {
		helpers.WriteError(w, err)
		return
	}

	helpers.WriteJSON(w, http.StatusOK, tasks)
}

// AddTask creates a task in the project.
func AddTask(w http.ResponseWriter, r *http.Request) {
	project := helpers.GetFromContext(r, "project").(db.Project)
	user := helpers.UserFromContext(r)

	var task db.Task
	if !helpers.Bind(w, r, &task) {
		return
	}

	task.ProjectID = project.ID
	task.CreatedBy = user.ID
	if task.Status == "" {
		task.Status = db.TaskStatusTodo
	}
	if task.Type == "" {
		task.Type = db.TaskTypeTask
	}

	created, err := helpers.Store(r).CreateTask(task)
	if err != nil {
		helpers.WriteError(w, err)
		return
	}

	helpers.WriteJSON(w, http.StatusCreated, created)
}

// UpdateTask applies a partial update to a task.
func UpdateTask(w http.ResponseWriter, r *http.Request) {
	project := helpers.GetFromContext(r, "project").(db.Project)

	taskID, err := helpers.GetStrParam("task_id", w, r)
	if err != nil {
		return
	}

	task, err := helpers.Store(r).GetTask(taskID)
	if err != nil || task.ProjectID != project.ID {
		helpers.WriteErrorStatus(w, "not found", http.StatusNotFound)
		return
	}

	var patch db.TaskPatch
	if !helpers.Bind(w, r, &patch) {
		return
	}

	updated := patch.Apply(task)
	if err := updated.Validate(); err != nil {
		helpers.WriteError(w, err)
		return
	}
	if err := helpers.Store(r).UpdateTask(updated); err != nil {
		helpers.WriteError(w, err)
		return
	}

	helpers.WriteJSON(w, http.StatusOK, updated)
}

// DeleteTask removes a task from the project.
func DeleteTask(w http.ResponseWriter, r *http.Request) {
	project := helpers.GetFromContext(r, "project").(db.Project)

	taskID, err := helpers.GetStrParam("task_id", w, r)
	if err != nil {
		return
	}

	task, err := helpers.Store(r).GetTask(taskID)
	if err != nil || task.ProjectID != project.ID {
		helpers.WriteErrorStatus(w, "not found", http.StatusNotFound)
		return
	}

	if err := helpers.Store(r).DeleteTask(taskID); err != nil {
		helpers.WriteError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
