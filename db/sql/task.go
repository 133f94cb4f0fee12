package sql

import (
	"github.com/taskcanvas/taskcanvas/db"
)

func (d *SqlDb) CreateTask(task db.Task) (newTask db.Task, err error) {
	if err = task.Validate(); err != nil {
		return
	}

	newTask = task
	newTask.ID = newID()
	newTask.Created = now()
	newTask.Updated = newTask.Created

	_, err = d.exec(
		`insert into tasks
			(id, project_id, parent_task_id, title, description, status, task_type,
			 priority, due_date, labels, estimated_time, actual_time, created_by, created_at, updated_at)
		 values (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		newTask.ID,
		newTask.ProjectID,
		newTask.ParentTaskID,
		newTask.Title,
		newTask.Description,
		newTask.Status,
		newTask.Type,
		newTask.Priority,
		newTask.DueDate,
		newTask.Labels,
		newTask.EstimatedTime,
		newTask.ActualTime,
		newTask.CreatedBy,
		newTask.Created,
		newTask.Updated)
	return
}

func (d *SqlDb) GetTask(taskID string) (task db.Task, err error) {
	err = d.selectOne(&task, "select * from tasks where id=?", taskID)
	return
}

func (d *SqlDb) GetProjectTasks(projectID string) (tasks []db.Task, err error) {
	tasks = make([]db.Task, 0)
	err = d.selectAll(&tasks,
		"select * from tasks where project_id=? order by updated_at desc",
		projectID)
	return
}

func (d *SqlDb) UpdateTask(task db.Task) error {
	if err := task.Validate(); err != nil {
		return err
	}

	res, err := d.exec(
		`update tasks set
			title=?, description=?, status=?, parent_task_id=?, priority=?,
			due_date=?, labels=?, estimated_time=?, actual_time=?, updated_at=?
		 where id=?`,
		task.Title,
		task.Description,
		task.Status,
		task.ParentTaskID,
		task.Priority,
		task.DueDate,
		task.Labels,
		task.EstimatedTime,
		task.ActualTime,
		now(),
		task.ID)
	if err != nil {
		return err
	}

	if affected, _ := res.RowsAffected(); affected == 0 {
		return db.ErrNotFound
	}
	return nil
}

func (d *SqlDb) DeleteTask(taskID string) error {
	res, err := d.exec("delete from tasks where id=?", taskID)
	if err != nil {
		return err
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return db.ErrNotFound
	}
	return nil
}
