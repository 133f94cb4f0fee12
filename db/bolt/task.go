package bolt

import (
	"sort"

	bbolt "go.etcd.io/bbolt"

	"github.com/taskcanvas/taskcanvas/db"
)

func (d *BoltDb) CreateTask(task db.Task) (newTask db.Task, err error) {
	if err = task.Validate(); err != nil {
		return
	}

	newTask = task
	newTask.ID = newID()
	newTask.Created = now()
	newTask.Updated = newTask.Created

	err = d.putObject(bucketTasks, newTask.ID, newTask)
	return
}

func (d *BoltDb) GetTask(taskID string) (task db.Task, err error) {
	err = d.getObject(bucketTasks, taskID, &task)
	return
}

func (d *BoltDb) GetProjectTasks(projectID string) (tasks []db.Task, err error) {
	tasks = make([]db.Task, 0)

	err = d.db.View(func(tx *bbolt.Tx) error {
		return eachObject(tx, bucketTasks, func(t db.Task) error {
			if t.ProjectID == projectID {
				tasks = append(tasks, t)
			}
			return nil
		})
	})
	if err != nil {
		return
	}

	sort.Slice(tasks, func(i, j int) bool {
		return tasks[i].Updated.After(tasks[j].Updated)
	})
	return
}

func (d *BoltDb) UpdateTask(task db.Task) error {
	if err := task.Validate(); err != nil {
		return err
	}

	stored, err := d.GetTask(task.ID)
	if err != nil {
		return err
	}

	task.CreatedBy = stored.CreatedBy
	task.Created = stored.Created
	task.ProjectID = stored.ProjectID
	task.Updated = now()
	return d.putObject(bucketTasks, task.ID, task)
}

func (d *BoltDb) DeleteTask(taskID string) error {
	return d.deleteObject(bucketTasks, taskID)
}
