package db

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "todo"
	TaskStatusInProgress TaskStatus = "in-progress"
	TaskStatusCompleted  TaskStatus = "completed"
)

func (s TaskStatus) IsValid() bool {
	switch s {
	case TaskStatusTodo, TaskStatusInProgress, TaskStatusCompleted:
		return true
	default:
		return false
	}
}

type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
	TaskPriorityUrgent TaskPriority = "urgent"
)

func (p TaskPriority) IsValid() bool {
	switch p {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh, TaskPriorityUrgent:
		return true
	default:
		return false
	}
}

type TaskType string

const (
	TaskTypeTask TaskType = "task"
	TaskTypeNote TaskType = "note"
)

func (t TaskType) IsValid() bool {
	return t == TaskTypeTask || t == TaskTypeNote
}

// TaskLabels is stored as a JSON array column.
type TaskLabels []string

func (l TaskLabels) Value() (driver.Value, error) {
	if l == nil {
		return nil, nil
	}
	return json.Marshal(l)
}

func (l *TaskLabels) Scan(src interface{}) error {
	if src == nil {
		*l = nil
		return nil
	}
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return fmt.Errorf("unsupported type for TaskLabels: %T", src)
	}
}

type Task struct {
	ID            string        `db:"id" json:"id"`
	ProjectID     string        `db:"project_id" json:"project_id"`
	ParentTaskID  *string       `db:"parent_task_id" json:"parent_task_id,omitempty"`
	Title         string        `db:"title" json:"title"`
	Description   string        `db:"description" json:"description"`
	Status        TaskStatus    `db:"status" json:"status"`
	Type          TaskType      `db:"task_type" json:"task_type"`
	Priority      *TaskPriority `db:"priority" json:"priority,omitempty"`
	DueDate       *time.Time    `db:"due_date" json:"due_date,omitempty"`
	Labels        TaskLabels    `db:"labels" json:"labels,omitempty"`
	EstimatedTime *int          `db:"estimated_time" json:"estimated_time,omitempty"`
	ActualTime    *int          `db:"actual_time" json:"actual_time,omitempty"`
	CreatedBy     string        `db:"created_by" json:"created_by"`
	Created       time.Time     `db:"created_at" json:"created_at"`
	Updated       time.Time     `db:"updated_at" json:"updated_at"`
}

func (t *Task) Validate() error {
	if t.Title == "" {
		return &ValidationError{"title can not be empty"}
	}
	if !t.Status.IsValid() {
		return &ValidationError{"invalid task status"}
	}
	if !t.Type.IsValid() {
		return &ValidationError{"invalid task type"}
	}
	if t.Priority != nil && !t.Priority.IsValid() {
		return &ValidationError{"invalid task priority"}
	}
	return nil
}

// TaskPatch is a partial update: nil fields keep their stored values.
// ID, CreatedBy and Created are never patchable.
type TaskPatch struct {
	Title         *string       `json:"title,omitempty"`
	Description   *string       `json:"description,omitempty"`
	Status        *TaskStatus   `json:"status,omitempty"`
	ParentTaskID  *string       `json:"parent_task_id,omitempty"`
	Priority      *TaskPriority `json:"priority,omitempty"`
	DueDate       *time.Time    `json:"due_date,omitempty"`
	Labels        *TaskLabels   `json:"labels,omitempty"`
	EstimatedTime *int          `json:"estimated_time,omitempty"`
	ActualTime    *int          `json:"actual_time,omitempty"`
}

// Apply merges the patch into task and returns it.
func (p TaskPatch) Apply(task Task) Task {
	if p.Title != nil {
		task.Title = *p.Title
	}
	if p.Description != nil {
		task.Description = *p.Description
	}
	if p.Status != nil {
		task.Status = *p.Status
	}
	if p.ParentTaskID != nil {
		task.ParentTaskID = p.ParentTaskID
	}
	if p.Priority != nil {
		task.Priority = p.Priority
	}
	if p.DueDate != nil {
		task.DueDate = p.DueDate
	}
	if p.Labels != nil {
		task.Labels = *p.Labels
	}
	if p.EstimatedTime != nil {
		task.EstimatedTime = p.EstimatedTime
	}
	if p.ActualTime != nil {
		task.ActualTime = p.ActualTime
	}
	return task
}
