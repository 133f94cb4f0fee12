package db

import (
	"testing"
	"time"
)

func TestTaskStatus_IsValid(t *testing.T) {
	tests := []struct {
		status TaskStatus
		valid  bool
	}{
		{TaskStatusTodo, true},
		{TaskStatusInProgress, true},
		{TaskStatusCompleted, true},
		{TaskStatus("done"), false},
		{TaskStatus(""), false},
	}

	for _, test := range tests {
		if test.status.IsValid() != test.valid {
			t.Errorf("Status %q: expected valid=%v, got %v", test.status, test.valid, test.status.IsValid())
		}
	}
}

func TestTask_Validate(t *testing.T) {
	task := Task{
		ID:        "t1",
		ProjectID: "p1",
		Title:     "Write report",
		Status:    TaskStatusTodo,
		Type:      TaskTypeTask,
		CreatedBy: "u1",
	}

	if err := task.Validate(); err != nil {
		t.Errorf("Expected valid task, got error: %v", err)
	}

	task.Title = ""
	if err := task.Validate(); err == nil {
		t.Error("Expected validation error for empty title")
	}

	task.Title = "Write report"
	task.Status = TaskStatus("archived")
	if err := task.Validate(); err == nil {
		t.Error("Expected validation error for invalid status")
	}

	task.Status = TaskStatusTodo
	badPriority := TaskPriority("critical")
	task.Priority = &badPriority
	if err := task.Validate(); err == nil {
		t.Error("Expected validation error for invalid priority")
	}
}

func TestTaskPatch_Apply(t *testing.T) {
	created := time.Now().Add(-time.Hour)
	task := Task{
		ID:          "t1",
		ProjectID:   "p1",
		Title:       "Original",
		Description: "Original description",
		Status:      TaskStatusTodo,
		Type:        TaskTypeTask,
		CreatedBy:   "u1",
		Created:     created,
	}

	newTitle := "Renamed"
	newStatus := TaskStatusInProgress
	due := time.Now().Add(48 * time.Hour)
	labels := TaskLabels{"backend", "urgent"}

	patched := TaskPatch{
		Title:   &newTitle,
		Status:  &newStatus,
		DueDate: &due,
		Labels:  &labels,
	}.Apply(task)

	if patched.Title != "Renamed" {
		t.Errorf("Expected patched title 'Renamed', got %q", patched.Title)
	}
	if patched.Status != TaskStatusInProgress {
		t.Errorf("Expected patched status 'in-progress', got %s", patched.Status)
	}
	if patched.Description != "Original description" {
		t.Error("Unpatched fields should keep their values")
	}
	if patched.DueDate == nil || !patched.DueDate.Equal(due) {
		t.Error("Expected due date to be patched")
	}
	if len(patched.Labels) != 2 {
		t.Errorf("Expected 2 labels, got %d", len(patched.Labels))
	}
	if patched.ID != "t1" || patched.CreatedBy != "u1" || !patched.Created.Equal(created) {
		t.Error("Identity fields must never change")
	}
}
