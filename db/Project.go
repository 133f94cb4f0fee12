package db

import "time"

type Project struct {
	ID          string    `db:"id" json:"id"`
	Title       string    `db:"title" json:"title"`
	Description string    `db:"description" json:"description"`
	UserID      string    `db:"user_id" json:"user_id"`
	Created     time.Time `db:"created_at" json:"created_at"`
	Updated     time.Time `db:"updated_at" json:"updated_at"`
}

func (p *Project) Validate() error {
	if p.Title == "" {
		return &ValidationError{"title can not be empty"}
	}
	return nil
}

// ProjectWithCounts carries server-computed child counts alongside a project.
// The counts are refreshed on fetch and patched optimistically on local
// create/delete; they are display aggregates, not authoritative values.
type ProjectWithCounts struct {
	Project
	NoteCount int `db:"note_count" json:"note_count"`
	TaskCount int `db:"task_count" json:"task_count"`
}
