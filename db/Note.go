package db

import (
	"encoding/json"
	"time"
)

// Note content is an opaque rich-text blob; this core never inspects it.
type Note struct {
	ID        string          `db:"id" json:"id"`
	ProjectID string          `db:"project_id" json:"project_id"`
	Title     *string         `db:"title" json:"title,omitempty"`
	Content   json.RawMessage `db:"content" json:"content"`
	CreatedBy string          `db:"created_by" json:"created_by"`
	Created   time.Time       `db:"created_at" json:"created_at"`
	Updated   time.Time       `db:"updated_at" json:"updated_at"`
}
