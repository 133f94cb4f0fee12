package db

import "time"

// ChatMessage is append-only: there is no edit or delete operation.
type ChatMessage struct {
	ID        string    `db:"id" json:"id"`
	ProjectID string    `db:"project_id" json:"project_id"`
	Content   string    `db:"content" json:"content"`
	CreatedBy string    `db:"created_by" json:"created_by"`
	Created   time.Time `db:"created_at" json:"created_at"`
}

func (m *ChatMessage) Validate() error {
	if m.Content == "" {
		return &ValidationError{"message content can not be empty"}
	}
	return nil
}
