package sql

import (
	"github.com/taskcanvas/taskcanvas/db"
)

func (d *SqlDb) CreateChatMessage(message db.ChatMessage) (newMessage db.ChatMessage, err error) {
	if err = message.Validate(); err != nil {
		return
	}

	newMessage = message
	newMessage.ID = newID()
	newMessage.Created = now()

	_, err = d.exec(
		"insert into chat_messages (id, project_id, content, created_by, created_at) values (?, ?, ?, ?, ?)",
		newMessage.ID,
		newMessage.ProjectID,
		newMessage.Content,
		newMessage.CreatedBy,
		newMessage.Created)
	return
}

// GetProjectMessages returns messages in chronological order, oldest first.
func (d *SqlDb) GetProjectMessages(projectID string) (messages []db.ChatMessage, err error) {
	messages = make([]db.ChatMessage, 0)
	err = d.selectAll(&messages,
		"select * from chat_messages where project_id=? order by created_at asc",
		projectID)
	return
}
