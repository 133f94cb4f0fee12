package bolt

import (
	"sort"

	bbolt "go.etcd.io/bbolt"

	"github.com/taskcanvas/taskcanvas/db"
)

func (d *BoltDb) CreateChatMessage(message db.ChatMessage) (newMessage db.ChatMessage, err error) {
	if err = message.Validate(); err != nil {
		return
	}

	newMessage = message
	newMessage.ID = newID()
	newMessage.Created = now()

	err = d.putObject(bucketMessages, newMessage.ID, newMessage)
	return
}

// GetProjectMessages returns messages in chronological order, oldest first.
func (d *BoltDb) GetProjectMessages(projectID string) (messages []db.ChatMessage, err error) {
	messages = make([]db.ChatMessage, 0)

	err = d.db.View(func(tx *bbolt.Tx) error {
		return eachObject(tx, bucketMessages, func(m db.ChatMessage) error {
			if m.ProjectID == projectID {
				messages = append(messages, m)
			}
			return nil
		})
	})
	if err != nil {
		return
	}

	sort.Slice(messages, func(i, j int) bool {
		return messages[i].Created.Before(messages[j].Created)
	})
	return
}
