package ops

import (
	"context"

	"github.com/taskcanvas/taskcanvas/db"
	"github.com/taskcanvas/taskcanvas/pkg/notify"
)

type ChatOps struct {
	base
}

func NewChatOps(store db.Store, notifier notify.Notifier) *ChatOps {
	o := &ChatOps{}
	o.init(store, notifier)
	return o
}

// FetchForProject returns the project's messages in chronological order, or
// an empty list when the fetch failed.
func (o *ChatOps) FetchForProject(ctx context.Context, projectID string) []db.ChatMessage {
	var messages []db.ChatMessage

	ok := o.run(ctx, "Failed to load messages", func(ctx context.Context) error {
		var err error
		messages, err = o.store.GetProjectMessages(projectID)
		return err
	})
	if !ok {
		return []db.ChatMessage{}
	}
	return messages
}

// Send appends a message. Messages are append-only; there is no update or
// delete.
func (o *ChatOps) Send(ctx context.Context, message db.ChatMessage) (string, bool) {
	if err := message.Validate(); err != nil {
		notify.Error(o.notifier, "Failed to send message", err.Error())
		return "", false
	}

	var created db.ChatMessage
	ok := o.run(ctx, "Failed to send message", func(ctx context.Context) error {
		var err error
		created, err = o.store.CreateChatMessage(message)
		return err
	})
	if !ok {
		return "", false
	}
	return created.ID, true
}
