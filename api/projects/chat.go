package projects

import (
	"net/http"

	"github.com/taskcanvas/taskcanvas/api/helpers"
	"github.com/taskcanvas/taskcanvas/db"
)

// GetMessages returns the project's chat in chronological order.
func GetMessages(w http.ResponseWriter, r *http.Request) {
	project := helpers.GetFromContext(r, "project").(db.Project)

	messages, err := helpers.Store(r).GetProjectMessages(project.ID)
	if err != nil {
		helpers.WriteError(w, err)
		return
	}

	helpers.WriteJSON(w, http.StatusOK, messages)
}

// AddMessage appends a chat message. Any user with read access may post.
func AddMessage(w http.ResponseWriter, r *http.Request) {
	project := helpers.GetFromContext(r, "project").(db.Project)
	user := helpers.UserFromContext(r)

	var request struct {
		Content string `json:"content"`
	}
	if !helpers.Bind(w, r, &request) {
		return
	}

	message, err := helpers.Store(r).CreateChatMessage(db.ChatMessage{
		ProjectID: project.ID,
		Content:   request.Content,
		CreatedBy: user.ID,
	})
	if err != nil {
		helpers.WriteError(w, err)
		return
	}

	helpers.WriteJSON(w, http.StatusCreated, message)
}
