package projects

import (
	"encoding/json"
	"net/http"

	"github.com/taskcanvas/taskcanvas/api/helpers"
	"github.com/taskcanvas/taskcanvas/db"
)

// GetNotes returns the project's notes, newest-updated first.
func GetNotes(w http.ResponseWriter, r *http.Request) {
	project := helpers.GetFromContext(r, "project").(db.Project)

	notes, err := helpers.Store(r).GetProjectNotes(project.ID)
	if err != nil {
		helpers.WriteError(w, err)
		return
	}

	helpers.WriteJSON(w, http.StatusOK, notes)
}

// AddNote creates a note in the project.
func AddNote(w http.ResponseWriter, r *http.Request) {
	project := helpers.GetFromContext(r, "project").(db.Project)
	user := helpers.UserFromContext(r)

	var request struct {
		Title   *string         `json:"title"`
		Content json.RawMessage `json:"content"`
	}
	if !helpers.Bind(w, r, &request) {
		return
	}

	note, err := helpers.Store(r).CreateNote(db.Note{
		ProjectID: project.ID,
		Title:     request.Title,
		Content:   request.Content,
		CreatedBy: user.ID,
	})
	if err != nil {
		helpers.WriteError(w, err)
		return
	}

	helpers.WriteJSON(w, http.StatusCreated, note)
}

// UpdateNote replaces a note's title and content.
func UpdateNote(w http.ResponseWriter, r *http.Request) {
	project := helpers.GetFromContext(r, "project").(db.Project)

	noteID, err := helpers.GetStrParam("note_id", w, r)
	if err != nil {
		return
	}

	note, err := helpers.Store(r).GetNote(noteID)
	if err != nil || note.ProjectID != project.ID {
		helpers.WriteErrorStatus(w, "not found", http.StatusNotFound)
		return
	}

	var request struct {
		Title   *string         `json:"title"`
		Content json.RawMessage `json:"content"`
	}
	if !helpers.Bind(w, r, &request) {
		return
	}

	note.Title = request.Title
	note.Content = request.Content
	if err := helpers.Store(r).UpdateNote(note); err != nil {
		helpers.WriteError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// DeleteNote removes a note from the project.
func DeleteNote(w http.ResponseWriter, r *http.Request) {
	project := helpers.GetFromContext(r, "project").(db.Project)

	noteID, err := helpers.GetStrParam("note_id", w, r)
	if err != nil {
		return
	}

	note, err := helpers.Store(r).GetNote(noteID)
	if err != nil || note.ProjectID != project.ID {
		helpers.WriteErrorStatus(w, "not found", http.StatusNotFound)
		return
	}

	if err := helpers.Store(r).DeleteNote(noteID); err != nil {
		helpers.WriteError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
