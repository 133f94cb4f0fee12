package ops

import (
	"context"

	"github.com/taskcanvas/taskcanvas/db"
	"github.com/taskcanvas/taskcanvas/pkg/notify"
)

type NoteOps struct {
	base
}

func NewNoteOps(store db.Store, notifier notify.Notifier) *NoteOps {
	o := &NoteOps{}
	o.init(store, notifier)
	return o
}

// FetchForProject returns the project's notes, newest-updated first, or an
// empty list when the fetch failed.
func (o *NoteOps) FetchForProject(ctx context.Context, projectID string) []db.Note {
	var notes []db.Note

	ok := o.run(ctx, "Failed to load notes", func(ctx context.Context) error {
		var err error
		notes, err = o.store.GetProjectNotes(projectID)
		return err
	})
	if !ok {
		return []db.Note{}
	}
	return notes
}

func (o *NoteOps) Create(ctx context.Context, note db.Note) (string, bool) {
	var created db.Note

	ok := o.run(ctx, "Failed to create note", func(ctx context.Context) error {
		var err error
		created, err = o.store.CreateNote(note)
		return err
	})
	if !ok {
		return "", false
	}
	return created.ID, true
}

func (o *NoteOps) Update(ctx context.Context, note db.Note) bool {
	return o.run(ctx, "Failed to update note", func(ctx context.Context) error {
		return o.store.UpdateNote(note)
	})
}

func (o *NoteOps) Delete(ctx context.Context, noteID string) bool {
	return o.run(ctx, "Failed to delete note", func(ctx context.Context) error {
		return o.store.DeleteNote(noteID)
	})
}
