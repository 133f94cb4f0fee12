package sql

import (
	"github.com/taskcanvas/taskcanvas/db"
)

func (d *SqlDb) CreateNote(note db.Note) (newNote db.Note, err error) {
	newNote = note
	newNote.ID = newID()
	newNote.Created = now()
	newNote.Updated = newNote.Created

	_, err = d.exec(
		"insert into notes (id, project_id, title, content, created_by, created_at, updated_at) values (?, ?, ?, ?, ?, ?, ?)",
		newNote.ID,
		newNote.ProjectID,
		newNote.Title,
		[]byte(newNote.Content),
		newNote.CreatedBy,
		newNote.Created,
		newNote.Updated)
	return
}

func (d *SqlDb) GetNote(noteID string) (note db.Note, err error) {
	err = d.selectOne(&note, "select * from notes where id=?", noteID)
	return
}

func (d *SqlDb) GetProjectNotes(projectID string) (notes []db.Note, err error) {
	notes = make([]db.Note, 0)
	err = d.selectAll(&notes,
		"select * from notes where project_id=? order by updated_at desc",
		projectID)
	return
}

func (d *SqlDb) UpdateNote(note db.Note) error {
	res, err := d.exec(
		"update notes set title=?, content=?, updated_at=? where id=?",
		note.Title,
		[]byte(note.Content),
		now(),
		note.ID)
	if err != nil {
		return err
	}

	if affected, _ := res.RowsAffected(); affected == 0 {
		return db.ErrNotFound
	}
	return nil
}

func (d *SqlDb) DeleteNote(noteID string) error {
	res, err := d.exec("delete from notes where id=?", noteID)
	if err != nil {
		return err
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return db.ErrNotFound
	}
	return nil
}
