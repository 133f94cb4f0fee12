package bolt

import (
	"sort"

	bbolt "go.etcd.io/bbolt"

	"github.com/taskcanvas/taskcanvas/db"
)

func (d *BoltDb) CreateNote(note db.Note) (newNote db.Note, err error) {
	newNote = note
	newNote.ID = newID()
	newNote.Created = now()
	newNote.Updated = newNote.Created

	err = d.putObject(bucketNotes, newNote.ID, newNote)
	return
}

func (d *BoltDb) GetNote(noteID string) (note db.Note, err error) {
	err = d.getObject(bucketNotes, noteID, &note)
	return
}

func (d *BoltDb) GetProjectNotes(projectID string) (notes []db.Note, err error) {
	notes = make([]db.Note, 0)

	err = d.db.View(func(tx *bbolt.Tx) error {
		return eachObject(tx, bucketNotes, func(n db.Note) error {
			if n.ProjectID == projectID {
				notes = append(notes, n)
			}
			return nil
		})
	})
	if err != nil {
		return
	}

	sort.Slice(notes, func(i, j int) bool {
		return notes[i].Updated.After(notes[j].Updated)
	})
	return
}

func (d *BoltDb) UpdateNote(note db.Note) error {
	stored, err := d.GetNote(note.ID)
	if err != nil {
		return err
	}

	stored.Title = note.Title
	stored.Content = note.Content
	stored.Updated = now()
	return d.putObject(bucketNotes, stored.ID, stored)
}

func (d *BoltDb) DeleteNote(noteID string) error {
	return d.deleteObject(bucketNotes, noteID)
}
