package bolt

import (
	"sort"

	bbolt "go.etcd.io/bbolt"

	"github.com/taskcanvas/taskcanvas/db"
)

func (d *BoltDb) CreateProject(project db.Project) (newProject db.Project, err error) {
	if err = project.Validate(); err != nil {
		return
	}

	newProject = project
	newProject.ID = newID()
	newProject.Created = now()
	newProject.Updated = newProject.Created

	err = d.putObject(bucketProjects, newProject.ID, newProject)
	return
}

func (d *BoltDb) GetProject(projectID string) (project db.Project, err error) {
	err = d.getObject(bucketProjects, projectID, &project)
	return
}

func (d *BoltDb) GetProjectsWithCounts(userID string) (projects []db.ProjectWithCounts, err error) {
	projects = make([]db.ProjectWithCounts, 0)

	err = d.db.View(func(tx *bbolt.Tx) error {
		if err := eachObject(tx, bucketProjects, func(p db.Project) error {
			if p.UserID == userID {
				projects = append(projects, db.ProjectWithCounts{Project: p})
			}
			return nil
		}); err != nil {
			return err
		}
		return d.fillCounts(tx, projects)
	})
	if err != nil {
		return
	}

	sort.Slice(projects, func(i, j int) bool {
		return projects[i].Updated.After(projects[j].Updated)
	})
	return
}

func (d *BoltDb) GetProjectsByIDs(projectIDs []string) (projects []db.ProjectWithCounts, err error) {
	projects = make([]db.ProjectWithCounts, 0)

	err = d.db.View(func(tx *bbolt.Tx) error {
		for _, id := range projectIDs {
			var project db.Project
			data := tx.Bucket(bucketProjects).Get([]byte(id))
			if data == nil {
				continue
			}
			if err := decode(data, &project); err != nil {
				return err
			}
			projects = append(projects, db.ProjectWithCounts{Project: project})
		}
		return d.fillCounts(tx, projects)
	})
	return
}

func (d *BoltDb) fillCounts(tx *bbolt.Tx, projects []db.ProjectWithCounts) error {
	noteCounts := make(map[string]int)
	taskCounts := make(map[string]int)

	if err := eachObject(tx, bucketNotes, func(n db.Note) error {
		noteCounts[n.ProjectID]++
		return nil
	}); err != nil {
		return err
	}
	if err := eachObject(tx, bucketTasks, func(t db.Task) error {
		taskCounts[t.ProjectID]++
		return nil
	}); err != nil {
		return err
	}

	for i := range projects {
		projects[i].NoteCount = noteCounts[projects[i].ID]
		projects[i].TaskCount = taskCounts[projects[i].ID]
	}
	return nil
}

func (d *BoltDb) UpdateProject(project db.Project) error {
	if err := project.Validate(); err != nil {
		return err
	}

	stored, err := d.GetProject(project.ID)
	if err != nil {
		return err
	}

	stored.Title = project.Title
	stored.Description = project.Description
	stored.Updated = now()
	return d.putObject(bucketProjects, stored.ID, stored)
}

// DeleteProject cascades to the project's notes, tasks and messages.
// Sharing records are kept: the shared-projects aggregator renders them as
// placeholder entries until the invited user leaves the share.
func (d *BoltDb) DeleteProject(projectID string) error {
	return d.db.Update(func(tx *bbolt.Tx) error {
		projects := tx.Bucket(bucketProjects)
		if projects.Get([]byte(projectID)) == nil {
			return db.ErrNotFound
		}

		if err := deleteWhere(tx, bucketNotes, func(n db.Note) (string, bool) {
			return n.ID, n.ProjectID == projectID
		}); err != nil {
			return err
		}
		if err := deleteWhere(tx, bucketTasks, func(t db.Task) (string, bool) {
			return t.ID, t.ProjectID == projectID
		}); err != nil {
			return err
		}
		if err := deleteWhere(tx, bucketMessages, func(m db.ChatMessage) (string, bool) {
			return m.ID, m.ProjectID == projectID
		}); err != nil {
			return err
		}

		return projects.Delete([]byte(projectID))
	})
}

// deleteWhere removes every object in bucket for which match returns true.
func deleteWhere[T any](tx *bbolt.Tx, bucket []byte, match func(obj T) (id string, ok bool)) error {
	var ids []string
	if err := eachObject(tx, bucket, func(obj T) error {
		if id, ok := match(obj); ok {
			ids = append(ids, id)
		}
		return nil
	}); err != nil {
		return err
	}

	b := tx.Bucket(bucket)
	for _, id := range ids {
		if err := b.Delete([]byte(id)); err != nil {
			return err
		}
	}
	return nil
}
