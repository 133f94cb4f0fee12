package sql

import (
	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"github.com/taskcanvas/taskcanvas/db"
)

func (d *SqlDb) CreateProject(project db.Project) (newProject db.Project, err error) {
	if err = project.Validate(); err != nil {
		return
	}

	newProject = project
	newProject.ID = newID()
	newProject.Created = now()
	newProject.Updated = newProject.Created

	_, err = d.exec(
		"insert into projects (id, title, description, user_id, created_at, updated_at) values (?, ?, ?, ?, ?, ?)",
		newProject.ID,
		newProject.Title,
		newProject.Description,
		newProject.UserID,
		newProject.Created,
		newProject.Updated)
	return
}

func (d *SqlDb) GetProject(projectID string) (project db.Project, err error) {
	err = d.selectOne(&project, "select * from projects where id=?", projectID)
	return
}

func (d *SqlDb) GetProjectsWithCounts(userID string) (projects []db.ProjectWithCounts, err error) {
	projects = make([]db.ProjectWithCounts, 0)

	q := squirrel.Select("p.*").
		Column("(select count(*) from notes n where n.project_id = p.id) as note_count").
		Column("(select count(*) from tasks t where t.project_id = p.id) as task_count").
		From("projects as p").
		Where("p.user_id=?", userID).
		OrderBy("p.updated_at DESC").
		PlaceholderFormat(d.placeholderFormat())

	query, args, err := q.ToSql()
	if err != nil {
		return
	}

	err = translateError(d.sql.Select(&projects, query, args...))
	return
}

func (d *SqlDb) GetProjectsByIDs(projectIDs []string) (projects []db.ProjectWithCounts, err error) {
	projects = make([]db.ProjectWithCounts, 0)
	if len(projectIDs) == 0 {
		return
	}

	query, args, err := sqlx.In(`
		select p.*,
			(select count(*) from notes n where n.project_id = p.id) as note_count,
			(select count(*) from tasks t where t.project_id = p.id) as task_count
		from projects p where p.id in (?)`, projectIDs)
	if err != nil {
		return
	}

	err = translateError(d.sql.Select(&projects, d.prepare(query), args...))
	return
}

func (d *SqlDb) UpdateProject(project db.Project) error {
	if err := project.Validate(); err != nil {
		return err
	}

	res, err := d.exec(
		"update projects set title=?, description=?, updated_at=? where id=?",
		project.Title,
		project.Description,
		now(),
		project.ID)
	if err != nil {
		return err
	}

	if affected, _ := res.RowsAffected(); affected == 0 {
		return db.ErrNotFound
	}
	return nil
}

// DeleteProject cascades to the project's notes, tasks and messages.
// Sharing records are kept: the shared-projects aggregator renders them as
// placeholder entries until the invited user leaves the share.
func (d *SqlDb) DeleteProject(projectID string) error {
	tx, err := d.sql.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck

	for _, stmt := range []string{
		"delete from notes where project_id=?",
		"delete from tasks where project_id=?",
		"delete from chat_messages where project_id=?",
	} {
		if _, err = tx.Exec(d.prepare(stmt), projectID); err != nil {
			return translateError(err)
		}
	}

	res, err := tx.Exec(d.prepare("delete from projects where id=?"), projectID)
	if err != nil {
		return translateError(err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return db.ErrNotFound
	}

	return tx.Commit()
}
