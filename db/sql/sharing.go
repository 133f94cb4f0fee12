package sql

import (
	"github.com/Masterminds/squirrel"

	"github.com/taskcanvas/taskcanvas/db"
)

func (d *SqlDb) CreateProjectSharing(sharing db.ProjectSharing) (newSharing db.ProjectSharing, err error) {
	newSharing = sharing
	newSharing.ID = newID()
	newSharing.Created = now()
	newSharing.Updated = newSharing.Created

	// the unique index on (project_id, shared_with_id) turns a concurrent
	// duplicate into db.ErrConflict, which the sharing service retries as
	// an update
	_, err = d.exec(
		`insert into project_sharing
			(id, project_id, owner_id, shared_with_id, permission_level, invitation_status, created_at, updated_at)
		 values (?, ?, ?, ?, ?, ?, ?, ?)`,
		newSharing.ID,
		newSharing.ProjectID,
		newSharing.OwnerID,
		newSharing.SharedWithID,
		newSharing.PermissionLevel,
		newSharing.Status,
		newSharing.Created,
		newSharing.Updated)
	return
}

func (d *SqlDb) GetProjectSharing(sharingID string) (sharing db.ProjectSharing, err error) {
	err = d.selectOne(&sharing, "select * from project_sharing where id=?", sharingID)
	return
}

func (d *SqlDb) GetProjectSharings(projectID string) (sharings []db.ProjectSharingWithEmail, err error) {
	sharings = make([]db.ProjectSharingWithEmail, 0)

	q := squirrel.Select("ps.*").
		Column("coalesce(u.email, '') as user_email").
		From("project_sharing as ps").
		LeftJoin("users as u on ps.shared_with_id=u.id").
		Where("ps.project_id=?", projectID).
		OrderBy("ps.created_at DESC").
		PlaceholderFormat(d.placeholderFormat())

	query, args, err := q.ToSql()
	if err != nil {
		return
	}

	err = translateError(d.sql.Select(&sharings, query, args...))
	return
}

func (d *SqlDb) GetSharingsForUser(userID string, status db.InvitationStatus) (sharings []db.ProjectSharing, err error) {
	sharings = make([]db.ProjectSharing, 0)
	err = d.selectAll(&sharings,
		"select * from project_sharing where shared_with_id=? and invitation_status=? order by created_at desc",
		userID,
		status)
	return
}

func (d *SqlDb) UpdateProjectSharing(sharing db.ProjectSharing) error {
	res, err := d.exec(
		"update project_sharing set permission_level=?, invitation_status=?, updated_at=? where id=?",
		sharing.PermissionLevel,
		sharing.Status,
		now(),
		sharing.ID)
	if err != nil {
		return err
	}

	if affected, _ := res.RowsAffected(); affected == 0 {
		return db.ErrNotFound
	}
	return nil
}

func (d *SqlDb) DeleteProjectSharing(sharingID string) error {
	res, err := d.exec("delete from project_sharing where id=?", sharingID)
	if err != nil {
		return err
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return db.ErrNotFound
	}
	return nil
}
