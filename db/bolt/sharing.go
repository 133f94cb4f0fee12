package bolt

import (
	"encoding/json"
	"fmt"
	"sort"

	bbolt "go.etcd.io/bbolt"

	"github.com/taskcanvas/taskcanvas/db"
)

func sharingIndexKey(projectID, sharedWithID string) []byte {
	return []byte(projectID + "/" + sharedWithID)
}

func (d *BoltDb) CreateProjectSharing(sharing db.ProjectSharing) (newSharing db.ProjectSharing, err error) {
	newSharing = sharing
	newSharing.ID = newID()
	newSharing.Created = now()
	newSharing.Updated = newSharing.Created

	data, err := json.Marshal(newSharing)
	if err != nil {
		return
	}

	err = d.db.Update(func(tx *bbolt.Tx) error {
		index := tx.Bucket(bucketSharingIndex)
		key := sharingIndexKey(newSharing.ProjectID, newSharing.SharedWithID)
		if index.Get(key) != nil {
			return fmt.Errorf("%w: project already shared with user", db.ErrConflict)
		}
		if err := index.Put(key, []byte(newSharing.ID)); err != nil {
			return err
		}
		return tx.Bucket(bucketSharings).Put([]byte(newSharing.ID), data)
	})
	return
}

func (d *BoltDb) GetProjectSharing(sharingID string) (sharing db.ProjectSharing, err error) {
	err = d.getObject(bucketSharings, sharingID, &sharing)
	return
}

func (d *BoltDb) GetProjectSharings(projectID string) (sharings []db.ProjectSharingWithEmail, err error) {
	sharings = make([]db.ProjectSharingWithEmail, 0)

	err = d.db.View(func(tx *bbolt.Tx) error {
		users := tx.Bucket(bucketUsers)
		return eachObject(tx, bucketSharings, func(s db.ProjectSharing) error {
			if s.ProjectID != projectID {
				return nil
			}
			entry := db.ProjectSharingWithEmail{ProjectSharing: s}
			if data := users.Get([]byte(s.SharedWithID)); data != nil {
				var user db.User
				if err := decode(data, &user); err == nil {
					entry.UserEmail = user.Email
				}
			}
			sharings = append(sharings, entry)
			return nil
		})
	})
	if err != nil {
		return
	}

	sort.Slice(sharings, func(i, j int) bool {
		return sharings[i].Created.After(sharings[j].Created)
	})
	return
}

func (d *BoltDb) GetSharingsForUser(userID string, status db.InvitationStatus) (sharings []db.ProjectSharing, err error) {
	sharings = make([]db.ProjectSharing, 0)

	err = d.db.View(func(tx *bbolt.Tx) error {
		return eachObject(tx, bucketSharings, func(s db.ProjectSharing) error {
			if s.SharedWithID == userID && s.Status == status {
				sharings = append(sharings, s)
			}
			return nil
		})
	})
	if err != nil {
		return
	}

	sort.Slice(sharings, func(i, j int) bool {
		return sharings[i].Created.After(sharings[j].Created)
	})
	return
}

func (d *BoltDb) UpdateProjectSharing(sharing db.ProjectSharing) error {
	stored, err := d.GetProjectSharing(sharing.ID)
	if err != nil {
		return err
	}

	stored.PermissionLevel = sharing.PermissionLevel
	stored.Status = sharing.Status
	stored.Updated = now()
	return d.putObject(bucketSharings, stored.ID, stored)
}

func (d *BoltDb) DeleteProjectSharing(sharingID string) error {
	return d.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketSharings)
		data := b.Get([]byte(sharingID))
		if data == nil {
			return db.ErrNotFound
		}

		var sharing db.ProjectSharing
		if err := decode(data, &sharing); err != nil {
			return err
		}

		if err := tx.Bucket(bucketSharingIndex).Delete(sharingIndexKey(sharing.ProjectID, sharing.SharedWithID)); err != nil {
			return err
		}
		return b.Delete([]byte(sharingID))
	})
}
