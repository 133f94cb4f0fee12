package bolt

import (
	"encoding/json"
	"fmt"
	"strings"

	bbolt "go.etcd.io/bbolt"

	"github.com/taskcanvas/taskcanvas/db"
)

func (d *BoltDb) CreateUser(user db.User) (newUser db.User, err error) {
	newUser = user
	newUser.ID = newID()
	newUser.Email = strings.ToLower(strings.TrimSpace(user.Email))
	newUser.Created = now()

	data, err := json.Marshal(newUser)
	if err != nil {
		return
	}

	err = d.db.Update(func(tx *bbolt.Tx) error {
		emails := tx.Bucket(bucketUsersByEmail)
		if emails.Get([]byte(newUser.Email)) != nil {
			return fmt.Errorf("%w: email already registered", db.ErrConflict)
		}
		if err := emails.Put([]byte(newUser.Email), []byte(newUser.ID)); err != nil {
			return err
		}
		return tx.Bucket(bucketUsers).Put([]byte(newUser.ID), data)
	})
	return
}

func (d *BoltDb) GetUser(userID string) (user db.User, err error) {
	err = d.getObject(bucketUsers, userID, &user)
	return
}

func (d *BoltDb) GetUserByEmail(email string) (user db.User, err error) {
	email = strings.ToLower(strings.TrimSpace(email))

	err = d.db.View(func(tx *bbolt.Tx) error {
		id := tx.Bucket(bucketUsersByEmail).Get([]byte(email))
		if id == nil {
			return db.ErrNotFound
		}
		data := tx.Bucket(bucketUsers).Get(id)
		if data == nil {
			return db.ErrNotFound
		}
		return json.Unmarshal(data, &user)
	})
	return
}
