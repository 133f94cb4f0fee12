package sql

import (
	"strings"

	"github.com/taskcanvas/taskcanvas/db"
)

func (d *SqlDb) CreateUser(user db.User) (newUser db.User, err error) {
	newUser = user
	newUser.ID = newID()
	newUser.Email = strings.ToLower(strings.TrimSpace(user.Email))
	newUser.Created = now()

	_, err = d.exec(
		"insert into users (id, email, name, password_hash, created_at) values (?, ?, ?, ?, ?)",
		newUser.ID,
		newUser.Email,
		newUser.Name,
		newUser.PasswordHash,
		newUser.Created)
	return
}

func (d *SqlDb) GetUser(userID string) (user db.User, err error) {
	err = d.selectOne(&user, "select * from users where id=?", userID)
	return
}

func (d *SqlDb) GetUserByEmail(email string) (user db.User, err error) {
	err = d.selectOne(&user,
		"select * from users where email=?",
		strings.ToLower(strings.TrimSpace(email)))
	return
}
