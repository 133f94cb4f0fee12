// Package sql implements db.Store on a relational database. SQLite
// (modernc.org/sqlite) backs single-node deployments; Postgres (lib/pq)
// matches the hosted original.
package sql

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	log "github.com/sirupsen/logrus"
	sqlite "modernc.org/sqlite"
	_ "modernc.org/sqlite"

	"github.com/taskcanvas/taskcanvas/db"
)

type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

type SqlDb struct {
	sql     *sqlx.DB
	dialect Dialect
	dsn     string
}

func NewSqlDb(dialect Dialect, dsn string) *SqlDb {
	return &SqlDb{dialect: dialect, dsn: dsn}
}

func (d *SqlDb) Connect() error {
	driver := "sqlite"
	if d.dialect == DialectPostgres {
		driver = "postgres"
	}

	conn, err := sqlx.Connect(driver, d.dsn)
	if err != nil {
		return fmt.Errorf("failed to connect to %s store: %w", d.dialect, err)
	}

	if d.dialect == DialectSQLite {
		// a single writer avoids SQLITE_BUSY under concurrent API calls
		conn.SetMaxOpenConns(1)
	}

	d.sql = conn
	log.WithField("dialect", d.dialect).Info("connected to store")
	return nil
}

func (d *SqlDb) Close() error {
	if d.sql == nil {
		return nil
	}
	return d.sql.Close()
}

func (d *SqlDb) Sql() *sqlx.DB {
	return d.sql
}

// prepare rebinds ?-style placeholders for the active driver.
func (d *SqlDb) prepare(query string) string {
	return d.sql.Rebind(query)
}

func (d *SqlDb) placeholderFormat() squirrel.PlaceholderFormat {
	if d.dialect == DialectPostgres {
		return squirrel.Dollar
	}
	return squirrel.Question
}

func (d *SqlDb) selectOne(dest interface{}, query string, args ...interface{}) error {
	err := d.sql.Get(dest, d.prepare(query), args...)
	return translateError(err)
}

func (d *SqlDb) selectAll(dest interface{}, query string, args ...interface{}) error {
	return translateError(d.sql.Select(dest, d.prepare(query), args...))
}

func (d *SqlDb) exec(query string, args ...interface{}) (sql.Result, error) {
	res, err := d.sql.Exec(d.prepare(query), args...)
	return res, translateError(err)
}

// translateError maps driver errors onto the db package sentinels so callers
// never branch on driver-specific codes.
func translateError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		return db.ErrNotFound
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "23505": // unique_violation
			return fmt.Errorf("%w: %s", db.ErrConflict, pqErr.Message)
		case "22P02": // invalid_text_representation
			return fmt.Errorf("%w: %s", db.ErrInvalidInput, pqErr.Message)
		}
		return err
	}

	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		// SQLITE_CONSTRAINT_UNIQUE / SQLITE_CONSTRAINT_PRIMARYKEY
		if sqliteErr.Code() == 2067 || sqliteErr.Code() == 1555 {
			return fmt.Errorf("%w: %s", db.ErrConflict, sqliteErr.Error())
		}
		return err
	}

	return err
}

func newID() string {
	return uuid.NewString()
}

func now() time.Time {
	return time.Now().UTC()
}

var migrations = []string{
	`create table if not exists users (
		id varchar(36) primary key,
		email varchar(255) not null,
		name varchar(255) not null default '',
		password_hash varchar(255) not null,
		created_at timestamp not null
	)`,
	`create unique index if not exists users_email on users (email)`,

	`create table if not exists projects (
		id varchar(36) primary key,
		title varchar(255) not null,
		description text not null default '',
		user_id varchar(36) not null references users (id),
		created_at timestamp not null,
		updated_at timestamp not null
	)`,

	`create table if not exists notes (
		id varchar(36) primary key,
		project_id varchar(36) not null references projects (id),
		title varchar(255) null,
		content text not null,
		created_by varchar(36) not null,
		created_at timestamp not null,
		updated_at timestamp not null
	)`,

	`create table if not exists tasks (
		id varchar(36) primary key,
		project_id varchar(36) not null references projects (id),
		parent_task_id varchar(36) null,
		title varchar(255) not null,
		description text not null default '',
		status varchar(20) not null,
		task_type varchar(20) not null,
		priority varchar(20) null,
		due_date timestamp null,
		labels text null,
		estimated_time integer null,
		actual_time integer null,
		created_by varchar(36) not null,
		created_at timestamp not null,
		updated_at timestamp not null
	)`,

	`create table if not exists chat_messages (
		id varchar(36) primary key,
		project_id varchar(36) not null references projects (id),
		content text not null,
		created_by varchar(36) not null,
		created_at timestamp not null
	)`,

	`create table if not exists project_sharing (
		id varchar(36) primary key,
		project_id varchar(36) not null,
		owner_id varchar(36) not null,
		shared_with_id varchar(36) not null,
		permission_level varchar(10) not null,
		invitation_status varchar(10) not null,
		created_at timestamp not null,
		updated_at timestamp not null
	)`,
	// the uniqueness constraint closes the concurrent-share race: the second
	// insert fails with a conflict and is retried as an update
	`create unique index if not exists project_sharing_target
		on project_sharing (project_id, shared_with_id)`,
}

func (d *SqlDb) Migrate() error {
	for _, stmt := range migrations {
		if _, err := d.sql.Exec(stmt); err != nil {
			return fmt.Errorf("migration failed: %w\n%s", err, strings.TrimSpace(stmt))
		}
	}
	log.Info("store schema up to date")
	return nil
}
