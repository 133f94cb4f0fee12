package db

import (
	"errors"
)

// ErrNotFound is returned by stores when a requested row does not exist.
var ErrNotFound = errors.New("no rows in result set")

// ErrConflict is returned when an insert violates a uniqueness constraint,
// e.g. a second sharing record for the same (project, user) pair.
var ErrConflict = errors.New("unique constraint violation")

// ErrInvalidInput marks malformed input errors (bad id syntax and similar).
// These are never transient: the backoff wrapper must not retry them.
var ErrInvalidInput = errors.New("invalid input syntax")

type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// IsInvalidInput reports whether err was caused by malformed input rather
// than a transient failure.
func IsInvalidInput(err error) bool {
	if err == nil {
		return false
	}
	var validationError *ValidationError
	return errors.Is(err, ErrInvalidInput) || errors.As(err, &validationError)
}

// Store is the backend boundary of the data-synchronization core. It is
// implemented by db/sql (SQLite/Postgres) and db/bolt (embedded).
type Store interface {
	Connect() error
	Close() error
	Migrate() error

	CreateUser(user User) (User, error)
	GetUser(userID string) (User, error)
	GetUserByEmail(email string) (User, error)

	CreateProject(project Project) (Project, error)
	GetProject(projectID string) (Project, error)
	GetProjectsWithCounts(userID string) ([]ProjectWithCounts, error)
	GetProjectsByIDs(projectIDs []string) ([]ProjectWithCounts, error)
	UpdateProject(project Project) error
	DeleteProject(projectID string) error

	CreateNote(note Note) (Note, error)
	GetNote(noteID string) (Note, error)
	GetProjectNotes(projectID string) ([]Note, error)
	UpdateNote(note Note) error
	DeleteNote(noteID string) error

	CreateTask(task Task) (Task, error)
	GetTask(taskID string) (Task, error)
	GetProjectTasks(projectID string) ([]Task, error)
	UpdateTask(task Task) error
	DeleteTask(taskID string) error

	CreateChatMessage(message ChatMessage) (ChatMessage, error)
	GetProjectMessages(projectID string) ([]ChatMessage, error)

	CreateProjectSharing(sharing ProjectSharing) (ProjectSharing, error)
	GetProjectSharing(sharingID string) (ProjectSharing, error)
	GetProjectSharings(projectID string) ([]ProjectSharingWithEmail, error)
	GetSharingsForUser(userID string, status InvitationStatus) ([]ProjectSharing, error)
	UpdateProjectSharing(sharing ProjectSharing) error
	DeleteProjectSharing(sharingID string) error
}
