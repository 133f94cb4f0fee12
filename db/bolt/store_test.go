package bolt

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskcanvas/taskcanvas/db"
)

func openTestStore(t *testing.T) *BoltDb {
	t.Helper()

	store := NewBoltDb(filepath.Join(t.TempDir(), "taskcanvas.db"))
	require.NoError(t, store.Connect())
	require.NoError(t, store.Migrate())
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}

func TestBoltDb_ProjectLifecycle(t *testing.T) {
	store := openTestStore(t)

	owner, err := store.CreateUser(db.User{Email: "Owner@Example.com", Name: "Owner", PasswordHash: "x"})
	require.NoError(t, err)
	assert.Equal(t, "owner@example.com", owner.Email)

	project, err := store.CreateProject(db.Project{Title: "Sprint 1", UserID: owner.ID})
	require.NoError(t, err)
	require.NotEmpty(t, project.ID)

	_, err = store.CreateNote(db.Note{ProjectID: project.ID, Content: json.RawMessage(`{"ops":[]}`), CreatedBy: owner.ID})
	require.NoError(t, err)

	_, err = store.CreateTask(db.Task{
		ProjectID: project.ID,
		Title:     "Plan",
		Status:    db.TaskStatusTodo,
		Type:      db.TaskTypeTask,
		CreatedBy: owner.ID,
	})
	require.NoError(t, err)

	projects, err := store.GetProjectsWithCounts(owner.ID)
	require.NoError(t, err)
	require.Len(t, projects, 1)
	assert.Equal(t, 1, projects[0].NoteCount)
	assert.Equal(t, 1, projects[0].TaskCount)

	require.NoError(t, store.DeleteProject(project.ID))

	_, err = store.GetProject(project.ID)
	assert.ErrorIs(t, err, db.ErrNotFound)

	notes, err := store.GetProjectNotes(project.ID)
	require.NoError(t, err)
	assert.Empty(t, notes, "delete must cascade to notes")
}

func TestBoltDb_SharingUniqueness(t *testing.T) {
	store := openTestStore(t)

	sharing := db.ProjectSharing{
		ProjectID:       "p1",
		OwnerID:         "owner",
		SharedWithID:    "guest",
		PermissionLevel: db.PermissionView,
		Status:          db.InvitationPending,
	}

	first, err := store.CreateProjectSharing(sharing)
	require.NoError(t, err)

	_, err = store.CreateProjectSharing(sharing)
	assert.ErrorIs(t, err, db.ErrConflict)

	// removing the share frees the (project, user) pair again
	require.NoError(t, store.DeleteProjectSharing(first.ID))
	_, err = store.CreateProjectSharing(sharing)
	assert.NoError(t, err)
}

func TestBoltDb_MessagesChronological(t *testing.T) {
	store := openTestStore(t)

	for _, content := range []string{"first", "second", "third"} {
		_, err := store.CreateChatMessage(db.ChatMessage{ProjectID: "p1", Content: content, CreatedBy: "u1"})
		require.NoError(t, err)
	}

	messages, err := store.GetProjectMessages("p1")
	require.NoError(t, err)
	require.Len(t, messages, 3)
	assert.Equal(t, "first", messages[0].Content)
	assert.Equal(t, "third", messages[2].Content)
}
