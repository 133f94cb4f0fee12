package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/taskcanvas/taskcanvas/db"
)

// ErrNotAuthenticated is returned by the mutation paths that require a
// signed-in user. Callers are expected to have gated on authentication
// already, so this surfaces as an error instead of a silent false.
var ErrNotAuthenticated = errors.New("not authenticated")

// ProjectOperations, NoteOperations, TaskOperations and ChatOperations are
// the slices of the ops modules the store orchestrates. They exist so tests
// can count calls with fakes.
type ProjectOperations interface {
	Fetch(ctx context.Context, userID string) []db.ProjectWithCounts
	Get(ctx context.Context, projectID string) (db.Project, bool)
	Create(ctx context.Context, project db.Project) (string, bool)
	Update(ctx context.Context, project db.Project) bool
	Delete(ctx context.Context, projectID string) bool
}

type NoteOperations interface {
	FetchForProject(ctx context.Context, projectID string) []db.Note
	Create(ctx context.Context, note db.Note) (string, bool)
	Update(ctx context.Context, note db.Note) bool
	Delete(ctx context.Context, noteID string) bool
}

type TaskOperations interface {
	FetchForProject(ctx context.Context, projectID string) []db.Task
	Create(ctx context.Context, task db.Task) (string, bool)
	Patch(ctx context.Context, taskID string, patch db.TaskPatch) bool
	Delete(ctx context.Context, taskID string) bool
}

type ChatOperations interface {
	FetchForProject(ctx context.Context, projectID string) []db.ChatMessage
	Send(ctx context.Context, message db.ChatMessage) (string, bool)
}

// Deps wires a Store. Guards, Cooldown and Clock default when zero.
type Deps struct {
	Projects ProjectOperations
	Notes    NoteOperations
	Tasks    TaskOperations
	Chat     ChatOperations

	Guards   GuardStore
	Cooldown time.Duration
	Clock    func() time.Time
}

// Store is the per-session aggregate: the in-memory collections the UI
// renders from, plus the guards that throttle fetches. One instance exists
// per authenticated session, so guard state never leaks between sessions.
type Store struct {
	projectOps ProjectOperations
	noteOps    NoteOperations
	taskOps    TaskOperations
	chatOps    ChatOperations

	guards   GuardStore
	cooldown time.Duration
	clock    func() time.Time

	mu             sync.Mutex
	user           *db.User
	projects       []db.ProjectWithCounts
	currentProject *db.Project
	notes          []db.Note
	tasks          []db.Task
	messages       []db.ChatMessage
}

func NewStore(deps Deps) *Store {
	if deps.Guards == nil {
		deps.Guards = NewMemoryGuardStore()
	}
	if deps.Cooldown <= 0 {
		deps.Cooldown = DefaultCooldown
	}
	if deps.Clock == nil {
		deps.Clock = time.Now
	}
	return &Store{
		projectOps: deps.Projects,
		noteOps:    deps.Notes,
		taskOps:    deps.Tasks,
		chatOps:    deps.Chat,
		guards:     deps.Guards,
		cooldown:   deps.Cooldown,
		clock:      deps.Clock,
	}
}

// SetUser switches the session's user. Passing nil is the sign-out
// teardown: every collection is cleared synchronously.
func (s *Store) SetUser(user *db.User) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.user = user
	if user == nil {
		s.projects = nil
		s.currentProject = nil
		s.notes = nil
		s.tasks = nil
		s.messages = nil
	}
}

func (s *Store) User() *db.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return nil
	}
	user := *s.user
	return &user
}

func (s *Store) Projects() []db.ProjectWithCounts {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]db.ProjectWithCounts, len(s.projects))
	copy(out, s.projects)
	return out
}

func (s *Store) CurrentProject() *db.Project {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.currentProject == nil {
		return nil
	}
	project := *s.currentProject
	return &project
}

func (s *Store) Notes() []db.Note {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]db.Note, len(s.notes))
	copy(out, s.notes)
	return out
}

func (s *Store) Tasks() []db.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]db.Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

func (s *Store) Messages() []db.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]db.ChatMessage, len(s.messages))
	copy(out, s.messages)
	return out
}

// guardedFetch runs fetch under the class's guards: an outstanding fetch or
// an active cooldown makes the call a silent no-op. The in-flight check comes
// first, so a skipped call never touches the cooldown clock.
func (s *Store) guardedFetch(ctx context.Context, class Resource, fetch func(ctx context.Context)) {
	if !s.guards.TryAcquire(class) {
		return
	}
	defer s.guards.Release(class)

	if s.guards.InCooldown(class, s.clock()) {
		return
	}
	s.guards.SetCooldown(class, s.clock().Add(s.cooldown))

	fetch(ctx)
}

// refresh re-fetches after a successful mutation. It respects the in-flight
// guard but bypasses the cooldown: the point is to pick up server-computed
// fields the local patch cannot know.
func (s *Store) refresh(ctx context.Context, class Resource, fetch func(ctx context.Context)) {
	if !s.guards.TryAcquire(class) {
		return
	}
	defer s.guards.Release(class)

	s.guards.SetCooldown(class, s.clock().Add(s.cooldown))
	fetch(ctx)
}

// FetchProjects loads the user's project list. Skipped silently when no
// user is set, a fetch is outstanding, or the cooldown is active.
func (s *Store) FetchProjects(ctx context.Context) {
	user := s.User()
	if user == nil {
		return
	}
	s.guardedFetch(ctx, ResourceProjects, func(ctx context.Context) {
		projects := s.projectOps.Fetch(ctx, user.ID)
		s.mu.Lock()
		s.projects = projects
		s.mu.Unlock()
	})
}

// FetchProject loads one project as the session's current project. A failed
// fetch keeps the last-known-good value. Switching projects does not clear
// the previous project's notes/tasks; the next fetch overwrites them.
func (s *Store) FetchProject(ctx context.Context, projectID string) {
	s.guardedFetch(ctx, ResourceProject, func(ctx context.Context) {
		project, ok := s.projectOps.Get(ctx, projectID)
		if !ok {
			return
		}
		s.mu.Lock()
		s.currentProject = &project
		s.mu.Unlock()
	})
}

func (s *Store) FetchNotes(ctx context.Context, projectID string) {
	s.guardedFetch(ctx, ResourceNotes, func(ctx context.Context) {
		notes := s.noteOps.FetchForProject(ctx, projectID)
		s.mu.Lock()
		s.notes = notes
		s.mu.Unlock()
	})
}

func (s *Store) FetchTasks(ctx context.Context, projectID string) {
	s.guardedFetch(ctx, ResourceTasks, func(ctx context.Context) {
		tasks := s.taskOps.FetchForProject(ctx, projectID)
		s.mu.Lock()
		s.tasks = tasks
		s.mu.Unlock()
	})
}

func (s *Store) FetchMessages(ctx context.Context, projectID string) {
	s.guardedFetch(ctx, ResourceMessages, func(ctx context.Context) {
		messages := s.chatOps.FetchForProject(ctx, projectID)
		s.mu.Lock()
		s.messages = messages
		s.mu.Unlock()
	})
}

// CreateProject creates a project and appends it locally without a refetch;
// the local record with zero counts is sufficient until the next list fetch.
func (s *Store) CreateProject(ctx context.Context, title, description string) (string, bool) {
	user := s.User()
	if user == nil {
		return "", false
	}

	project := db.Project{Title: title, Description: description, UserID: user.ID}
	id, ok := s.projectOps.Create(ctx, project)
	if !ok {
		return "", false
	}

	project.ID = id
	created := s.clock()
	project.Created = created
	project.Updated = created

	s.mu.Lock()
	s.projects = append([]db.ProjectWithCounts{{Project: project}}, s.projects...)
	s.mu.Unlock()
	return id, true
}

func (s *Store) UpdateProject(ctx context.Context, project db.Project) bool {
	if !s.projectOps.Update(ctx, project) {
		return false
	}

	s.mu.Lock()
	for i := range s.projects {
		if s.projects[i].ID == project.ID {
			s.projects[i].Title = project.Title
			s.projects[i].Description = project.Description
			s.projects[i].Updated = s.clock()
			break
		}
	}
	if s.currentProject != nil && s.currentProject.ID == project.ID {
		s.currentProject.Title = project.Title
		s.currentProject.Description = project.Description
	}
	s.mu.Unlock()
	return true
}

func (s *Store) DeleteProject(ctx context.Context, projectID string) bool {
	if !s.projectOps.Delete(ctx, projectID) {
		return false
	}

	s.mu.Lock()
	kept := s.projects[:0]
	for _, project := range s.projects {
		if project.ID != projectID {
			kept = append(kept, project)
		}
	}
	s.projects = kept
	if s.currentProject != nil && s.currentProject.ID == projectID {
		s.currentProject = nil
		s.notes = nil
		s.tasks = nil
		s.messages = nil
	}
	s.mu.Unlock()
	return true
}

// CreateNote creates a note in the project and refreshes the note list to
// pick up server-computed fields. The parent project's note count is bumped
// optimistically. A missing user returns ErrNotAuthenticated; a failed
// create returns an empty id with a nil error, the failure having already
// been reported through the side channel.
func (s *Store) CreateNote(ctx context.Context, projectID string, title *string, content []byte) (string, error) {
	user := s.User()
	if user == nil {
		return "", ErrNotAuthenticated
	}

	id, ok := s.noteOps.Create(ctx, db.Note{
		ProjectID: projectID,
		Title:     title,
		Content:   content,
		CreatedBy: user.ID,
	})
	if !ok {
		return "", nil
	}

	s.adjustCounts(projectID, 1, 0)
	s.refresh(ctx, ResourceNotes, func(ctx context.Context) {
		notes := s.noteOps.FetchForProject(ctx, projectID)
		s.mu.Lock()
		s.notes = notes
		s.mu.Unlock()
	})
	return id, nil
}

func (s *Store) UpdateNote(ctx context.Context, note db.Note) bool {
	if !s.noteOps.Update(ctx, note) {
		return false
	}

	s.mu.Lock()
	for i := range s.notes {
		if s.notes[i].ID == note.ID {
			s.notes[i].Title = note.Title
			s.notes[i].Content = note.Content
			s.notes[i].Updated = s.clock()
			break
		}
	}
	s.mu.Unlock()
	return true
}

func (s *Store) DeleteNote(ctx context.Context, projectID, noteID string) bool {
	if !s.noteOps.Delete(ctx, noteID) {
		return false
	}

	s.mu.Lock()
	kept := s.notes[:0]
	for _, note := range s.notes {
		if note.ID != noteID {
			kept = append(kept, note)
		}
	}
	s.notes = kept
	s.mu.Unlock()

	s.adjustCounts(projectID, -1, 0)
	return true
}

// CreateTask mirrors CreateNote: optimistic count bump plus a list refresh.
func (s *Store) CreateTask(ctx context.Context, task db.Task) (string, bool) {
	user := s.User()
	if user == nil {
		return "", false
	}
	task.CreatedBy = user.ID

	id, ok := s.taskOps.Create(ctx, task)
	if !ok {
		return "", false
	}

	s.adjustCounts(task.ProjectID, 0, 1)
	s.refresh(ctx, ResourceTasks, func(ctx context.Context) {
		tasks := s.taskOps.FetchForProject(ctx, task.ProjectID)
		s.mu.Lock()
		s.tasks = tasks
		s.mu.Unlock()
	})
	return id, true
}

func (s *Store) UpdateTask(ctx context.Context, taskID string, patch db.TaskPatch) bool {
	if !s.taskOps.Patch(ctx, taskID, patch) {
		return false
	}

	s.mu.Lock()
	for i := range s.tasks {
		if s.tasks[i].ID == taskID {
			s.tasks[i] = patch.Apply(s.tasks[i])
			s.tasks[i].Updated = s.clock()
			break
		}
	}
	s.mu.Unlock()
	return true
}

func (s *Store) DeleteTask(ctx context.Context, projectID, taskID string) bool {
	if !s.taskOps.Delete(ctx, taskID) {
		return false
	}

	s.mu.Lock()
	kept := s.tasks[:0]
	for _, task := range s.tasks {
		if task.ID != taskID {
			kept = append(kept, task)
		}
	}
	s.tasks = kept
	s.mu.Unlock()

	s.adjustCounts(projectID, 0, -1)
	return true
}

// SendMessage appends a chat message and always refreshes the message list.
// The error/empty-id contract matches CreateNote.
func (s *Store) SendMessage(ctx context.Context, projectID, content string) (string, error) {
	user := s.User()
	if user == nil {
		return "", ErrNotAuthenticated
	}

	id, ok := s.chatOps.Send(ctx, db.ChatMessage{
		ProjectID: projectID,
		Content:   content,
		CreatedBy: user.ID,
	})
	if !ok {
		return "", nil
	}

	s.refresh(ctx, ResourceMessages, func(ctx context.Context) {
		messages := s.chatOps.FetchForProject(ctx, projectID)
		s.mu.Lock()
		s.messages = messages
		s.mu.Unlock()
	})
	return id, nil
}

// adjustCounts shifts the parent project's derived counts, clamped at zero.
func (s *Store) adjustCounts(projectID string, noteDelta, taskDelta int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.projects {
		if s.projects[i].ID != projectID {
			continue
		}
		s.projects[i].NoteCount = clamp(s.projects[i].NoteCount + noteDelta)
		s.projects[i].TaskCount = clamp(s.projects[i].TaskCount + taskDelta)
		return
	}
}

func clamp(n int) int {
	if n < 0 {
		return 0
	}
	return n
}
