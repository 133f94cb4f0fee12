package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/taskcanvas/taskcanvas/db"
)

// fakeClock advances only when told to, so cooldown windows are exact.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

// fakeOps counts calls; fetches optionally block on release to simulate an
// outstanding request.
type fakeOps struct {
	mu         sync.Mutex
	fetchCalls int
	block      chan struct{}

	projects []db.ProjectWithCounts
	notes    []db.Note
	tasks    []db.Task
	messages []db.ChatMessage

	createOK bool
	mutateOK bool
}

func (f *fakeOps) countFetch() {
	f.mu.Lock()
	f.fetchCalls++
	f.mu.Unlock()
	if f.block != nil {
		<-f.block
	}
}

func (f *fakeOps) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fetchCalls
}

func (f *fakeOps) Fetch(ctx context.Context, userID string) []db.ProjectWithCounts {
	f.countFetch()
	return f.projects
}

func (f *fakeOps) Get(ctx context.Context, projectID string) (db.Project, bool) {
	f.countFetch()
	if len(f.projects) > 0 {
		return f.projects[0].Project, true
	}
	return db.Project{}, false
}

func (f *fakeOps) Create(ctx context.Context, project db.Project) (string, bool) {
	return "created-id", f.createOK
}

func (f *fakeOps) Update(ctx context.Context, project db.Project) bool { return f.mutateOK }
func (f *fakeOps) Delete(ctx context.Context, id string) bool          { return f.mutateOK }

type fakeNoteOps struct{ fakeOps }

func (f *fakeNoteOps) FetchForProject(ctx context.Context, projectID string) []db.Note {
	f.countFetch()
	return f.notes
}

func (f *fakeNoteOps) Create(ctx context.Context, note db.Note) (string, bool) {
	return "note-id", f.createOK
}

func (f *fakeNoteOps) Update(ctx context.Context, note db.Note) bool { return f.mutateOK }

type fakeTaskOps struct{ fakeOps }

func (f *fakeTaskOps) FetchForProject(ctx context.Context, projectID string) []db.Task {
	f.countFetch()
	return f.tasks
}

func (f *fakeTaskOps) Create(ctx context.Context, task db.Task) (string, bool) {
	return "task-id", f.createOK
}

func (f *fakeTaskOps) Patch(ctx context.Context, taskID string, patch db.TaskPatch) bool {
	return f.mutateOK
}

type fakeChatOps struct{ fakeOps }

func (f *fakeChatOps) FetchForProject(ctx context.Context, projectID string) []db.ChatMessage {
	f.countFetch()
	return f.messages
}

func (f *fakeChatOps) Send(ctx context.Context, message db.ChatMessage) (string, bool) {
	return "msg-id", f.createOK
}

type testStore struct {
	store    *Store
	clock    *fakeClock
	projects *fakeOps
	notes    *fakeNoteOps
	tasks    *fakeTaskOps
	chat     *fakeChatOps
}

func newTestStore() *testStore {
	clock := newFakeClock()
	projects := &fakeOps{createOK: true, mutateOK: true}
	notes := &fakeNoteOps{fakeOps{createOK: true, mutateOK: true}}
	tasks := &fakeTaskOps{fakeOps{createOK: true, mutateOK: true}}
	chat := &fakeChatOps{fakeOps{createOK: true, mutateOK: true}}

	store := NewStore(Deps{
		Projects: projects,
		Notes:    notes,
		Tasks:    tasks,
		Chat:     chat,
		Clock:    clock.Now,
	})
	store.SetUser(&db.User{ID: "u1", Email: "u1@example.com"})

	return &testStore{store: store, clock: clock, projects: projects, notes: notes, tasks: tasks, chat: chat}
}

func TestFetch_CooldownSkipsSecondCall(t *testing.T) {
	f := newTestStore()
	ctx := context.Background()

	f.store.FetchProjects(ctx)
	f.store.FetchProjects(ctx)

	if n := f.projects.calls(); n != 1 {
		t.Fatalf("two fetches inside the cooldown window made %d network calls, want 1", n)
	}

	f.clock.Advance(DefaultCooldown + time.Millisecond)
	f.store.FetchProjects(ctx)

	if n := f.projects.calls(); n != 2 {
		t.Fatalf("fetch after cooldown expiry made %d total calls, want 2", n)
	}
}

func TestFetch_CooldownIsPerResourceClass(t *testing.T) {
	f := newTestStore()
	ctx := context.Background()

	f.store.FetchProjects(ctx)
	f.store.FetchNotes(ctx, "p1")
	f.store.FetchTasks(ctx, "p1")

	if f.projects.calls() != 1 || f.notes.calls() != 1 || f.tasks.calls() != 1 {
		t.Fatal("different resource classes must not share a cooldown")
	}
}

func TestFetch_InFlightGuardBlocksConcurrentCall(t *testing.T) {
	f := newTestStore()
	ctx := context.Background()

	f.notes.block = make(chan struct{})

	done := make(chan struct{})
	go func() {
		f.store.FetchNotes(ctx, "p1")
		close(done)
	}()

	// wait for the first fetch to be outstanding
	for f.notes.calls() == 0 {
		time.Sleep(time.Millisecond)
	}

	// the cooldown has expired but the request is still in flight
	f.clock.Advance(DefaultCooldown + time.Millisecond)
	f.store.FetchNotes(ctx, "p1")

	if n := f.notes.calls(); n != 1 {
		t.Fatalf("fetch while one is outstanding made %d calls, want 1", n)
	}

	close(f.notes.block)
	<-done
}

func TestDeleteNote_CountNeverNegative(t *testing.T) {
	f := newTestStore()
	ctx := context.Background()

	f.projects.projects = []db.ProjectWithCounts{{Project: db.Project{ID: "p1", Title: "P"}, NoteCount: 1}}
	f.store.FetchProjects(ctx)

	f.notes.notes = []db.Note{{ID: "n1", ProjectID: "p1"}, {ID: "n2", ProjectID: "p1"}}
	f.clock.Advance(DefaultCooldown + time.Millisecond)
	f.store.FetchNotes(ctx, "p1")

	// two deletions against a count of one must clamp at zero
	f.store.DeleteNote(ctx, "p1", "n1")
	f.store.DeleteNote(ctx, "p1", "n2")

	projects := f.store.Projects()
	if projects[0].NoteCount != 0 {
		t.Fatalf("note count = %d, want clamped 0", projects[0].NoteCount)
	}
	if len(f.store.Notes()) != 0 {
		t.Fatal("deleted notes must be removed locally")
	}
}

func TestCreateNote_RequiresUser(t *testing.T) {
	f := newTestStore()
	f.store.SetUser(nil)

	_, err := f.store.CreateNote(context.Background(), "p1", nil, []byte(`{}`))
	if err != ErrNotAuthenticated {
		t.Fatalf("err = %v, want ErrNotAuthenticated", err)
	}

	_, err = f.store.SendMessage(context.Background(), "p1", "hi")
	if err != ErrNotAuthenticated {
		t.Fatalf("err = %v, want ErrNotAuthenticated", err)
	}
}

func TestCreateNote_BumpsCountAndRefreshes(t *testing.T) {
	f := newTestStore()
	ctx := context.Background()

	f.projects.projects = []db.ProjectWithCounts{{Project: db.Project{ID: "p1", Title: "P"}}}
	f.store.FetchProjects(ctx)

	id, err := f.store.CreateNote(ctx, "p1", nil, []byte(`{}`))
	if err != nil || id != "note-id" {
		t.Fatalf("create = (%q, %v)", id, err)
	}

	if f.store.Projects()[0].NoteCount != 1 {
		t.Fatal("note count must be bumped optimistically")
	}
	// the refresh bypasses the cooldown to pick up server-computed fields
	if n := f.notes.calls(); n != 1 {
		t.Fatalf("expected a note list refresh, got %d calls", n)
	}
}

func TestSetUserNil_ClearsAllCollections(t *testing.T) {
	f := newTestStore()
	ctx := context.Background()

	f.projects.projects = []db.ProjectWithCounts{{Project: db.Project{ID: "p1", Title: "P"}}}
	f.notes.notes = []db.Note{{ID: "n1"}}
	f.tasks.tasks = []db.Task{{ID: "t1"}}
	f.chat.messages = []db.ChatMessage{{ID: "m1"}}

	f.store.FetchProjects(ctx)
	f.store.FetchProject(ctx, "p1")
	f.store.FetchNotes(ctx, "p1")
	f.store.FetchTasks(ctx, "p1")
	f.store.FetchMessages(ctx, "p1")

	f.store.SetUser(nil)

	if len(f.store.Projects()) != 0 || f.store.CurrentProject() != nil ||
		len(f.store.Notes()) != 0 || len(f.store.Tasks()) != 0 || len(f.store.Messages()) != 0 {
		t.Fatal("sign-out must clear every collection")
	}
}

func TestFailedMutation_LeavesStateUntouched(t *testing.T) {
	f := newTestStore()
	ctx := context.Background()

	f.projects.projects = []db.ProjectWithCounts{{Project: db.Project{ID: "p1", Title: "P"}, NoteCount: 2}}
	f.store.FetchProjects(ctx)

	f.notes.mutateOK = false
	if f.store.DeleteNote(ctx, "p1", "n1") {
		t.Fatal("delete must report failure")
	}
	if f.store.Projects()[0].NoteCount != 2 {
		t.Fatal("failed delete must not decrement the count")
	}
}

func TestUser_ReturnsDetachedCopy(t *testing.T) {
	f := newTestStore()

	got := f.store.User()
	if got == nil {
		t.Fatal("expected a user")
	}
	got.Email = "tampered@example.com"

	if again := f.store.User(); again.Email != "u1@example.com" {
		t.Errorf("session user mutated through accessor: %s", again.Email)
	}

	f.store.SetUser(nil)
	if f.store.User() != nil {
		t.Error("expected nil user after sign-out")
	}
}
