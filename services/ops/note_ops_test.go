package ops

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/taskcanvas/taskcanvas/db"
	"github.com/taskcanvas/taskcanvas/pkg/notify"
)

// mockNoteStore overrides only the note methods; everything else panics if
// reached.
type mockNoteStore struct {
	db.Store

	notes     []db.Note
	failFirst int // number of calls that fail before succeeding
	failWith  error
	calls     int
	block     chan struct{} // when set, fetches wait here
}

var errBackendDown = errors.New("backend unavailable")

func (s *mockNoteStore) failure() error {
	if s.failWith != nil {
		return s.failWith
	}
	return errBackendDown
}

func (s *mockNoteStore) GetProjectNotes(projectID string) ([]db.Note, error) {
	if s.block != nil {
		<-s.block
	}
	s.calls++
	if s.calls <= s.failFirst {
		return nil, s.failure()
	}
	return s.notes, nil
}

func (s *mockNoteStore) CreateNote(note db.Note) (db.Note, error) {
	s.calls++
	if s.calls <= s.failFirst {
		return db.Note{}, s.failure()
	}
	note.ID = "note-1"
	return note, nil
}

func fastRetry(b *base) {
	b.retry.BaseDelay = time.Millisecond
}

func TestNoteOps_FetchFailureReturnsEmptyList(t *testing.T) {
	store := &mockNoteStore{failFirst: 100}
	recorder := &notify.Recorder{}
	o := NewNoteOps(store, recorder)
	fastRetry(&o.base)

	notes := o.FetchForProject(context.Background(), "p1")

	if notes == nil || len(notes) != 0 {
		t.Fatalf("expected empty list, got %v", notes)
	}
	if n := recorder.Count(notify.SeverityError); n != 1 {
		t.Fatalf("expected exactly one notification, got %d", n)
	}
}

func TestNoteOps_FetchRecoversFromTransientFailure(t *testing.T) {
	store := &mockNoteStore{
		notes:     []db.Note{{ID: "n1", ProjectID: "p1"}},
		failFirst: 2,
	}
	recorder := &notify.Recorder{}
	o := NewNoteOps(store, recorder)
	fastRetry(&o.base)

	notes := o.FetchForProject(context.Background(), "p1")

	if len(notes) != 1 {
		t.Fatalf("expected 1 note after recovery, got %d", len(notes))
	}
	if len(recorder.Notifications) != 0 {
		t.Fatalf("recovered fetch must not notify, got %v", recorder.Notifications)
	}
}

func TestNoteOps_CreateReturnsServerID(t *testing.T) {
	store := &mockNoteStore{}
	o := NewNoteOps(store, &notify.Recorder{})

	id, ok := o.Create(context.Background(), db.Note{ProjectID: "p1", CreatedBy: "u1"})

	if !ok || id != "note-1" {
		t.Fatalf("expected (note-1, true), got (%q, %v)", id, ok)
	}
}

func TestNoteOps_CreateFailureReturnsSentinel(t *testing.T) {
	store := &mockNoteStore{failFirst: 100}
	recorder := &notify.Recorder{}
	o := NewNoteOps(store, recorder)
	fastRetry(&o.base)

	id, ok := o.Create(context.Background(), db.Note{ProjectID: "p1", CreatedBy: "u1"})

	if ok || id != "" {
		t.Fatalf("expected (\"\", false), got (%q, %v)", id, ok)
	}
	if n := recorder.Count(notify.SeverityError); n != 1 {
		t.Fatalf("expected exactly one notification, got %d", n)
	}
}

func TestNoteOps_InvalidInputNotRetried(t *testing.T) {
	store := &mockNoteStore{failFirst: 100, failWith: &db.ValidationError{Message: "bad id"}}
	o := NewNoteOps(store, &notify.Recorder{})
	fastRetry(&o.base)

	o.FetchForProject(context.Background(), "p1")

	if store.calls != 1 {
		t.Fatalf("malformed-input failure must be attempted once, got %d calls", store.calls)
	}
}

func TestNoteOps_LoadingFlagTracksInFlightCall(t *testing.T) {
	store := &mockNoteStore{block: make(chan struct{})}
	o := NewNoteOps(store, &notify.Recorder{})
	fastRetry(&o.base)

	done := make(chan struct{})
	go func() {
		o.FetchForProject(context.Background(), "p1")
		close(done)
	}()

	deadline := time.Now().Add(2 * time.Second)
	for !o.Loading() {
		if time.Now().After(deadline) {
			t.Fatal("loading flag never set while a fetch was outstanding")
		}
		time.Sleep(time.Millisecond)
	}

	close(store.block)
	<-done

	if o.Loading() {
		t.Error("loading flag still set after the fetch returned")
	}
}
