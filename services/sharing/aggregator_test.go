package sharing

import (
	"context"
	"testing"

	"github.com/taskcanvas/taskcanvas/db"
	"github.com/taskcanvas/taskcanvas/pkg/notify"
)

func acceptShare(t *testing.T, f *fixture, projectID string) {
	t.Helper()
	ctx := context.Background()

	if !f.service.Share(ctx, projectID, f.owner.ID, f.guest.Email, db.PermissionView) {
		t.Fatalf("share failed: %v", f.recorder.Notifications)
	}
	sharings, err := f.store.GetProjectSharings(projectID)
	if err != nil {
		t.Fatal(err)
	}
	if !f.service.RespondToInvitation(ctx, sharings[0].ID, f.guest.ID, true) {
		t.Fatal("accept failed")
	}
}

func TestListSharedProjects_AvailableEntry(t *testing.T) {
	f := newFixture(t)
	acceptShare(t, f, f.project.ID)

	entries := f.service.ListSharedProjects(context.Background(), f.guest.ID)
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}

	entry, ok := entries[0].(db.AvailableProject)
	if !ok {
		t.Fatalf("expected AvailableProject, got %T", entries[0])
	}
	if entry.Placeholder() {
		t.Error("live project must not be a placeholder")
	}
	if entry.Title != "Sprint 1" {
		t.Errorf("title = %q", entry.Title)
	}
	if entry.OwnerEmail != "owner@example.com" {
		t.Errorf("owner email = %q", entry.OwnerEmail)
	}
	if entry.EntryPermission() != db.PermissionView {
		t.Errorf("permission = %s", entry.EntryPermission())
	}
}

func TestListSharedProjects_PlaceholderForDeletedProject(t *testing.T) {
	f := newFixture(t)
	acceptShare(t, f, f.project.ID)

	if err := f.store.DeleteProject(f.project.ID); err != nil {
		t.Fatal(err)
	}

	f.recorder.Notifications = nil
	entries := f.service.ListSharedProjects(context.Background(), f.guest.ID)

	if len(entries) != 1 {
		t.Fatalf("a dangling share must still yield exactly one entry, got %d", len(entries))
	}

	entry, ok := entries[0].(db.UnavailableProject)
	if !ok {
		t.Fatalf("expected UnavailableProject, got %T", entries[0])
	}
	if !entry.IsDeleted || !entry.IsPlaceholder {
		t.Errorf("placeholder flags = deleted %v placeholder %v", entry.IsDeleted, entry.IsPlaceholder)
	}
	if entry.Title != "Shared by owner" {
		t.Errorf("title = %q, want derived from owner email", entry.Title)
	}
	if entry.NoteCount != 0 || entry.TaskCount != 0 {
		t.Errorf("placeholder counts must be zero, got %d/%d", entry.NoteCount, entry.TaskCount)
	}
	if entry.EntrySharingID() == "" {
		t.Error("placeholder must keep the sharing id so the user can leave the share")
	}

	if n := f.recorder.Count(notify.SeverityWarning); n != 1 {
		t.Fatalf("expected one aggregate warning, got %d", n)
	}
}

func TestListSharedProjects_MixedEntriesSingleWarning(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	second, err := f.store.CreateProject(db.Project{Title: "Sprint 2", UserID: f.owner.ID})
	if err != nil {
		t.Fatal(err)
	}
	third, err := f.store.CreateProject(db.Project{Title: "Sprint 3", UserID: f.owner.ID})
	if err != nil {
		t.Fatal(err)
	}

	acceptShare(t, f, f.project.ID)
	acceptShare(t, f, second.ID)
	acceptShare(t, f, third.ID)

	// two of the three shared projects disappear
	if err := f.store.DeleteProject(second.ID); err != nil {
		t.Fatal(err)
	}
	if err := f.store.DeleteProject(third.ID); err != nil {
		t.Fatal(err)
	}

	f.recorder.Notifications = nil
	entries := f.service.ListSharedProjects(ctx, f.guest.ID)

	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}

	var placeholders int
	for _, entry := range entries {
		if entry.Placeholder() {
			placeholders++
		}
	}
	if placeholders != 2 {
		t.Errorf("expected 2 placeholders, got %d", placeholders)
	}

	// one aggregate warning, not one per placeholder
	if n := f.recorder.Count(notify.SeverityWarning); n != 1 {
		t.Fatalf("expected a single aggregate warning, got %d", n)
	}
}

func TestListSharedProjects_EmptyWithoutShares(t *testing.T) {
	f := newFixture(t)

	entries := f.service.ListSharedProjects(context.Background(), f.guest.ID)
	if len(entries) != 0 {
		t.Fatalf("expected no entries, got %d", len(entries))
	}
	if len(f.recorder.Notifications) != 0 {
		t.Fatalf("empty list must not notify, got %v", f.recorder.Notifications)
	}
}
