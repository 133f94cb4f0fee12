package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gorilla/mux"

	"github.com/taskcanvas/taskcanvas/db"
	"github.com/taskcanvas/taskcanvas/db/bolt"
	"github.com/taskcanvas/taskcanvas/services/auth"
)

type apiClient struct {
	t      *testing.T
	router *mux.Router
	token  string
}

func (c *apiClient) do(method, url string, body interface{}) *httptest.ResponseRecorder {
	c.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			c.t.Fatal(err)
		}
	}

	req := httptest.NewRequest(method, url, &buf)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	rec := httptest.NewRecorder()
	c.router.ServeHTTP(rec, req)
	return rec
}

func (c *apiClient) decode(rec *httptest.ResponseRecorder, out interface{}) {
	c.t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
		c.t.Fatalf("cannot decode %q: %v", rec.Body.String(), err)
	}
}

func newRouterForTest(t *testing.T) *mux.Router {
	t.Helper()

	store := bolt.NewBoltDb(filepath.Join(t.TempDir(), "api.db"))
	if err := store.Connect(); err != nil {
		t.Fatal(err)
	}
	if err := store.Migrate(); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = store.Close() })

	return Route(store, auth.NewService(store, "integration-secret", time.Hour))
}

func registerUser(t *testing.T, router *mux.Router, email, name string) *apiClient {
	t.Helper()

	c := &apiClient{t: t, router: router}
	rec := c.do("POST", "/api/auth/register", map[string]string{
		"email":    email,
		"name":     name,
		"password": "hunter22",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("register %s: status %d, body %s", email, rec.Code, rec.Body.String())
	}

	var response struct {
		Token string `json:"token"`
	}
	c.decode(rec, &response)
	c.token = response.Token
	return c
}

// TestSharingLifecycle walks the full flow: owner creates and shares a
// project, the invitee accepts, sees it in shared projects, and after the
// owner deletes the project the entry degrades to a placeholder.
func TestSharingLifecycle(t *testing.T) {
	router := newRouterForTest(t)
	owner := registerUser(t, router, "o@example.com", "Owner")
	invitee := registerUser(t, router, "a@example.com", "A")

	// owner creates "Sprint 1"
	rec := owner.do("POST", "/api/projects", map[string]string{"title": "Sprint 1", "description": ""})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create project: %d %s", rec.Code, rec.Body.String())
	}
	var project db.Project
	owner.decode(rec, &project)

	// it shows up with zero counts
	rec = owner.do("GET", "/api/projects", nil)
	var projects []db.ProjectWithCounts
	owner.decode(rec, &projects)
	if len(projects) != 1 || projects[0].ID != project.ID {
		t.Fatalf("unexpected project list: %+v", projects)
	}
	if projects[0].NoteCount != 0 || projects[0].TaskCount != 0 {
		t.Fatalf("fresh project must have zero counts: %+v", projects[0])
	}

	// owner shares it with a@example.com at view permission
	rec = owner.do("POST", "/api/projects/"+project.ID+"/sharing", map[string]string{
		"email":            "a@example.com",
		"permission_level": "view",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("share: %d %s", rec.Code, rec.Body.String())
	}

	// the invitee sees one pending invitation for Sprint 1
	rec = invitee.do("GET", "/api/user/invitations", nil)
	var invitations []db.PendingInvitation
	invitee.decode(rec, &invitations)
	if len(invitations) != 1 {
		t.Fatalf("expected 1 invitation, got %+v", invitations)
	}
	if invitations[0].ProjectID != project.ID || invitations[0].PermissionLevel != db.PermissionView {
		t.Fatalf("unexpected invitation: %+v", invitations[0])
	}

	// accept it
	rec = invitee.do("POST", "/api/user/invitations/"+invitations[0].ID, map[string]bool{"accept": true})
	if rec.Code != http.StatusNoContent {
		t.Fatalf("accept: %d %s", rec.Code, rec.Body.String())
	}

	// the shared project is now listed and live
	rec = invitee.do("GET", "/api/user/shared-projects", nil)
	var shared []map[string]interface{}
	invitee.decode(rec, &shared)
	if len(shared) != 1 {
		t.Fatalf("expected 1 shared project, got %+v", shared)
	}
	if shared[0]["is_deleted"] == true {
		t.Fatal("live project must not be flagged deleted")
	}
	if shared[0]["permission_level"] != "view" {
		t.Fatalf("permission = %v", shared[0]["permission_level"])
	}

	// view permission must not allow writes
	rec = invitee.do("POST", "/api/projects/"+project.ID+"/tasks", map[string]string{"title": "sneaky"})
	if rec.Code != http.StatusForbidden {
		t.Fatalf("viewer write: %d, want 403", rec.Code)
	}

	// but reading is fine
	rec = invitee.do("GET", "/api/projects/"+project.ID+"/tasks", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("viewer read: %d", rec.Code)
	}

	// owner deletes the project out from under the share
	rec = owner.do("DELETE", "/api/projects/"+project.ID, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete: %d %s", rec.Code, rec.Body.String())
	}

	// the share survives as a placeholder entry
	rec = invitee.do("GET", "/api/user/shared-projects", nil)
	invitee.decode(rec, &shared)
	if len(shared) != 1 {
		t.Fatalf("expected 1 placeholder entry, got %+v", shared)
	}
	if shared[0]["is_deleted"] != true || shared[0]["is_placeholder"] != true {
		t.Fatalf("expected placeholder flags, got %+v", shared[0])
	}
	if shared[0]["title"] != "Shared by o" {
		t.Fatalf("placeholder title = %v", shared[0]["title"])
	}
}

func TestAuthRequired(t *testing.T) {
	router := newRouterForTest(t)

	c := &apiClient{t: t, router: router}
	rec := c.do("GET", "/api/projects", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	router := newRouterForTest(t)
	registerUser(t, router, "o@example.com", "Owner")

	c := &apiClient{t: t, router: router}
	rec := c.do("POST", "/api/auth/login", map[string]string{
		"email":    "o@example.com",
		"password": "wrong",
	})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}
