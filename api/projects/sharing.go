package projects

import (
	"net/http"

	"github.com/taskcanvas/taskcanvas/api/helpers"
	"github.com/taskcanvas/taskcanvas/db"
	"github.com/taskcanvas/taskcanvas/pkg/notify"
	"github.com/taskcanvas/taskcanvas/services/sharing"
)

// GetSharings returns who the project is shared with, newest first. Owner
// only: invitees do not see each other.
func GetSharings(w http.ResponseWriter, r *http.Request) {
	access := helpers.GetFromContext(r, "access").(Access)
	if !access.IsOwner {
		helpers.WriteErrorStatus(w, "only the owner can view sharing", http.StatusForbidden)
		return
	}

	project := helpers.GetFromContext(r, "project").(db.Project)

	service := sharing.NewService(helpers.Store(r), notify.LogNotifier{})
	helpers.WriteJSON(w, http.StatusOK, service.ListSharedUsers(r.Context(), project.ID))
}

// AddSharing invites a user by email at view or edit permission.
func AddSharing(w http.ResponseWriter, r *http.Request) {
	project := helpers.GetFromContext(r, "project").(db.Project)
	user := helpers.UserFromContext(r)

	var request struct {
		Email           string             `json:"email"`
		PermissionLevel db.PermissionLevel `json:"permission_level"`
	}
	if !helpers.Bind(w, r, &request) {
		return
	}

	recorder := &notify.Recorder{}
	service := sharing.NewService(helpers.Store(r), recorder)

	if !service.Share(r.Context(), project.ID, user.ID, request.Email, request.PermissionLevel) {
		helpers.WriteErrorStatus(w, lastNotification(recorder), http.StatusBadRequest)
		return
	}

	sharings, err := helpers.Store(r).GetProjectSharings(project.ID)
	if err != nil {
		helpers.WriteError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusCreated, sharings)
}

// DeleteSharing revokes a share. Owner only, enforced by the service.
func DeleteSharing(w http.ResponseWriter, r *http.Request) {
	user := helpers.UserFromContext(r)

	sharingID, err := helpers.GetStrParam("sharing_id", w, r)
	if err != nil {
		return
	}

	recorder := &notify.Recorder{}
	service := sharing.NewService(helpers.Store(r), recorder)

	if !service.RemoveSharing(r.Context(), sharingID, user.ID) {
		helpers.WriteErrorStatus(w, lastNotification(recorder), http.StatusForbidden)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func lastNotification(recorder *notify.Recorder) string {
	if len(recorder.Notifications) == 0 {
		return "operation failed"
	}
	return recorder.Notifications[len(recorder.Notifications)-1].Description
}
