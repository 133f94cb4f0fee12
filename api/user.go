package api

import (
	"net/http"

	"github.com/taskcanvas/taskcanvas/api/helpers"
	"github.com/taskcanvas/taskcanvas/pkg/notify"
	"github.com/taskcanvas/taskcanvas/services/sharing"
)

// getInvitations returns the caller's pending invitations.
func getInvitations(w http.ResponseWriter, r *http.Request) {
	user := helpers.UserFromContext(r)

	service := sharing.NewService(helpers.Store(r), notify.LogNotifier{})
	helpers.WriteJSON(w, http.StatusOK, service.ListPendingInvitations(r.Context(), user.ID))
}

// respondToInvitation accepts or rejects an invitation addressed to the
// caller.
func respondToInvitation(w http.ResponseWriter, r *http.Request) {
	user := helpers.UserFromContext(r)

	sharingID, err := helpers.GetStrParam("sharing_id", w, r)
	if err != nil {
		return
	}

	var request struct {
		Accept bool `json:"accept"`
	}
	if !helpers.Bind(w, r, &request) {
		return
	}

	recorder := &notify.Recorder{}
	service := sharing.NewService(helpers.Store(r), recorder)

	if !service.RespondToInvitation(r.Context(), sharingID, user.ID, request.Accept) {
		message := "operation failed"
		if n := len(recorder.Notifications); n > 0 {
			message = recorder.Notifications[n-1].Description
		}
		helpers.WriteErrorStatus(w, message, http.StatusForbidden)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// getSharedProjects returns the caller's accepted shares, with placeholder
// entries for projects that no longer exist.
func getSharedProjects(w http.ResponseWriter, r *http.Request) {
	user := helpers.UserFromContext(r)

	service := sharing.NewService(helpers.Store(r), notify.LogNotifier{})
	helpers.WriteJSON(w, http.StatusOK, service.ListSharedProjects(r.Context(), user.ID))
}
