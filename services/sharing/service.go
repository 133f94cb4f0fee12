// Package sharing resolves who a project is shared with, pending
// invitations, accept/reject transitions, and the shared-projects list with
// placeholders for deleted projects.
package sharing

import (
	"context"
	"errors"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/taskcanvas/taskcanvas/db"
	"github.com/taskcanvas/taskcanvas/pkg/backoff"
	"github.com/taskcanvas/taskcanvas/pkg/notify"
)

type Service struct {
	store    db.Store
	notifier notify.Notifier
	retry    backoff.Options
}

func NewService(store db.Store, notifier notify.Notifier) *Service {
	return &Service{
		store:    store,
		notifier: notifier,
		retry:    backoff.Options{Permanent: db.IsInvalidInput},
	}
}

func (s *Service) run(ctx context.Context, op func(ctx context.Context) error) error {
	return backoff.Retry(ctx, op, s.retry)
}

// ListSharedUsers returns the project's sharing records joined with the
// shared-with user's email, newest first. Failures notify and return an
// empty list.
func (s *Service) ListSharedUsers(ctx context.Context, projectID string) []db.ProjectSharingWithEmail {
	var sharings []db.ProjectSharingWithEmail

	err := s.run(ctx, func(ctx context.Context) error {
		var err error
		sharings, err = s.store.GetProjectSharings(projectID)
		return err
	})
	if err != nil {
		log.WithError(err).WithField("project", projectID).Error("failed to list shared users")
		notify.Error(s.notifier, "Failed to load shared users", "Something went wrong. Please try again later.")
		return []db.ProjectSharingWithEmail{}
	}
	return sharings
}

// Share invites the user behind email to the project at the given
// permission. Only the project owner may share; sharing with yourself is
// rejected. An existing share for the same user is updated to the new
// permission and reset to pending.
func (s *Service) Share(ctx context.Context, projectID, ownerID, email string, permission db.PermissionLevel) bool {
	if !permission.IsValid() {
		notify.Error(s.notifier, "Failed to share project", fmt.Sprintf("Invalid permission level %q.", permission))
		return false
	}

	var project db.Project
	err := s.run(ctx, func(ctx context.Context) error {
		var err error
		project, err = s.store.GetProject(projectID)
		return err
	})
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			notify.Error(s.notifier, "Failed to share project", "Project not found.")
		} else {
			notify.Error(s.notifier, "Failed to share project", "Something went wrong. Please try again later.")
		}
		return false
	}

	if project.UserID != ownerID {
		notify.Error(s.notifier, "Failed to share project", "Only the project owner can share it.")
		return false
	}

	var target db.User
	err = s.run(ctx, func(ctx context.Context) error {
		var err error
		target, err = s.store.GetUserByEmail(email)
		return err
	})
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			notify.Error(s.notifier, "Failed to share project", fmt.Sprintf("No user found with email %s.", strings.TrimSpace(email)))
		} else {
			notify.Error(s.notifier, "Failed to share project", "Something went wrong. Please try again later.")
		}
		return false
	}

	if target.ID == ownerID {
		notify.Error(s.notifier, "Failed to share project", "You cannot share a project with yourself.")
		return false
	}

	if err := s.upsertSharing(ctx, projectID, ownerID, target.ID, permission); err != nil {
		log.WithError(err).WithFields(log.Fields{
			"project": projectID,
			"target":  target.ID,
		}).Error("failed to share project")
		notify.Error(s.notifier, "Failed to share project", "Something went wrong. Please try again later.")
		return false
	}

	notify.Info(s.notifier, "Project shared", fmt.Sprintf("Invitation sent to %s.", target.Email))
	return true
}

// upsertSharing updates the existing (project, user) share if one exists,
// otherwise inserts a new pending one. An insert losing the race to a
// concurrent share surfaces as ErrConflict and retries as an update.
func (s *Service) upsertSharing(ctx context.Context, projectID, ownerID, targetID string, permission db.PermissionLevel) error {
	existing, found, err := s.findSharing(ctx, projectID, targetID)
	if err != nil {
		return err
	}

	if found {
		return s.resetSharing(ctx, existing, permission)
	}

	err = s.run(ctx, func(ctx context.Context) error {
		_, err := s.store.CreateProjectSharing(db.ProjectSharing{
			ProjectID:       projectID,
			OwnerID:         ownerID,
			SharedWithID:    targetID,
			PermissionLevel: permission,
			Status:          db.InvitationPending,
		})
		return err
	})
	if errors.Is(err, db.ErrConflict) {
		existing, found, err = s.findSharing(ctx, projectID, targetID)
		if err != nil {
			return err
		}
		if !found {
			return fmt.Errorf("sharing conflict for project %s but no record found", projectID)
		}
		return s.resetSharing(ctx, existing, permission)
	}
	return err
}

func (s *Service) findSharing(ctx context.Context, projectID, targetID string) (sharing db.ProjectSharing, found bool, err error) {
	err = s.run(ctx, func(ctx context.Context) error {
		sharings, err := s.store.GetProjectSharings(projectID)
		if err != nil {
			return err
		}
		for _, existing := range sharings {
			if existing.SharedWithID == targetID {
				sharing = existing.ProjectSharing
				found = true
				return nil
			}
		}
		return nil
	})
	return
}

func (s *Service) resetSharing(ctx context.Context, sharing db.ProjectSharing, permission db.PermissionLevel) error {
	sharing.PermissionLevel = permission
	sharing.Status = db.InvitationPending
	return s.run(ctx, func(ctx context.Context) error {
		return s.store.UpdateProjectSharing(sharing)
	})
}

// RemoveSharing deletes a sharing record. Only the owner of the referenced
// project may remove it; the check uses the sharing row's owner id so shares
// of deleted projects can still be removed.
func (s *Service) RemoveSharing(ctx context.Context, sharingID, callerID string) bool {
	var sharing db.ProjectSharing
	err := s.run(ctx, func(ctx context.Context) error {
		var err error
		sharing, err = s.store.GetProjectSharing(sharingID)
		return err
	})
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			notify.Error(s.notifier, "Failed to remove sharing", "Sharing record not found.")
		} else {
			notify.Error(s.notifier, "Failed to remove sharing", "Something went wrong. Please try again later.")
		}
		return false
	}

	if sharing.OwnerID != callerID {
		notify.Error(s.notifier, "Failed to remove sharing", "Only the project owner can remove sharing.")
		return false
	}

	err = s.run(ctx, func(ctx context.Context) error {
		return s.store.DeleteProjectSharing(sharingID)
	})
	if err != nil {
		notify.Error(s.notifier, "Failed to remove sharing", "Something went wrong. Please try again later.")
		return false
	}
	return true
}

// ListPendingInvitations returns the user's pending invitations enriched
// with project and owner details. Enrichment is best-effort: missing rows
// degrade the display fields instead of failing the list.
func (s *Service) ListPendingInvitations(ctx context.Context, userID string) []db.PendingInvitation {
	var sharings []db.ProjectSharing
	err := s.run(ctx, func(ctx context.Context) error {
		var err error
		sharings, err = s.store.GetSharingsForUser(userID, db.InvitationPending)
		return err
	})
	if err != nil {
		log.WithError(err).WithField("user", userID).Error("failed to list invitations")
		notify.Error(s.notifier, "Failed to load invitations", "Something went wrong. Please try again later.")
		return []db.PendingInvitation{}
	}

	invitations := make([]db.PendingInvitation, 0, len(sharings))
	for _, sharing := range sharings {
		invitation := db.PendingInvitation{
			ID:              sharing.ID,
			ProjectID:       sharing.ProjectID,
			OwnerID:         sharing.OwnerID,
			OwnerEmail:      "Unknown sender",
			PermissionLevel: sharing.PermissionLevel,
			ProjectTitle:    "Project ID: " + idPrefix(sharing.ProjectID),
			Created:         sharing.Created,
		}

		if project, err := s.store.GetProject(sharing.ProjectID); err == nil {
			invitation.ProjectTitle = project.Title
			invitation.ProjectDescription = project.Description
		}
		if owner, err := s.store.GetUser(sharing.OwnerID); err == nil {
			invitation.OwnerEmail = owner.Email
		}

		invitations = append(invitations, invitation)
	}
	return invitations
}

// RespondToInvitation accepts or rejects an invitation. The caller must be
// the invited user.
func (s *Service) RespondToInvitation(ctx context.Context, invitationID, userID string, accept bool) bool {
	var sharing db.ProjectSharing
	err := s.run(ctx, func(ctx context.Context) error {
		var err error
		sharing, err = s.store.GetProjectSharing(invitationID)
		return err
	})
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			notify.Error(s.notifier, "Failed to respond to invitation", "Invitation not found.")
		} else {
			notify.Error(s.notifier, "Failed to respond to invitation", "Something went wrong. Please try again later.")
		}
		return false
	}

	if sharing.SharedWithID != userID {
		notify.Error(s.notifier, "Failed to respond to invitation", "This invitation is not addressed to you.")
		return false
	}

	if accept {
		sharing.Status = db.InvitationAccepted
	} else {
		sharing.Status = db.InvitationRejected
	}

	err = s.run(ctx, func(ctx context.Context) error {
		return s.store.UpdateProjectSharing(sharing)
	})
	if err != nil {
		notify.Error(s.notifier, "Failed to respond to invitation", "Something went wrong. Please try again later.")
		return false
	}

	if accept {
		notify.Info(s.notifier, "Invitation accepted", "The project is now in your shared projects.")
	} else {
		notify.Info(s.notifier, "Invitation rejected", "The invitation was declined.")
	}
	return true
}

func idPrefix(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
