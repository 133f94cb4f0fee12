package sharing

import (
	"context"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/taskcanvas/taskcanvas/db"
	"github.com/taskcanvas/taskcanvas/pkg/notify"
)

// ListSharedProjects returns one entry per accepted sharing record for the
// user. Shares whose project was deleted become placeholder entries instead
// of being dropped, so the list always maps 1:1 onto sharing records. When
// any placeholder was produced a single aggregate warning is emitted.
func (s *Service) ListSharedProjects(ctx context.Context, userID string) []db.SharedProjectEntry {
	var sharings []db.ProjectSharing
	err := s.run(ctx, func(ctx context.Context) error {
		var err error
		sharings, err = s.store.GetSharingsForUser(userID, db.InvitationAccepted)
		return err
	})
	if err != nil {
		log.WithError(err).WithField("user", userID).Error("failed to list shared projects")
		notify.Error(s.notifier, "Failed to load shared projects", "Something went wrong. Please try again later.")
		return []db.SharedProjectEntry{}
	}

	if len(sharings) == 0 {
		return []db.SharedProjectEntry{}
	}

	projectIDs := make([]string, 0, len(sharings))
	for _, sharing := range sharings {
		projectIDs = append(projectIDs, sharing.ProjectID)
	}

	var projects []db.ProjectWithCounts
	err = s.run(ctx, func(ctx context.Context) error {
		var err error
		projects, err = s.store.GetProjectsByIDs(projectIDs)
		return err
	})
	if err != nil {
		log.WithError(err).WithField("user", userID).Error("failed to load shared project rows")
		notify.Error(s.notifier, "Failed to load shared projects", "Something went wrong. Please try again later.")
		return []db.SharedProjectEntry{}
	}

	byID := make(map[string]db.ProjectWithCounts, len(projects))
	for _, project := range projects {
		byID[project.ID] = project
	}

	entries := make([]db.SharedProjectEntry, 0, len(sharings))
	var placeholders int
	for _, sharing := range sharings {
		ownerEmail := s.ownerEmail(sharing.OwnerID)

		if project, exists := byID[sharing.ProjectID]; exists {
			entries = append(entries, db.AvailableProject{
				ProjectWithCounts: project,
				SharingID:         sharing.ID,
				PermissionLevel:   sharing.PermissionLevel,
				OwnerEmail:        ownerEmail,
			})
			continue
		}

		placeholders++
		entries = append(entries, db.UnavailableProject{
			ProjectID:       sharing.ProjectID,
			Title:           "Shared by " + emailLocalPart(ownerEmail),
			OwnerID:         sharing.OwnerID,
			SharingID:       sharing.ID,
			PermissionLevel: sharing.PermissionLevel,
			OwnerEmail:      ownerEmail,
			IsDeleted:       true,
			IsPlaceholder:   true,
		})
	}

	if placeholders > 0 {
		notify.Warning(s.notifier, "Some shared projects are unavailable",
			fmt.Sprintf("%d shared project(s) no longer exist.", placeholders))
	}
	return entries
}

func (s *Service) ownerEmail(ownerID string) string {
	owner, err := s.store.GetUser(ownerID)
	if err != nil {
		return "unknown"
	}
	return owner.Email
}

func emailLocalPart(email string) string {
	if at := strings.Index(email, "@"); at > 0 {
		return email[:at]
	}
	return email
}
