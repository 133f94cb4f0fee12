package db

import "time"

type PermissionLevel string

const (
	PermissionView PermissionLevel = "view"
	PermissionEdit PermissionLevel = "edit"
)

func (p PermissionLevel) IsValid() bool {
	return p == PermissionView || p == PermissionEdit
}

type InvitationStatus string

const (
	InvitationPending  InvitationStatus = "pending"
	InvitationAccepted InvitationStatus = "accepted"
	InvitationRejected InvitationStatus = "rejected"
)

func (s InvitationStatus) IsValid() bool {
	switch s {
	case InvitationPending, InvitationAccepted, InvitationRejected:
		return true
	default:
		return false
	}
}

// ProjectSharing grants SharedWithID access to ProjectID once accepted.
// At most one record exists per (project, shared-with user) pair; stores
// enforce this with a uniqueness constraint and return ErrConflict on a
// duplicate insert.
type ProjectSharing struct {
	ID              string           `db:"id" json:"id"`
	ProjectID       string           `db:"project_id" json:"project_id"`
	OwnerID         string           `db:"owner_id" json:"owner_id"`
	SharedWithID    string           `db:"shared_with_id" json:"shared_with_id"`
	PermissionLevel PermissionLevel  `db:"permission_level" json:"permission_level"`
	Status          InvitationStatus `db:"invitation_status" json:"invitation_status"`
	Created         time.Time        `db:"created_at" json:"created_at"`
	Updated         time.Time        `db:"updated_at" json:"updated_at"`
}

// CanRead reports whether the share currently grants read access.
func (s ProjectSharing) CanRead() bool {
	return s.Status == InvitationAccepted
}

// CanWrite reports whether the share currently grants write access.
func (s ProjectSharing) CanWrite() bool {
	return s.Status == InvitationAccepted && s.PermissionLevel == PermissionEdit
}

type ProjectSharingWithEmail struct {
	ProjectSharing
	UserEmail string `db:"user_email" json:"user_email"`
}

// PendingInvitation is a sharing row enriched with project and owner details
// for the invitee's inbox. Joins are best-effort: when the project or owner
// row is gone the display fields fall back to degraded values.
type PendingInvitation struct {
	ID                 string          `json:"id"`
	ProjectID          string          `json:"project_id"`
	OwnerID            string          `json:"owner_id"`
	OwnerEmail         string          `json:"owner_email"`
	PermissionLevel    PermissionLevel `json:"permission_level"`
	ProjectTitle       string          `json:"project_title"`
	ProjectDescription string          `json:"project_description"`
	Created            time.Time       `json:"created_at"`
}
