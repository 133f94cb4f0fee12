package db

// SharedProjectEntry is one entry in a user's shared-projects list. There is
// exactly one entry per accepted sharing record, whether or not the referenced
// project still exists, so the UI can always operate on the sharing id (e.g.
// to leave a share whose project was deleted).
type SharedProjectEntry interface {
	// EntrySharingID returns the sharing record this entry represents.
	EntrySharingID() string
	// EntryPermission returns the permission the share grants.
	EntryPermission() PermissionLevel
	// Placeholder reports whether the underlying project no longer exists.
	Placeholder() bool
}

// AvailableProject is a shared project whose row still exists.
type AvailableProject struct {
	ProjectWithCounts
	SharingID       string          `json:"sharing_id"`
	PermissionLevel PermissionLevel `json:"permission_level"`
	OwnerEmail      string          `json:"owner_email"`
	IsDeleted       bool            `json:"is_deleted"`
}

func (p AvailableProject) EntrySharingID() string           { return p.SharingID }
func (p AvailableProject) EntryPermission() PermissionLevel { return p.PermissionLevel }
func (p AvailableProject) Placeholder() bool                { return false }

// UnavailableProject stands in for a share whose project was deleted.
type UnavailableProject struct {
	ProjectID       string          `json:"id"`
	Title           string          `json:"title"`
	Description     string          `json:"description"`
	OwnerID         string          `json:"user_id"`
	SharingID       string          `json:"sharing_id"`
	PermissionLevel PermissionLevel `json:"permission_level"`
	OwnerEmail      string          `json:"owner_email"`
	NoteCount       int             `json:"note_count"`
	TaskCount       int             `json:"task_count"`
	IsDeleted       bool            `json:"is_deleted"`
	IsPlaceholder   bool            `json:"is_placeholder"`
}

func (p UnavailableProject) EntrySharingID() string           { return p.SharingID }
func (p UnavailableProject) EntryPermission() PermissionLevel { return p.PermissionLevel }
func (p UnavailableProject) Placeholder() bool                { return true }
