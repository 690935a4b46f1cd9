// Package workspace holds the workspace entity and membership records.
package workspace

import "time"

// WorkspaceType controls workspace visibility.
type WorkspaceType string

const (
	TypePrivate WorkspaceType = "PRIVATE"
	TypePublic  WorkspaceType = "PUBLIC"
	// TypeDefault marks the workspace every user gets at signup; it cannot
	// be deleted.
	TypeDefault WorkspaceType = "DEFAULT"
)

// Workspace groups tasks and members under one owner.
type Workspace struct {
	ID          string        `gorm:"primaryKey;type:text" json:"id"`
	Name        string        `gorm:"not null" json:"name"`
	Description string        `json:"description"`
	EntryCode   string        `gorm:"uniqueIndex;not null" json:"entry_code"`
	OwnerID     string        `gorm:"not null;index" json:"owner_id"`
	Type        WorkspaceType `gorm:"not null" json:"type"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// TableName returns the table name for the Workspace entity.
func (Workspace) TableName() string {
	return "workspaces"
}

// Member links a user to a workspace. The owner is always a member.
type Member struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	WorkspaceID string    `gorm:"not null;uniqueIndex:idx_members_workspace_user;index" json:"workspace_id"`
	UserID      string    `gorm:"not null;uniqueIndex:idx_members_workspace_user;index" json:"user_id"`
	JoinedAt    time.Time `json:"joined_at"`
}

// TableName returns the table name for the Member entity.
func (Member) TableName() string {
	return "workspace_members"
}
