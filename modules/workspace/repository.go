package workspace

import (
	"errors"
	"fmt"
	"time"

	domain "github.com/example/taskbuddy/domain/workspace"
	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when a workspace is not found.
	ErrNotFound = errors.New("workspace not found")
	// ErrNameTaken is returned when the owner already has a workspace with
	// the same name.
	ErrNameTaken = errors.New("workspace name already exists for this user")
)

// Repository provides access to workspace and membership storage.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new workspace repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create saves a workspace and registers the owner as its first member in
// one transaction.
func (r *Repository) Create(ws *domain.Workspace) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(ws).Error; err != nil {
			return fmt.Errorf("failed to create workspace: %w", err)
		}
		member := domain.Member{
			WorkspaceID: ws.ID,
			UserID:      ws.OwnerID,
			JoinedAt:    ws.CreatedAt,
		}
		if err := tx.Create(&member).Error; err != nil {
			return fmt.Errorf("failed to add owner as member: %w", err)
		}
		return nil
	})
}

// FindByID retrieves a workspace by its ID.
func (r *Repository) FindByID(id string) (*domain.Workspace, error) {
	var ws domain.Workspace
	if err := r.db.First(&ws, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find workspace: %w", err)
	}
	return &ws, nil
}

// FindByIDAndEntryCode retrieves a workspace by ID and entry code.
// Both must match for an invite link to be valid.
func (r *Repository) FindByIDAndEntryCode(id, entryCode string) (*domain.Workspace, error) {
	var ws domain.Workspace
	if err := r.db.First(&ws, "id = ? AND entry_code = ?", id, entryCode).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find workspace: %w", err)
	}
	return &ws, nil
}

// NameExistsForOwner checks for a case-insensitive name collision among the
// owner's workspaces.
func (r *Repository) NameExistsForOwner(name, ownerID string) (bool, error) {
	var count int64
	err := r.db.Model(&domain.Workspace{}).
		Where("owner_id = ? AND LOWER(name) = LOWER(?)", ownerID, name).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Update persists workspace changes.
func (r *Repository) Update(ws *domain.Workspace) error {
	result := r.db.Model(&domain.Workspace{}).Where("id = ?", ws.ID).Updates(ws)
	if err := result.Error; err != nil {
		return fmt.Errorf("failed to update workspace: %w", err)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a workspace and its memberships.
func (r *Repository) Delete(id string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&domain.Member{}, "workspace_id = ?", id).Error; err != nil {
			return fmt.Errorf("failed to delete memberships: %w", err)
		}
		result := tx.Delete(&domain.Workspace{}, "id = ?", id)
		if err := result.Error; err != nil {
			return fmt.Errorf("failed to delete workspace: %w", err)
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// ListOwnedBy returns all workspaces owned by the user.
func (r *Repository) ListOwnedBy(userID string) ([]*domain.Workspace, error) {
	var workspaces []*domain.Workspace
	if err := r.db.Find(&workspaces, "owner_id = ?", userID).Error; err != nil {
		return nil, fmt.Errorf("failed to list owned workspaces: %w", err)
	}
	return workspaces, nil
}

// ListMemberOf returns all workspaces the user belongs to but does not own.
func (r *Repository) ListMemberOf(userID string) ([]*domain.Workspace, error) {
	var workspaces []*domain.Workspace
	err := r.db.
		Joins("JOIN workspace_members ON workspace_members.workspace_id = workspaces.id").
		Where("workspace_members.user_id = ? AND workspaces.owner_id <> ?", userID, userID).
		Find(&workspaces).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list member workspaces: %w", err)
	}
	return workspaces, nil
}

// IsMember checks whether the user belongs to the workspace.
func (r *Repository) IsMember(workspaceID, userID string) (bool, error) {
	var count int64
	err := r.db.Model(&domain.Member{}).
		Where("workspace_id = ? AND user_id = ?", workspaceID, userID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// AddMember registers a user as a workspace member.
func (r *Repository) AddMember(workspaceID, userID string, at time.Time) error {
	member := domain.Member{
		WorkspaceID: workspaceID,
		UserID:      userID,
		JoinedAt:    at,
	}
	return r.db.Create(&member).Error
}

// MemberIDs returns the user IDs of all workspace members.
func (r *Repository) MemberIDs(workspaceID string) ([]string, error) {
	var ids []string
	err := r.db.Model(&domain.Member{}).
		Where("workspace_id = ?", workspaceID).
		Pluck("user_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	return ids, nil
}

// CountMembers returns the number of members in a workspace.
func (r *Repository) CountMembers(workspaceID string) (int64, error) {
	var count int64
	err := r.db.Model(&domain.Member{}).
		Where("workspace_id = ?", workspaceID).
		Count(&count).Error
	return count, err
}
