package memberships

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/otoservis/otoservis-backend/pkg/db/models"
	"github.com/otoservis/otoservis-backend/pkg/enums"
)

// Repository exposes membership persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds the repo to the provided GORM connection.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListUserBranches returns the branches a user belongs to along with membership metadata.
func (r *Repository) ListUserBranches(ctx context.Context, userID uuid.UUID) ([]MembershipWithBranch, error) {
	var rows []membershipWithBranchRow

	err := r.db.WithContext(ctx).
		Model(&models.BranchMembership{}).
		Select("branch_memberships.*, branches.name AS branch_name, branches.code AS branch_code").
		Joins("JOIN branches ON branches.id = branch_memberships.branch_id").
		Where("branch_memberships.user_id = ? AND branch_memberships.is_active", userID).
		Order("branches.name").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	return membershipRowsToDTO(rows), nil
}

// GetMembership retrieves a membership by user and branch.
func (r *Repository) GetMembership(ctx context.Context, userID, branchID uuid.UUID) (*models.BranchMembership, error) {
	var membership models.BranchMembership
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND branch_id = ?", userID, branchID).
		First(&membership).Error
	if err != nil {
		return nil, err
	}
	return &membership, nil
}

// CreateMembership persists a new membership record.
func (r *Repository) CreateMembership(ctx context.Context, branchID, userID uuid.UUID, role enums.MemberRole) (*models.BranchMembership, error) {
	if !role.IsValid() {
		return nil, fmt.Errorf("invalid member role %q", role)
	}

	membership := &models.BranchMembership{
		BranchID: branchID,
		UserID:   userID,
		Role:     role,
		IsActive: true,
	}

	if err := r.db.WithContext(ctx).Create(membership).Error; err != nil {
		return nil, err
	}
	return membership, nil
}

// UpdateMembershipRole changes the role on an existing membership.
func (r *Repository) UpdateMembershipRole(ctx context.Context, membershipID uuid.UUID, role enums.MemberRole) error {
	if !role.IsValid() {
		return fmt.Errorf("invalid member role %q", role)
	}
	return r.db.WithContext(ctx).
		Model(&models.BranchMembership{}).
		Where("id = ?", membershipID).
		UpdateColumn("role", role).Error
}

// DeactivateMembership soft-disables a membership without deleting history.
func (r *Repository) DeactivateMembership(ctx context.Context, membershipID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.BranchMembership{}).
		Where("id = ?", membershipID).
		UpdateColumn("is_active", false).Error
}

// UserHasRole reports whether the user holds one of the provided roles for the branch.
func (r *Repository) UserHasRole(ctx context.Context, userID, branchID uuid.UUID, roles ...enums.MemberRole) (bool, error) {
	if len(roles) == 0 {
		return false, nil
	}

	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.BranchMembership{}).
		Where("user_id = ? AND branch_id = ? AND is_active AND role IN ?", userID, branchID, roles).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// GetMembershipWithBranch returns membership details joined with branch metadata.
func (r *Repository) GetMembershipWithBranch(ctx context.Context, userID, branchID uuid.UUID) (*MembershipWithBranch, error) {
	var row membershipWithBranchRow
	err := r.db.WithContext(ctx).
		Model(&models.BranchMembership{}).
		Select("branch_memberships.*, branches.name AS branch_name, branches.code AS branch_code").
		Joins("JOIN branches ON branches.id = branch_memberships.branch_id").
		Where("branch_memberships.user_id = ? AND branch_memberships.branch_id = ?", userID, branchID).
		Scan(&row).Error
	if err != nil {
		return nil, err
	}
	dto := membershipWithBranchFromRow(row)
	return &dto, nil
}

// ListBranchUsers returns memberships for the branch along with user metadata.
func (r *Repository) ListBranchUsers(ctx context.Context, branchID uuid.UUID) ([]BranchUserDTO, error) {
	var rows []branchUserRow
	err := r.db.WithContext(ctx).
		Model(&models.BranchMembership{}).
		Select("branch_memberships.*, users.email, users.full_name, users.last_login_at").
		Joins("JOIN users ON users.id = branch_memberships.user_id").
		Where("branch_memberships.branch_id = ?", branchID).
		Order("branch_memberships.created_at").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return branchUsersFromRows(rows), nil
}

// ListBranches returns every branch, active first.
func (r *Repository) ListBranches(ctx context.Context) ([]models.Branch, error) {
	var branches []models.Branch
	err := r.db.WithContext(ctx).
		Order("is_active DESC, name ASC").
		Find(&branches).Error
	if err != nil {
		return nil, err
	}
	return branches, nil
}
