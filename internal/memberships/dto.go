package memberships

import (
	"time"

	"github.com/google/uuid"

	"github.com/otoservis/otoservis-backend/pkg/db/models"
	"github.com/otoservis/otoservis-backend/pkg/enums"
)

// MembershipDTO is the transport shape for a raw membership record.
type MembershipDTO struct {
	ID        uuid.UUID        `json:"id"`
	BranchID  uuid.UUID        `json:"branch_id"`
	UserID    uuid.UUID        `json:"user_id"`
	Role      enums.MemberRole `json:"role"`
	IsActive  bool             `json:"is_active"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// MembershipWithBranch includes basic branch metadata + membership info.
type MembershipWithBranch struct {
	MembershipID uuid.UUID        `json:"membership_id"`
	BranchID     uuid.UUID        `json:"branch_id"`
	UserID       uuid.UUID        `json:"user_id"`
	BranchName   string           `json:"branch_name"`
	BranchCode   string           `json:"branch_code"`
	Role         enums.MemberRole `json:"role"`
	IsActive     bool             `json:"is_active"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

// BranchUserDTO mixes membership metadata with the associated user profile for branch admins.
type BranchUserDTO struct {
	MembershipID uuid.UUID        `json:"membership_id"`
	BranchID     uuid.UUID        `json:"branch_id"`
	UserID       uuid.UUID        `json:"user_id"`
	Email        string           `json:"email"`
	FullName     string           `json:"full_name"`
	Role         enums.MemberRole `json:"role"`
	IsActive     bool             `json:"is_active"`
	CreatedAt    time.Time        `json:"created_at"`
	LastLoginAt  *time.Time       `json:"last_login_at,omitempty"`
}

// ToDTO converts a model to the external DTO.
func ToDTO(m *models.BranchMembership) *MembershipDTO {
	if m == nil {
		return nil
	}

	return &MembershipDTO{
		ID:        m.ID,
		BranchID:  m.BranchID,
		UserID:    m.UserID,
		Role:      m.Role,
		IsActive:  m.IsActive,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}
