package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/otoservis/otoservis-backend/pkg/enums"
)

// BranchMembership links a user with a branch and captures their role there.
type BranchMembership struct {
	ID        uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	BranchID  uuid.UUID        `gorm:"column:branch_id;type:uuid;not null;uniqueIndex:idx_branch_memberships_branch_user"`
	UserID    uuid.UUID        `gorm:"column:user_id;type:uuid;not null;uniqueIndex:idx_branch_memberships_branch_user"`
	Role      enums.MemberRole `gorm:"column:role;type:member_role;not null"`
	IsActive  bool             `gorm:"column:is_active;not null;default:true"`
	CreatedAt time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
