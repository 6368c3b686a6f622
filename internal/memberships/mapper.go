package memberships

import (
	"time"

	"github.com/otoservis/otoservis-backend/pkg/db/models"
)

type membershipWithBranchRow struct {
	models.BranchMembership
	BranchName string `gorm:"column:branch_name"`
	BranchCode string `gorm:"column:branch_code"`
}

func membershipWithBranchFromRow(row membershipWithBranchRow) MembershipWithBranch {
	return MembershipWithBranch{
		MembershipID: row.ID,
		BranchID:     row.BranchID,
		UserID:       row.UserID,
		BranchName:   row.BranchName,
		BranchCode:   row.BranchCode,
		Role:         row.Role,
		IsActive:     row.IsActive,
		CreatedAt:    row.CreatedAt,
		UpdatedAt:    row.UpdatedAt,
	}
}

func membershipRowsToDTO(rows []membershipWithBranchRow) []MembershipWithBranch {
	out := make([]MembershipWithBranch, 0, len(rows))
	for _, row := range rows {
		out = append(out, membershipWithBranchFromRow(row))
	}
	return out
}

type branchUserRow struct {
	models.BranchMembership
	Email       string     `gorm:"column:email"`
	FullName    string     `gorm:"column:full_name"`
	LastLoginAt *time.Time `gorm:"column:last_login_at"`
}

func branchUsersFromRows(rows []branchUserRow) []BranchUserDTO {
	out := make([]BranchUserDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, BranchUserDTO{
			MembershipID: row.ID,
			BranchID:     row.BranchID,
			UserID:       row.UserID,
			Email:        row.Email,
			FullName:     row.FullName,
			Role:         row.Role,
			IsActive:     row.IsActive,
			CreatedAt:    row.CreatedAt,
			LastLoginAt:  row.LastLoginAt,
		})
	}
	return out
}
