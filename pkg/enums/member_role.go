package enums

import "fmt"

// MemberRole represents a branch-level permissions role.
type MemberRole string

const (
	MemberRoleAdmin   MemberRole = "ADMIN"
	MemberRoleManager MemberRole = "MANAGER"
	MemberRoleTech    MemberRole = "TECH"
	MemberRoleWash    MemberRole = "WASH"
)

var validMemberRoles = []MemberRole{
	MemberRoleAdmin,
	MemberRoleManager,
	MemberRoleTech,
	MemberRoleWash,
}

// AdminRanks are the roles allowed to price, close, and report on work orders.
var AdminRanks = []MemberRole{MemberRoleAdmin, MemberRoleManager}

// WorkerRanks are the shop-floor roles that advance work orders without seeing prices.
var WorkerRanks = []MemberRole{MemberRoleTech, MemberRoleWash}

// String implements fmt.Stringer.
func (m MemberRole) String() string {
	return string(m)
}

// IsValid reports whether the value is a known MemberRole.
func (m MemberRole) IsValid() bool {
	for _, candidate := range validMemberRoles {
		if candidate == m {
			return true
		}
	}
	return false
}

// IsAdminRank reports whether the role may perform admin-only branch operations.
func (m MemberRole) IsAdminRank() bool {
	return m == MemberRoleAdmin || m == MemberRoleManager
}

// IsWorkerRank reports whether the role belongs to the shop-floor flow.
func (m MemberRole) IsWorkerRank() bool {
	return m == MemberRoleTech || m == MemberRoleWash
}

// ParseMemberRole converts raw input into a MemberRole.
func ParseMemberRole(value string) (MemberRole, error) {
	for _, candidate := range validMemberRoles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid member role %q", value)
}
