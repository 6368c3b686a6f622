package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/otoservis/otoservis-backend/pkg/enums"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	UserID         uuid.UUID
	ActiveBranchID *uuid.UUID
	Role           enums.MemberRole
	IsSuperuser    bool
	JTI            string
}

// AccessTokenClaims represents the typed JWT issued to clients.
type AccessTokenClaims struct {
	UserID         uuid.UUID        `json:"user_id"`
	ActiveBranchID *uuid.UUID       `json:"active_branch_id,omitempty"`
	Role           enums.MemberRole `json:"role"`
	IsSuperuser    bool             `json:"is_superuser,omitempty"`
	jwt.RegisteredClaims
}
