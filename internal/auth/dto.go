package auth

import (
	"github.com/google/uuid"

	"github.com/otoservis/otoservis-backend/internal/users"
	"github.com/otoservis/otoservis-backend/pkg/enums"
)

// LoginRequest captures the user credentials sent to the login endpoint.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// BranchSummary describes the branch metadata returned after login.
type BranchSummary struct {
	ID   uuid.UUID        `json:"id"`
	Name string           `json:"name"`
	Code string           `json:"code"`
	Role enums.MemberRole `json:"role"`
}

// LoginResponse contains the tokens, user, and branch list produced by a successful login.
type LoginResponse struct {
	AccessToken  string          `json:"access_token"`
	RefreshToken string          `json:"refresh_token"`
	Branches     []BranchSummary `json:"branches"`
	User         *users.UserDTO  `json:"user"`
}
