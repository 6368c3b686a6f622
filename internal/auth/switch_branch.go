package auth

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/otoservis/otoservis-backend/internal/memberships"
	pkgAuth "github.com/otoservis/otoservis-backend/pkg/auth"
	"github.com/otoservis/otoservis-backend/pkg/auth/session"
	"github.com/otoservis/otoservis-backend/pkg/config"
	pkgerrors "github.com/otoservis/otoservis-backend/pkg/errors"
)

// SwitchBranchInput captures the data required to switch the active branch.
type SwitchBranchInput struct {
	UserID        uuid.UUID
	BranchID      uuid.UUID
	IsSuperuser   bool
	AccessTokenID string
}

// SwitchBranchResult returns the tokens issued after switching branches.
type SwitchBranchResult struct {
	AccessToken  string
	RefreshToken string
	Branch       BranchSummary
}

type switchBranchService struct {
	memberships switchMembershipsRepository
	session     switchSessionRotator
	jwtCfg      config.JWTConfig
}

type switchMembershipsRepository interface {
	GetMembershipWithBranch(ctx context.Context, userID, branchID uuid.UUID) (*memberships.MembershipWithBranch, error)
}

type switchSessionRotator interface {
	Rotate(ctx context.Context, oldAccessID, provided string) (string, string, error)
	RefreshToken(ctx context.Context, accessID string) (string, error)
}

// SwitchBranchServiceParams bundles dependencies for the switch flow.
type SwitchBranchServiceParams struct {
	MembershipsRepo switchMembershipsRepository
	SessionManager  switchSessionRotator
	JWTConfig       config.JWTConfig
}

// NewSwitchBranchService constructs the service.
func NewSwitchBranchService(params SwitchBranchServiceParams) (SwitchBranchService, error) {
	if params.MembershipsRepo == nil {
		return nil, errors.New("memberships repository required")
	}
	if params.SessionManager == nil {
		return nil, errors.New("session manager required")
	}
	return &switchBranchService{
		memberships: params.MembershipsRepo,
		session:     params.SessionManager,
		jwtCfg:      params.JWTConfig,
	}, nil
}

// SwitchBranchService is the interface exposed to the controller.
type SwitchBranchService interface {
	Switch(ctx context.Context, input SwitchBranchInput) (*SwitchBranchResult, error)
}

func (s *switchBranchService) Switch(ctx context.Context, input SwitchBranchInput) (*SwitchBranchResult, error) {
	membership, err := s.memberships.GetMembershipWithBranch(ctx, input.UserID, input.BranchID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeForbidden, "branch membership required")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup membership")
	}
	if !membership.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "branch membership inactive")
	}

	refreshToken, err := s.session.RefreshToken(ctx, input.AccessTokenID)
	if err != nil {
		if errors.Is(err, session.ErrInvalidRefreshToken) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid session")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load refresh token")
	}

	newAccessID, newRefreshToken, err := s.session.Rotate(ctx, input.AccessTokenID, refreshToken)
	if err != nil {
		if errors.Is(err, session.ErrInvalidRefreshToken) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid refresh token")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "rotate session")
	}

	payload := pkgAuth.AccessTokenPayload{
		UserID:         input.UserID,
		ActiveBranchID: &input.BranchID,
		Role:           membership.Role,
		IsSuperuser:    input.IsSuperuser,
		JTI:            newAccessID,
	}

	accessToken, err := pkgAuth.MintAccessToken(s.jwtCfg, time.Now().UTC(), payload)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint jwt")
	}

	result := &SwitchBranchResult{
		AccessToken:  accessToken,
		RefreshToken: newRefreshToken,
		Branch: BranchSummary{
			ID:   membership.BranchID,
			Name: membership.BranchName,
			Code: membership.BranchCode,
			Role: membership.Role,
		},
	}

	return result, nil
}
