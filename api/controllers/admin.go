package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"gorm.io/gorm"

	"github.com/otoservis/otoservis-backend/api/responses"
	"github.com/otoservis/otoservis-backend/api/validators"
	"github.com/otoservis/otoservis-backend/internal/memberships"
	usersvc "github.com/otoservis/otoservis-backend/internal/users"
	"github.com/otoservis/otoservis-backend/pkg/config"
	"github.com/otoservis/otoservis-backend/pkg/db"
	"github.com/otoservis/otoservis-backend/pkg/enums"
	pkgerrors "github.com/otoservis/otoservis-backend/pkg/errors"
	"github.com/otoservis/otoservis-backend/pkg/logger"
	"github.com/otoservis/otoservis-backend/pkg/security"
)

type createUserRequest struct {
	Email       string  `json:"email" validate:"required,email"`
	Password    string  `json:"password" validate:"required,min=8"`
	FullName    string  `json:"full_name" validate:"required"`
	Phone       *string `json:"phone,omitempty"`
	IsSuperuser bool    `json:"is_superuser,omitempty"`
}

// CreateUser registers a staff account with an argon2id password hash.
func CreateUser(repo *usersvc.Repository, cfg config.PasswordConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if repo == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "users repository unavailable"))
			return
		}

		var body createUserRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		hash, err := security.HashPassword(body.Password, cfg)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password"))
			return
		}

		user, err := repo.Create(r.Context(), usersvc.CreateUserDTO{
			Email:        strings.ToLower(strings.TrimSpace(body.Email)),
			PasswordHash: hash,
			FullName:     strings.TrimSpace(body.FullName),
			Phone:        body.Phone,
			IsSuperuser:  body.IsSuperuser,
		})
		if err != nil {
			if db.IsUniqueViolation(err, "") {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeConflict, "email already registered"))
				return
			}
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create user"))
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, usersvc.FromModel(user))
	}
}

type createMembershipRequest struct {
	BranchID string `json:"branch_id" validate:"required,uuid"`
	Role     string `json:"role" validate:"required"`
}

// CreateMembership grants a user a role in a branch.
func CreateMembership(repo *memberships.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if repo == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "memberships repository unavailable"))
			return
		}

		userID, err := pathUUID(chi.URLParam(r, "userID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body createMembershipRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		branchID, err := pathUUID(body.BranchID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		role, err := enums.ParseMemberRole(strings.TrimSpace(body.Role))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid role"))
			return
		}

		membership, err := repo.CreateMembership(r.Context(), branchID, userID, role)
		if err != nil {
			if db.IsUniqueViolation(err, "") {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeConflict, "membership already exists"))
				return
			}
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create membership"))
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, memberships.ToDTO(membership))
	}
}

// ListBranchUsers returns the branch roster for admins.
func ListBranchUsers(repo *memberships.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if repo == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "memberships repository unavailable"))
			return
		}

		branchID, err := requireBranchID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		users, err := repo.ListBranchUsers(r.Context(), branchID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list branch users"))
			return
		}

		responses.WriteSuccess(w, map[string]any{"items": users})
	}
}

// ListBranches lists every branch for superuser administration.
func ListBranches(repo *memberships.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if repo == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "memberships repository unavailable"))
			return
		}

		branches, err := repo.ListBranches(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list branches"))
			return
		}

		responses.WriteSuccess(w, map[string]any{"items": branches})
	}
}

// GetUser returns one staff account.
func GetUser(repo *usersvc.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if repo == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "users repository unavailable"))
			return
		}

		userID, err := pathUUID(chi.URLParam(r, "userID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		user, err := repo.FindByID(r.Context(), userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "user not found"))
				return
			}
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "find user"))
			return
		}

		responses.WriteSuccess(w, usersvc.FromModel(user))
	}
}
