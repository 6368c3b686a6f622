package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/otoservis/otoservis-backend/api/middleware"
	pkgerrors "github.com/otoservis/otoservis-backend/pkg/errors"
)

// requireBranchID pulls the active branch out of the request context.
func requireBranchID(r *http.Request) (uuid.UUID, error) {
	raw := middleware.BranchIDFromContext(r.Context())
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeForbidden, "branch context missing")
	}
	branchID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid branch id")
	}
	return branchID, nil
}

// requireUserID pulls the authenticated user out of the request context.
func requireUserID(r *http.Request) (uuid.UUID, error) {
	raw := middleware.UserIDFromContext(r.Context())
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing")
	}
	userID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid user id")
	}
	return userID, nil
}

// pathUUID parses a chi URL parameter as a UUID.
func pathUUID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid id")
	}
	return id, nil
}
