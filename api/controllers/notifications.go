package controllers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/otoservis/otoservis-backend/api/responses"
	"github.com/otoservis/otoservis-backend/api/validators"
	notificationsvc "github.com/otoservis/otoservis-backend/internal/notifications"
	pkgerrors "github.com/otoservis/otoservis-backend/pkg/errors"
	"github.com/otoservis/otoservis-backend/pkg/logger"
	"github.com/otoservis/otoservis-backend/pkg/pagination"
)

// ListNotifications returns the branch's WhatsApp dispatch audit log.
func ListNotifications(svc notificationsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "notifications service unavailable"))
			return
		}

		branchID, err := requireBranchID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		params := notificationsvc.ListParams{
			BranchID: branchID,
			Limit:    limit,
			Cursor:   strings.TrimSpace(r.URL.Query().Get("cursor")),
		}

		if raw := strings.TrimSpace(r.URL.Query().Get("work_order_id")); raw != "" {
			orderID, err := uuid.Parse(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid work_order_id"))
				return
			}
			params.WorkOrderID = &orderID
		}

		result, err := svc.List(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}
