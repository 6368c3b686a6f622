package controllers

import (
	"net/http"
	"strings"

	"github.com/otoservis/otoservis-backend/api/responses"
	reportsvc "github.com/otoservis/otoservis-backend/internal/reports"
	pkgerrors "github.com/otoservis/otoservis-backend/pkg/errors"
	"github.com/otoservis/otoservis-backend/pkg/logger"
)

// RevenueReport returns the daily revenue series for finished work orders.
func RevenueReport(svc reportsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "reports service unavailable"))
			return
		}

		branchID, err := requireBranchID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		start := strings.TrimSpace(r.URL.Query().Get("start"))
		end := strings.TrimSpace(r.URL.Query().Get("end"))

		report, err := svc.Revenue(r.Context(), branchID, start, end)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, report)
	}
}

// ProfitReport returns the daily profit series against snapshotted part costs.
func ProfitReport(svc reportsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "reports service unavailable"))
			return
		}

		branchID, err := requireBranchID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		start := strings.TrimSpace(r.URL.Query().Get("start"))
		end := strings.TrimSpace(r.URL.Query().Get("end"))

		report, err := svc.Profit(r.Context(), branchID, start, end)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, report)
	}
}

// Dashboard returns the landing-page counters for the active branch.
func Dashboard(svc reportsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "reports service unavailable"))
			return
		}

		branchID, err := requireBranchID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dash, err := svc.Dashboard(r.Context(), branchID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, dash)
	}
}
