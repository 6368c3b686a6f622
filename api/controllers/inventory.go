package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/otoservis/otoservis-backend/api/responses"
	"github.com/otoservis/otoservis-backend/api/validators"
	inventorysvc "github.com/otoservis/otoservis-backend/internal/inventory"
	pkgerrors "github.com/otoservis/otoservis-backend/pkg/errors"
	"github.com/otoservis/otoservis-backend/pkg/logger"
)

// ListParts returns the part catalog for the active branch with computed stock.
func ListParts(svc inventorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
			return
		}

		branchID, err := requireBranchID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		parts, err := svc.ListParts(r.Context(), branchID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"items": parts})
	}
}

// GetPart returns one part with its stock and recent ledger moves.
func GetPart(svc inventorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
			return
		}

		branchID, err := requireBranchID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		partID, err := pathUUID(chi.URLParam(r, "partID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		part, err := svc.GetPart(r.Context(), branchID, partID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		moves, err := svc.ListStockMoves(r.Context(), branchID, partID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{
			"part":  part,
			"moves": moves,
		})
	}
}

// CreatePart registers a catalog part; a missing barcode gets a synthetic one.
func CreatePart(svc inventorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
			return
		}

		branchID, err := requireBranchID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body inventorysvc.CreatePartRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		part, err := svc.CreatePart(r.Context(), branchID, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, part)
	}
}

// EditPart applies a partial catalog edit with lenient price parsing.
func EditPart(svc inventorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
			return
		}

		branchID, err := requireBranchID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		partID, err := pathUUID(chi.URLParam(r, "partID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body inventorysvc.UpdatePartRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		part, err := svc.UpdatePart(r.Context(), branchID, partID, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, part)
	}
}

// StockIn appends an IN move to the part's ledger.
func StockIn(svc inventorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
			return
		}

		branchID, err := requireBranchID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		userID, err := requireUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		partID, err := pathUUID(chi.URLParam(r, "partID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body inventorysvc.StockInRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.StockIn(r.Context(), branchID, partID, userID, body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		part, err := svc.GetPart(r.Context(), branchID, partID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, part)
	}
}

// SearchParts powers the attach-part typeahead with computed stock per match.
func SearchParts(svc inventorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
			return
		}

		branchID, err := requireBranchID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		q := strings.TrimSpace(r.URL.Query().Get("q"))
		matches, err := svc.SearchParts(r.Context(), branchID, q)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"items": matches})
	}
}

// LowStockParts lists catalog parts whose stock fell under their minimum.
func LowStockParts(svc inventorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
			return
		}

		branchID, err := requireBranchID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		parts, err := svc.LowStockParts(r.Context(), branchID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"items": parts})
	}
}
