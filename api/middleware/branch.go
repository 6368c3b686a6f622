package middleware

import (
	"net/http"

	"github.com/otoservis/otoservis-backend/api/responses"
	pkgerrors "github.com/otoservis/otoservis-backend/pkg/errors"
	"github.com/otoservis/otoservis-backend/pkg/logger"
)

// BranchContext rejects requests whose token carries no active branch.
func BranchContext(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if BranchIDFromContext(r.Context()) == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "branch context missing"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
