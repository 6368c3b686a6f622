package middleware

import (
	"net/http"

	"github.com/otoservis/otoservis-backend/api/responses"
	pkgerrors "github.com/otoservis/otoservis-backend/pkg/errors"
	"github.com/otoservis/otoservis-backend/pkg/logger"
)

// RequireSuperuser gates platform administration endpoints such as branch and
// user management.
func RequireSuperuser(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !IsSuperuserFromContext(r.Context()) {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "superuser required"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
