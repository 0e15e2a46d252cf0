package middleware

import (
	"net/http"

	"github.com/worshipdesk/worshipdesk-backend/api/responses"
	"github.com/worshipdesk/worshipdesk-backend/internal/authctx"
	"github.com/worshipdesk/worshipdesk-backend/pkg/enums"
	pkgerrors "github.com/worshipdesk/worshipdesk-backend/pkg/errors"
	"github.com/worshipdesk/worshipdesk-backend/pkg/logger"
)

// RequireRole answers 401 when no user is resolved and 403 when the
// resolved roles lack role.
func RequireRole(role enums.RoleName, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			current := authctx.FromContext(r.Context())
			if !current.IsResolved() || current.User() == nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required"))
				return
			}
			if !current.HasRole(role) {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "role required"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func RequireAdministrator(logg *logger.Logger) func(http.Handler) http.Handler {
	return RequireRole(enums.RoleAdministrator, logg)
}

// RequireConfigured short-circuits privileged routes with 501 when the
// elevated store credential is absent.
func RequireConfigured(configured bool, notConfigured error, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if configured {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			responses.WriteError(r.Context(), logg, w, notConfigured)
		})
	}
}
