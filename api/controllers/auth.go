package controllers

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/worshipdesk/worshipdesk-backend/api/middleware"
	"github.com/worshipdesk/worshipdesk-backend/api/responses"
	"github.com/worshipdesk/worshipdesk-backend/api/validators"
	"github.com/worshipdesk/worshipdesk-backend/internal/authctx"
	"github.com/worshipdesk/worshipdesk-backend/internal/identity"
	pkgerrors "github.com/worshipdesk/worshipdesk-backend/pkg/errors"
	"github.com/worshipdesk/worshipdesk-backend/pkg/logger"
)

type sessionResolver interface {
	Resolve(ctx context.Context, identityID uuid.UUID) (*authctx.Context, error)
}

// sessionResponse is the login and refresh payload.
type sessionResponse struct {
	AccessToken  string           `json:"access_token"`
	RefreshToken string           `json:"refresh_token"`
	Session      authctx.Snapshot `json:"session"`
}

// AuthLogin exchanges credentials for a token pair and the resolved session.
func AuthLogin(svc identity.Service, resolver sessionResolver, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body identity.LoginRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		tokens, err := svc.Login(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		writeSession(w, r, tokens, resolver, logg)
	}
}

// AuthRefresh rotates the refresh token. The bearer access token may be
// expired but must carry a valid signature.
func AuthRefresh(svc identity.Service, resolver sessionResolver, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		accessToken, err := validators.BearerToken(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
			return
		}

		var body identity.RefreshRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		tokens, err := svc.Refresh(r.Context(), accessToken, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		writeSession(w, r, tokens, resolver, logg)
	}
}

func writeSession(w http.ResponseWriter, r *http.Request, tokens *identity.Tokens, resolver sessionResolver, logg *logger.Logger) {
	resolved, err := resolver.Resolve(r.Context(), tokens.User.ID)
	if err != nil {
		responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve session"))
		return
	}
	responses.WriteSuccess(w, sessionResponse{
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
		Session:      resolved.Snapshot(),
	})
}

// AuthLogout revokes the refresh session bound to the bearer token.
func AuthLogout(svc identity.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		accessID := middleware.AccessIDFromContext(r.Context())
		if accessID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "session unavailable"))
			return
		}
		if err := svc.Logout(r.Context(), accessID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteOK(w)
	}
}

// AuthSession returns the caller's resolved session. Anonymous callers get
// a resolved state with no user.
func AuthSession(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, authctx.FromContext(r.Context()).Snapshot())
	}
}

// AuthChangePassword sets a new password for the signed-in identity.
func AuthChangePassword(svc identity.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identityID, ok := middleware.IdentityIDFromContext(r.Context())
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required"))
			return
		}

		var body identity.ChangePasswordRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.ChangePassword(r.Context(), identityID, body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteOK(w)
	}
}
