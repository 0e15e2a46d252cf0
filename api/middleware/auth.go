package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/worshipdesk/worshipdesk-backend/api/responses"
	"github.com/worshipdesk/worshipdesk-backend/api/validators"
	"github.com/worshipdesk/worshipdesk-backend/internal/authctx"
	pkgAuth "github.com/worshipdesk/worshipdesk-backend/pkg/auth"
	"github.com/worshipdesk/worshipdesk-backend/pkg/auth/session"
	"github.com/worshipdesk/worshipdesk-backend/pkg/config"
	pkgerrors "github.com/worshipdesk/worshipdesk-backend/pkg/errors"
	"github.com/worshipdesk/worshipdesk-backend/pkg/logger"
)

type contextResolver interface {
	Resolve(ctx context.Context, identityID uuid.UUID) (*authctx.Context, error)
}

// Auth validates a bearer token, checks its session is still live and
// resolves the caller's member and roles into the request context. The
// resolution runs on every request so role changes apply immediately.
func Auth(cfg config.JWTConfig, verifier session.AccessSessionChecker, resolver contextResolver, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, err := authenticate(r, cfg, verifier, resolver, logg)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuth behaves like Auth but lets unauthenticated requests through
// with an anonymous resolved context.
func OptionalAuth(cfg config.JWTConfig, verifier session.AccessSessionChecker, resolver contextResolver, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, err := authenticate(r, cfg, verifier, resolver, logg)
			if err != nil {
				if pkgerrors.IsCode(err, pkgerrors.CodeDependency) {
					responses.WriteError(r.Context(), logg, w, err)
					return
				}
				ctx = authctx.WithContext(r.Context(), authctx.Anonymous())
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func authenticate(r *http.Request, cfg config.JWTConfig, verifier session.AccessSessionChecker, resolver contextResolver, logg *logger.Logger) (context.Context, error) {
	ctx := r.Context()

	token, err := validators.BearerToken(r)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials")
	}

	claims, err := pkgAuth.ParseAccessToken(cfg, token)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token")
	}
	if claims.ID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing session id")
	}

	if verifier != nil {
		ok, err := verifier.HasSession(ctx, claims.ID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "validate session")
		}
		if !ok {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "session unavailable")
		}
	}

	resolved, err := resolver.Resolve(ctx, claims.IdentityID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve session")
	}
	if resolved.User() == nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "session unavailable")
	}

	ctx = withToken(ctx, claims.IdentityID, claims.ID)
	ctx = authctx.WithContext(ctx, resolved)
	if logg != nil {
		ctx = logg.WithUserID(ctx, claims.IdentityID.String())
		if memberID := resolved.MemberID(); memberID != nil {
			ctx = logg.WithMemberID(ctx, memberID.String())
		}
	}
	return ctx, nil
}
