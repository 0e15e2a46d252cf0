package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	pkgAuth "github.com/worshipdesk/worshipdesk-backend/pkg/auth"
	"github.com/worshipdesk/worshipdesk-backend/pkg/auth/session"
	"github.com/worshipdesk/worshipdesk-backend/pkg/config"
	"github.com/worshipdesk/worshipdesk-backend/pkg/db/models"
	pkgerrors "github.com/worshipdesk/worshipdesk-backend/pkg/errors"
	"github.com/worshipdesk/worshipdesk-backend/pkg/security"
)

const invalidCredentialsMessage = "invalid credentials"

// Service signs identities in and out and manages their passwords.
type Service interface {
	Login(ctx context.Context, req LoginRequest) (*Tokens, error)
	Refresh(ctx context.Context, accessToken string, req RefreshRequest) (*Tokens, error)
	Logout(ctx context.Context, accessID string) error
	ChangePassword(ctx context.Context, identityID uuid.UUID, req ChangePasswordRequest) error
}

type identityRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.AuthIdentity, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.AuthIdentity, error)
	UpdateLastSignIn(ctx context.Context, id uuid.UUID, at time.Time) error
	UpdatePassword(ctx context.Context, id uuid.UUID, hash string) error
}

type sessionManager interface {
	Generate(ctx context.Context, accessID string, identityID uuid.UUID) (string, error)
	Rotate(ctx context.Context, oldAccessID string, identityID uuid.UUID, provided string) (string, string, error)
	Revoke(ctx context.Context, accessID string) error
}

type ServiceParams struct {
	Repo           identityRepository
	SessionManager sessionManager
	JWTConfig      config.JWTConfig
	PasswordConfig config.PasswordConfig
	Now            func() time.Time
}

type service struct {
	repo     identityRepository
	sessions sessionManager
	jwtCfg   config.JWTConfig
	pwCfg    config.PasswordConfig
	now      func() time.Time
}

func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("identity repository is required")
	}
	if params.SessionManager == nil {
		return nil, fmt.Errorf("session manager is required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		repo:     params.Repo,
		sessions: params.SessionManager,
		jwtCfg:   params.JWTConfig,
		pwCfg:    params.PasswordConfig,
		now:      now,
	}, nil
}

func (s *service) Login(ctx context.Context, req LoginRequest) (*Tokens, error) {
	identity, err := s.authenticate(ctx, req.Email, req.Password)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	if err := s.repo.UpdateLastSignIn(ctx, identity.ID, now); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update last sign in")
	}
	identity.LastSignInAt = &now

	accessID := session.NewAccessID()
	accessToken, err := s.mint(now, identity, accessID)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.sessions.Generate(ctx, accessID, identity.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store refresh token")
	}
	return &Tokens{AccessToken: accessToken, RefreshToken: refreshToken, User: FromModel(identity)}, nil
}

// Refresh rotates the session bound to the (possibly expired) access token.
func (s *service) Refresh(ctx context.Context, accessToken string, req RefreshRequest) (*Tokens, error) {
	claims, err := pkgAuth.ParseAccessTokenAllowExpired(s.jwtCfg, accessToken)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid access token")
	}
	newAccessID, newRefresh, err := s.sessions.Rotate(ctx, claims.ID, claims.IdentityID, req.RefreshToken)
	if err != nil {
		if errors.Is(err, session.ErrInvalidRefreshToken) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid refresh token")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rotate refresh token")
	}

	identity, err := s.repo.FindByID(ctx, claims.IdentityID)
	if err != nil {
		_ = s.sessions.Revoke(ctx, newAccessID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "identity no longer exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup identity")
	}

	access, err := s.mint(s.now().UTC(), identity, newAccessID)
	if err != nil {
		return nil, err
	}
	return &Tokens{AccessToken: access, RefreshToken: newRefresh, User: FromModel(identity)}, nil
}

func (s *service) Logout(ctx context.Context, accessID string) error {
	if strings.TrimSpace(accessID) == "" {
		return nil
	}
	if err := s.sessions.Revoke(ctx, accessID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "revoke session")
	}
	return nil
}

func (s *service) ChangePassword(ctx context.Context, identityID uuid.UUID, req ChangePasswordRequest) error {
	if err := ValidateNewPassword(req.Password, req.ConfirmPassword); err != nil {
		return err
	}
	hash, err := security.HashPassword(req.Password, s.pwCfg)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}
	if err := s.repo.UpdatePassword(ctx, identityID, hash); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "identity not found")
		}
		return pkgerrors.Store("Failed to update password", err)
	}
	return nil
}

// ValidateNewPassword applies the profile form rules: minimum length and a
// matching confirmation.
func ValidateNewPassword(password, confirm string) error {
	if len(password) < security.MinPasswordLength {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("password must be at least %d characters", security.MinPasswordLength))
	}
	if password != confirm {
		return pkgerrors.New(pkgerrors.CodeValidation, "passwords do not match")
	}
	return nil
}

func (s *service) authenticate(ctx context.Context, email, password string) (*models.AuthIdentity, error) {
	if NormalizeEmail(email) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}
	identity, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup identity")
	}
	valid, err := security.VerifyPassword(password, identity.PasswordHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !valid {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}
	return identity, nil
}

func (s *service) mint(now time.Time, identity *models.AuthIdentity, accessID string) (string, error) {
	token, err := pkgAuth.MintAccessToken(s.jwtCfg, now, pkgAuth.AccessTokenPayload{
		IdentityID: identity.ID,
		Email:      identity.Email,
		JTI:        accessID,
	})
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint jwt")
	}
	return token, nil
}
