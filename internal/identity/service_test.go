package identity

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/worshipdesk/worshipdesk-backend/internal/testdb"
	pkgAuth "github.com/worshipdesk/worshipdesk-backend/pkg/auth"
	"github.com/worshipdesk/worshipdesk-backend/pkg/auth/session"
	"github.com/worshipdesk/worshipdesk-backend/pkg/config"
	"github.com/worshipdesk/worshipdesk-backend/pkg/db/models"
	pkgerrors "github.com/worshipdesk/worshipdesk-backend/pkg/errors"
	"github.com/worshipdesk/worshipdesk-backend/pkg/security"
)

var testJWT = config.JWTConfig{Secret: "secret", Issuer: "worshipdesk", ExpirationMinutes: 30}

func setup(t *testing.T) (Service, *Repository, *stubSessions) {
	t.Helper()
	r := NewRepository(testdb.Open(t))
	sessions := &stubSessions{stored: map[string]string{}}
	svc, err := NewService(ServiceParams{Repo: r, SessionManager: sessions, JWTConfig: testJWT})
	require.NoError(t, err)
	return svc, r, sessions
}

func createIdentity(t *testing.T, r *Repository, email, password string) *models.AuthIdentity {
	t.Helper()
	hash, err := security.HashPassword(password, config.PasswordConfig{})
	require.NoError(t, err)
	identity := &models.AuthIdentity{ID: uuid.New(), Email: email, PasswordHash: hash}
	require.NoError(t, r.Create(context.Background(), identity))
	return identity
}

func TestLoginIssuesTokens(t *testing.T) {
	svc, r, sessions := setup(t)
	identity := createIdentity(t, r, "Leader@Example.com", "worship-123")

	tokens, err := svc.Login(context.Background(), LoginRequest{Email: " leader@example.com", Password: "worship-123"})
	require.NoError(t, err)
	assert.Equal(t, "leader@example.com", tokens.User.Email)
	assert.NotNil(t, tokens.User.LastSignInAt)
	assert.NotEmpty(t, tokens.RefreshToken)

	claims, err := pkgAuth.ParseAccessToken(testJWT, tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, identity.ID, claims.IdentityID)
	assert.Contains(t, sessions.stored, claims.ID)

	stored, err := r.FindByID(context.Background(), identity.ID)
	require.NoError(t, err)
	assert.NotNil(t, stored.LastSignInAt)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc, r, _ := setup(t)
	createIdentity(t, r, "a@example.com", "correct-horse")

	for _, req := range []LoginRequest{
		{Email: "a@example.com", Password: "wrong-horse"},
		{Email: "missing@example.com", Password: "correct-horse"},
		{Email: "", Password: "x"},
	} {
		_, err := svc.Login(context.Background(), req)
		require.Error(t, err)
		assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized), "req %+v", req)
	}
}

func TestRefreshRotatesSession(t *testing.T) {
	svc, r, sessions := setup(t)
	createIdentity(t, r, "b@example.com", "password-1")
	ctx := context.Background()

	first, err := svc.Login(ctx, LoginRequest{Email: "b@example.com", Password: "password-1"})
	require.NoError(t, err)

	second, err := svc.Refresh(ctx, first.AccessToken, RefreshRequest{RefreshToken: first.RefreshToken})
	require.NoError(t, err)
	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)
	assert.Len(t, sessions.stored, 1)

	_, err = svc.Refresh(ctx, first.AccessToken, RefreshRequest{RefreshToken: first.RefreshToken})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized))

	_, err = svc.Refresh(ctx, "not-a-jwt", RefreshRequest{RefreshToken: "x"})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized))
}

func TestLogoutRevokes(t *testing.T) {
	svc, r, sessions := setup(t)
	createIdentity(t, r, "c@example.com", "password-1")
	tokens, err := svc.Login(context.Background(), LoginRequest{Email: "c@example.com", Password: "password-1"})
	require.NoError(t, err)
	claims, err := pkgAuth.ParseAccessToken(testJWT, tokens.AccessToken)
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), claims.ID))
	assert.Empty(t, sessions.stored)
	assert.NoError(t, svc.Logout(context.Background(), ""))
}

func TestChangePassword(t *testing.T) {
	svc, r, _ := setup(t)
	identity := createIdentity(t, r, "d@example.com", "old-password")
	ctx := context.Background()

	err := svc.ChangePassword(ctx, identity.ID, ChangePasswordRequest{Password: "short", ConfirmPassword: "short"})
	assert.Equal(t, "password must be at least 8 characters", pkgerrors.As(err).Message())

	err = svc.ChangePassword(ctx, identity.ID, ChangePasswordRequest{Password: "new-password", ConfirmPassword: "other-password"})
	assert.Equal(t, "passwords do not match", pkgerrors.As(err).Message())

	require.NoError(t, svc.ChangePassword(ctx, identity.ID, ChangePasswordRequest{Password: "new-password", ConfirmPassword: "new-password"}))
	_, err = svc.Login(ctx, LoginRequest{Email: "d@example.com", Password: "new-password"})
	assert.NoError(t, err)

	err = svc.ChangePassword(ctx, uuid.New(), ChangePasswordRequest{Password: "new-password", ConfirmPassword: "new-password"})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

type stubSessions struct {
	stored map[string]string
}

func (s *stubSessions) Generate(ctx context.Context, accessID string, identityID uuid.UUID) (string, error) {
	token := "refresh-" + accessID
	s.stored[accessID] = identityID.String() + ":" + token
	return token, nil
}

func (s *stubSessions) Rotate(ctx context.Context, oldAccessID string, identityID uuid.UUID, provided string) (string, string, error) {
	if s.stored[oldAccessID] != identityID.String()+":"+provided {
		return "", "", session.ErrInvalidRefreshToken
	}
	delete(s.stored, oldAccessID)
	newID := session.NewAccessID()
	token, err := s.Generate(ctx, newID, identityID)
	return newID, token, err
}

func (s *stubSessions) Revoke(ctx context.Context, accessID string) error {
	if accessID == "fail" {
		return errors.New("redis down")
	}
	delete(s.stored, accessID)
	return nil
}
