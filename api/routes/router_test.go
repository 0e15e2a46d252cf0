package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/worshipdesk/worshipdesk-backend/internal/admin"
	"github.com/worshipdesk/worshipdesk-backend/internal/authctx"
	"github.com/worshipdesk/worshipdesk-backend/internal/dashboard"
	"github.com/worshipdesk/worshipdesk-backend/internal/events"
	"github.com/worshipdesk/worshipdesk-backend/internal/export"
	"github.com/worshipdesk/worshipdesk-backend/internal/identity"
	"github.com/worshipdesk/worshipdesk-backend/internal/members"
	"github.com/worshipdesk/worshipdesk-backend/internal/repo"
	"github.com/worshipdesk/worshipdesk-backend/internal/roles"
	"github.com/worshipdesk/worshipdesk-backend/internal/setlists"
	"github.com/worshipdesk/worshipdesk-backend/internal/songs"
	"github.com/worshipdesk/worshipdesk-backend/internal/testdb"
	"github.com/worshipdesk/worshipdesk-backend/pkg/config"
	"github.com/worshipdesk/worshipdesk-backend/pkg/db/models"
	"github.com/worshipdesk/worshipdesk-backend/pkg/enums"
	"github.com/worshipdesk/worshipdesk-backend/pkg/logger"
)

type stubPinger struct{ err error }

func (s stubPinger) Ping(context.Context) error { return s.err }

// memorySessions stands in for the redis backed session manager.
type memorySessions struct {
	mu       sync.Mutex
	sessions map[string]uuid.UUID
}

func newMemorySessions() *memorySessions {
	return &memorySessions{sessions: map[string]uuid.UUID{}}
}

func (m *memorySessions) Generate(ctx context.Context, accessID string, identityID uuid.UUID) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[accessID] = identityID
	return "refresh-" + accessID, nil
}

func (m *memorySessions) Rotate(ctx context.Context, oldAccessID string, identityID uuid.UUID, provided string) (string, string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if owner, ok := m.sessions[oldAccessID]; !ok || owner != identityID || provided != "refresh-"+oldAccessID {
		return "", "", errors.New("invalid refresh token")
	}
	delete(m.sessions, oldAccessID)
	next := uuid.NewString()
	m.sessions[next] = identityID
	return next, "refresh-" + next, nil
}

func (m *memorySessions) Revoke(ctx context.Context, accessID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, accessID)
	return nil
}

func (m *memorySessions) HasSession(ctx context.Context, accessID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.sessions[accessID]
	return ok, nil
}

type routerFixture struct {
	conn    *gorm.DB
	handler http.Handler
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test"},
		DB:  config.DBConfig{DSN: "sqlite://test"},
		JWT: config.JWTConfig{Secret: "secret", Issuer: "worshipdesk", ExpirationMinutes: 60},
		CORS: config.CORSConfig{
			AllowedOrigins: []string{"http://localhost:3000"},
		},
		Bootstrap: config.BootstrapConfig{DefaultAdminEmail: "admin@worship.local", DefaultAdminPassword: "songadmin*123"},
	}
}

func newRouterFixture(t *testing.T, withAdmin bool, dbPing error) *routerFixture {
	t.Helper()
	cfg := testConfig()
	logg := logger.Nop()
	conn := testdb.Open(t)
	reads := repo.NewReadPolicy(logg, nil)

	songRepo := songs.NewRepository(conn, testdb.ChurchID)
	memberRepo := members.NewRepository(conn, testdb.ChurchID)
	setlistRepo := setlists.NewRepository(conn, testdb.ChurchID)
	eventRepo := events.NewRepository(conn, testdb.ChurchID)
	identityRepo := identity.NewRepository(conn)
	roleRepo := roles.NewRepository(conn)

	songSvc, err := songs.NewService(songRepo, reads)
	require.NoError(t, err)
	memberSvc, err := members.NewService(memberRepo, reads)
	require.NoError(t, err)
	setlistSvc, err := setlists.NewService(setlistRepo, songRepo, reads)
	require.NoError(t, err)
	eventSvc, err := events.NewService(eventRepo, reads, nil)
	require.NoError(t, err)
	dashboardSvc, err := dashboard.NewService(dashboard.Deps{
		DB:       conn,
		Songs:    songRepo,
		Members:  memberRepo,
		Setlists: setlistRepo,
		Events:   eventRepo,
		Reads:    reads,
	})
	require.NoError(t, err)
	exportSvc, err := export.NewService(export.Deps{Setlists: setlistSvc, Songs: songSvc, Members: memberSvc, Events: eventSvc})
	require.NoError(t, err)

	sessions := newMemorySessions()
	identitySvc, err := identity.NewService(identity.ServiceParams{
		Repo:           identityRepo,
		SessionManager: sessions,
		JWTConfig:      cfg.JWT,
	})
	require.NoError(t, err)
	resolver, err := authctx.NewResolver(identityRepo, memberRepo, roleRepo, logg)
	require.NoError(t, err)

	var adminSvc admin.Service
	if withAdmin {
		adminSvc, err = admin.NewService(admin.ServiceParams{
			Members:    admin.NewStore(conn),
			Identities: identityRepo,
			Roles:      roleRepo,
			Bootstrap:  cfg.Bootstrap,
			Logger:     logg,
		})
		require.NoError(t, err)
	}

	handler := NewRouter(Deps{
		Config:    cfg,
		Logger:    logg,
		DB:        stubPinger{err: dbPing},
		Redis:     stubPinger{},
		Sessions:  sessions,
		Resolver:  resolver,
		Songs:     songSvc,
		Members:   memberSvc,
		Setlists:  setlistSvc,
		Events:    eventSvc,
		Dashboard: dashboardSvc,
		Export:    exportSvc,
		Identity:  identitySvc,
		Admin:     adminSvc,
	})
	return &routerFixture{conn: conn, handler: handler}
}

func (f *routerFixture) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.RemoteAddr = "10.0.0.1:1234"
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp := httptest.NewRecorder()
	f.handler.ServeHTTP(resp, req)
	return resp
}

// signUp registers through the public endpoint and logs in.
func (f *routerFixture) signUp(t *testing.T, email string) (string, authctx.Snapshot) {
	t.Helper()
	resp := f.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email":    email,
		"password": "worship-123",
		"name":     "Team Member",
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	resp = f.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    email,
		"password": "worship-123",
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var envelope struct {
		Data struct {
			AccessToken string           `json:"access_token"`
			Session     authctx.Snapshot `json:"session"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	require.NotEmpty(t, envelope.Data.AccessToken)
	return envelope.Data.AccessToken, envelope.Data.Session
}

func decodeData(t *testing.T, resp *httptest.ResponseRecorder, out any) {
	t.Helper()
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	require.NoError(t, json.Unmarshal(envelope.Data, out))
}

func TestHealthRoutes(t *testing.T) {
	f := newRouterFixture(t, false, nil)

	resp := f.do(t, http.MethodGet, "/health/live", "", nil)
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "test", resp.Header().Get("X-WorshipDesk-Env"))

	resp = f.do(t, http.MethodGet, "/health/ready", "", nil)
	assert.Equal(t, http.StatusOK, resp.Code)

	resp = f.do(t, http.MethodGet, "/api/health", "", nil)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "no-store", resp.Header().Get("Cache-Control"))

	var report struct {
		Env struct {
			URLSet        bool `json:"urlSet"`
			ServiceKeySet bool `json:"serviceKeySet"`
		} `json:"env"`
		Connected bool `json:"connected"`
	}
	decodeData(t, resp, &report)
	assert.True(t, report.Env.URLSet)
	assert.False(t, report.Env.ServiceKeySet)
	assert.True(t, report.Connected)
}

func TestReadyReportsFailedDependency(t *testing.T) {
	f := newRouterFixture(t, false, errors.New("connection refused"))

	resp := f.do(t, http.MethodGet, "/health/ready", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, resp.Code)
	assert.Contains(t, resp.Body.String(), "postgres")
}

func TestAdminRoutesNotConfigured(t *testing.T) {
	f := newRouterFixture(t, false, nil)

	cases := []struct {
		method string
		path   string
		body   any
	}{
		{http.MethodGet, "/api/admin/users", nil},
		{http.MethodPost, "/api/admin/users", map[string]any{"email": "x@example.com", "password": "worship-123", "name": "X"}},
		{http.MethodPost, "/api/admin/users/roles", map[string]any{"memberId": uuid.NewString(), "roleName": "leader"}},
		{http.MethodDelete, "/api/admin/users/" + uuid.NewString(), nil},
		{http.MethodPost, "/api/setup/ensure-default-admin", nil},
		{http.MethodPost, "/api/auth/register", map[string]any{"email": "x@example.com", "password": "worship-123", "name": "X"}},
	}
	for _, tc := range cases {
		resp := f.do(t, tc.method, tc.path, "", tc.body)
		assert.Equal(t, http.StatusNotImplemented, resp.Code, "%s %s", tc.method, tc.path)
	}

	var identities int64
	require.NoError(t, f.conn.Model(&models.AuthIdentity{}).Count(&identities).Error)
	assert.Zero(t, identities)
}

func TestDomainRoutesRequireAuth(t *testing.T) {
	f := newRouterFixture(t, true, nil)

	for _, path := range []string{"/api/songs", "/api/members", "/api/setlists", "/api/events", "/api/dashboard/stats", "/api/export/all-songs"} {
		resp := f.do(t, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, resp.Code, path)
	}
}

func TestSessionEndpointIsAnonymousWithoutToken(t *testing.T) {
	f := newRouterFixture(t, true, nil)

	resp := f.do(t, http.MethodGet, "/api/auth/session", "", nil)
	require.Equal(t, http.StatusOK, resp.Code)

	var snap authctx.Snapshot
	decodeData(t, resp, &snap)
	assert.Equal(t, authctx.StateResolved, snap.State)
	assert.Nil(t, snap.User)
}

func TestRegisterLoginAndSession(t *testing.T) {
	f := newRouterFixture(t, true, nil)
	token, session := f.signUp(t, "singer@example.com")

	assert.Equal(t, []enums.RoleName{enums.RoleMusician}, session.Roles)
	assert.NotNil(t, session.MemberID)
	assert.False(t, session.IsAdmin)

	resp := f.do(t, http.MethodGet, "/api/auth/session", token, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	var snap authctx.Snapshot
	decodeData(t, resp, &snap)
	require.NotNil(t, snap.User)
	assert.Equal(t, "singer@example.com", snap.User.Email)

	resp = f.do(t, http.MethodPost, "/api/auth/logout", token, nil)
	require.Equal(t, http.StatusOK, resp.Code)

	resp = f.do(t, http.MethodGet, "/api/songs", token, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestAdminRequiresAdministratorRole(t *testing.T) {
	f := newRouterFixture(t, true, nil)
	token, session := f.signUp(t, "leader@example.com")

	resp := f.do(t, http.MethodGet, "/api/admin/users", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.Code)

	resp = f.do(t, http.MethodGet, "/api/admin/users", token, nil)
	assert.Equal(t, http.StatusForbidden, resp.Code)

	// role changes apply on the next request without a new token
	role := testdb.Role(t, f.conn, enums.RoleAdministrator)
	require.NoError(t, roles.NewRepository(f.conn).Assign(context.Background(), *session.MemberID, role.ID))

	resp = f.do(t, http.MethodGet, "/api/admin/users", token, nil)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var listing struct {
		Members []json.RawMessage `json:"members"`
		Roles   []json.RawMessage `json:"roles"`
	}
	decodeData(t, resp, &listing)
	assert.Len(t, listing.Members, 1)
	assert.Len(t, listing.Roles, 5)
}

func TestSongRoutes(t *testing.T) {
	f := newRouterFixture(t, true, nil)
	token, _ := f.signUp(t, "musician@example.com")

	resp := f.do(t, http.MethodPost, "/api/songs", token, map[string]any{"title": "Amazing Grace", "key": "G"})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	var created songs.SongDTO
	decodeData(t, resp, &created)

	resp = f.do(t, http.MethodGet, "/api/songs/search?q=grace", token, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	var found []songs.SongDTO
	decodeData(t, resp, &found)
	require.Len(t, found, 1)
	assert.Equal(t, created.ID, found[0].ID)

	resp = f.do(t, http.MethodPatch, "/api/songs/"+created.ID.String(), token, map[string]any{"tempo": 72})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	resp = f.do(t, http.MethodGet, "/api/songs/"+uuid.NewString(), token, nil)
	assert.Equal(t, http.StatusNotFound, resp.Code)

	resp = f.do(t, http.MethodGet, "/api/songs/not-a-uuid", token, nil)
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	resp = f.do(t, http.MethodGet, "/api/export/all-songs?format=txt", token, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.True(t, strings.HasPrefix(resp.Header().Get("Content-Disposition"), "attachment"))
	assert.Contains(t, resp.Body.String(), "Title: Amazing Grace")

	resp = f.do(t, http.MethodDelete, "/api/songs/"+created.ID.String(), token, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.JSONEq(t, `{"data":{"ok":true}}`, resp.Body.String())
}

func TestCurrentSetlistExportWithNothingToExport(t *testing.T) {
	f := newRouterFixture(t, true, nil)
	token, _ := f.signUp(t, "worship@example.com")

	resp := f.do(t, http.MethodGet, "/api/export/current-setlist", token, nil)
	assert.Equal(t, http.StatusNotFound, resp.Code)
	assert.Contains(t, resp.Body.String(), "No setlists to export.")
}

func TestSetlistCandidatesAndCurrentExport(t *testing.T) {
	f := newRouterFixture(t, true, nil)
	token, _ := f.signUp(t, "keys@example.com")
	song := testdb.InsertSong(t, f.conn, "Holy Holy Holy")

	resp := f.do(t, http.MethodPost, "/api/setlists", token, map[string]any{"name": "Midweek"})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	var created setlists.SetlistDTO
	decodeData(t, resp, &created)

	resp = f.do(t, http.MethodGet, "/api/setlists/"+created.ID.String()+"/candidates", token, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	var candidates []songs.SongDTO
	decodeData(t, resp, &candidates)
	require.Len(t, candidates, 1)
	assert.Equal(t, song.ID, candidates[0].ID)

	resp = f.do(t, http.MethodPost, "/api/setlists/"+created.ID.String()+"/songs", token, map[string]any{"song_id": song.ID})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())

	resp = f.do(t, http.MethodGet, "/api/setlists/"+created.ID.String()+"/candidates", token, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	decodeData(t, resp, &candidates)
	assert.Empty(t, candidates)

	// Undated setlists still count as current when nothing is scheduled.
	resp = f.do(t, http.MethodGet, "/api/export/current-setlist", token, nil)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	assert.Contains(t, resp.Body.String(), "Setlist: Midweek")
	assert.Contains(t, resp.Body.String(), "Holy Holy Holy")
}

func TestLoginRejectsBadPassword(t *testing.T) {
	f := newRouterFixture(t, true, nil)
	f.signUp(t, "alto@example.com")

	resp := f.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{"email": "alto@example.com", "password": "nope-nope"})
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestUnknownRouteIsNotFound(t *testing.T) {
	f := newRouterFixture(t, false, nil)
	resp := f.do(t, http.MethodGet, "/api/unknown", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.Code)
}
