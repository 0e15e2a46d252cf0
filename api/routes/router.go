package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/worshipdesk/worshipdesk-backend/api/controllers"
	"github.com/worshipdesk/worshipdesk-backend/api/middleware"
	"github.com/worshipdesk/worshipdesk-backend/internal/admin"
	"github.com/worshipdesk/worshipdesk-backend/internal/authctx"
	"github.com/worshipdesk/worshipdesk-backend/internal/dashboard"
	"github.com/worshipdesk/worshipdesk-backend/internal/events"
	"github.com/worshipdesk/worshipdesk-backend/internal/export"
	"github.com/worshipdesk/worshipdesk-backend/internal/identity"
	"github.com/worshipdesk/worshipdesk-backend/internal/members"
	"github.com/worshipdesk/worshipdesk-backend/internal/setlists"
	"github.com/worshipdesk/worshipdesk-backend/internal/songs"
	"github.com/worshipdesk/worshipdesk-backend/pkg/auth/session"
	"github.com/worshipdesk/worshipdesk-backend/pkg/config"
	"github.com/worshipdesk/worshipdesk-backend/pkg/logger"
	"github.com/worshipdesk/worshipdesk-backend/pkg/metrics"
)

type rateLimiter interface {
	FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error)
}

type contextResolver interface {
	Resolve(ctx context.Context, identityID uuid.UUID) (*authctx.Context, error)
}

// Deps carries everything the router mounts. Admin is nil when the elevated
// credential is missing; the admin and setup surfaces then answer 501.
type Deps struct {
	Config   *config.Config
	Logger   *logger.Logger
	DB       controllers.Pinger
	Redis    controllers.Pinger
	Limiter  rateLimiter
	Sessions session.AccessSessionChecker
	Resolver contextResolver

	Songs     songs.Service
	Members   members.Service
	Setlists  setlists.Service
	Events    events.Service
	Dashboard dashboard.Service
	Export    export.Service
	Identity  identity.Service
	Admin     admin.Service

	HTTPMetrics    *metrics.HTTPMetrics
	MetricsHandler http.Handler
}

// NewRouter builds the chi router with all application routes.
func NewRouter(d Deps) http.Handler {
	cfg := d.Config
	logg := d.Logger

	r := chi.NewRouter()
	r.Use(middleware.Recoverer(logg))
	r.Use(middleware.RequestID(logg))
	r.Use(middleware.Logging(logg, d.HTTPMetrics))
	r.Use(middleware.CORS(cfg.CORS.AllowedOrigins))

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	requireAuth := middleware.Auth(cfg.JWT, d.Sessions, d.Resolver, logg)
	optionalAuth := middleware.OptionalAuth(cfg.JWT, d.Sessions, d.Resolver, logg)
	adminConfigured := middleware.RequireConfigured(d.Admin != nil, admin.ErrNotConfigured, logg)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, map[string]controllers.Pinger{
			"postgres": d.DB,
			"redis":    d.Redis,
		}))
	})
	if d.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", d.MetricsHandler)
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", controllers.Health(cfg, d.Dashboard, logg))

		r.Route("/auth", func(r chi.Router) {
			r.With(middleware.AuthRateLimit(loginPolicy, d.Limiter, logg)).
				Post("/login", controllers.AuthLogin(d.Identity, d.Resolver, logg))
			r.With(middleware.AuthRateLimit(registerPolicy, d.Limiter, logg)).
				Post("/register", controllers.AuthRegister(d.Admin, logg))
			r.Post("/refresh", controllers.AuthRefresh(d.Identity, d.Resolver, logg))
			r.With(optionalAuth).Get("/session", controllers.AuthSession(logg))
			r.With(requireAuth).Post("/logout", controllers.AuthLogout(d.Identity, logg))
			r.With(requireAuth).Post("/password", controllers.AuthChangePassword(d.Identity, logg))
		})

		r.With(adminConfigured).Post("/setup/ensure-default-admin", controllers.SetupEnsureDefaultAdmin(d.Admin, logg))

		r.Route("/admin", func(r chi.Router) {
			r.Use(adminConfigured)
			r.Use(requireAuth)
			r.Use(middleware.RequireAdministrator(logg))
			r.Get("/users", controllers.AdminListUsers(d.Admin, logg))
			r.Post("/users", controllers.AdminCreateUser(d.Admin, logg))
			r.Post("/users/roles", controllers.AdminAssignRole(d.Admin, logg))
			r.Delete("/users/roles", controllers.AdminRemoveRole(d.Admin, logg))
			r.Delete("/users/{memberId}", controllers.AdminDeleteMember(d.Admin, logg))
		})

		r.Group(func(r chi.Router) {
			r.Use(requireAuth)

			r.Route("/songs", func(r chi.Router) {
				r.Get("/", controllers.SongsList(d.Songs, logg))
				r.Post("/", controllers.SongCreate(d.Songs, logg))
				r.Get("/search", controllers.SongsSearch(d.Songs, logg))
				r.Get("/{id}", controllers.SongGet(d.Songs, logg))
				r.Patch("/{id}", controllers.SongUpdate(d.Songs, logg))
				r.Delete("/{id}", controllers.SongDelete(d.Songs, logg))
			})

			r.Route("/members", func(r chi.Router) {
				r.Get("/", controllers.MembersList(d.Members, logg))
				r.Post("/", controllers.MemberCreate(d.Members, logg))
				r.Get("/{id}", controllers.MemberGet(d.Members, logg))
				r.Patch("/{id}", controllers.MemberUpdate(d.Members, logg))
				r.Delete("/{id}", controllers.MemberDelete(d.Members, logg))
			})

			r.Route("/setlists", func(r chi.Router) {
				r.Get("/", controllers.SetlistsList(d.Setlists, logg))
				r.Post("/", controllers.SetlistCreate(d.Setlists, logg))
				r.Get("/{id}", controllers.SetlistGet(d.Setlists, logg))
				r.Patch("/{id}", controllers.SetlistUpdate(d.Setlists, logg))
				r.Delete("/{id}", controllers.SetlistDelete(d.Setlists, logg))
				r.Get("/{id}/candidates", controllers.SetlistCandidates(d.Setlists, logg))
				r.Post("/{id}/songs", controllers.SetlistAddSong(d.Setlists, logg))
				r.Delete("/{id}/songs/{songId}", controllers.SetlistRemoveSong(d.Setlists, logg))
			})

			r.Route("/events", func(r chi.Router) {
				r.Get("/", controllers.EventsList(d.Events, logg))
				r.Post("/", controllers.EventCreate(d.Events, logg))
				r.Get("/upcoming", controllers.EventsUpcoming(d.Events, logg))
				r.Get("/{id}", controllers.EventGet(d.Events, logg))
				r.Patch("/{id}", controllers.EventUpdate(d.Events, logg))
				r.Delete("/{id}", controllers.EventDelete(d.Events, logg))
			})

			r.Route("/dashboard", func(r chi.Router) {
				r.Get("/stats", controllers.DashboardStats(d.Dashboard, logg))
				r.Get("/recent-songs", controllers.DashboardRecentSongs(d.Dashboard, logg))
			})

			r.Get("/export/{kind}", controllers.Export(d.Export, logg))
		})
	})

	return r
}
