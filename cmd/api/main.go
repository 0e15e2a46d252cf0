package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/worshipdesk/worshipdesk-backend/api/routes"
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
	"github.com/worshipdesk/worshipdesk-backend/pkg/auth/session"
	"github.com/worshipdesk/worshipdesk-backend/pkg/config"
	"github.com/worshipdesk/worshipdesk-backend/pkg/db"
	"github.com/worshipdesk/worshipdesk-backend/pkg/logger"
	"github.com/worshipdesk/worshipdesk-backend/pkg/metrics"
	"github.com/worshipdesk/worshipdesk-backend/pkg/migrate"
	"github.com/worshipdesk/worshipdesk-backend/pkg/redis"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
		Console:     cfg.App.ConsoleLogs(),
	})

	churchID, err := uuid.Parse(cfg.Church.ID)
	if err != nil {
		logg.Error(context.Background(), "invalid church id", err)
		os.Exit(1)
	}

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	httpMetrics := metrics.NewHTTPMetrics(registry)
	opMetrics := metrics.NewOperationMetrics(registry)
	reads := repo.NewReadPolicy(logg, opMetrics)

	conn := dbClient.DB()
	songRepo := songs.NewRepository(conn, churchID)
	memberRepo := members.NewRepository(conn, churchID)
	setlistRepo := setlists.NewRepository(conn, churchID)
	eventRepo := events.NewRepository(conn, churchID)
	identityRepo := identity.NewRepository(conn)
	roleRepo := roles.NewRepository(conn)

	songService, err := songs.NewService(songRepo, reads)
	requireService(logg, "songs", err)
	memberService, err := members.NewService(memberRepo, reads)
	requireService(logg, "members", err)
	setlistService, err := setlists.NewService(setlistRepo, songRepo, reads)
	requireService(logg, "setlists", err)
	eventService, err := events.NewService(eventRepo, reads, nil)
	requireService(logg, "events", err)
	dashboardService, err := dashboard.NewService(dashboard.Deps{
		DB:       conn,
		Songs:    songRepo,
		Members:  memberRepo,
		Setlists: setlistRepo,
		Events:   eventRepo,
		Reads:    reads,
	})
	requireService(logg, "dashboard", err)
	exportService, err := export.NewService(export.Deps{
		Setlists: setlistService,
		Songs:    songService,
		Members:  memberService,
		Events:   eventService,
	})
	requireService(logg, "export", err)
	identityService, err := identity.NewService(identity.ServiceParams{
		Repo:           identityRepo,
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
		PasswordConfig: cfg.Password,
	})
	requireService(logg, "identity", err)
	resolver, err := authctx.NewResolver(identityRepo, memberRepo, roleRepo, logg)
	requireService(logg, "session resolver", err)

	// The admin surface only exists with the elevated credential.
	var adminService admin.Service
	if cfg.Service.Configured() {
		serviceDB, err := db.New(context.Background(), cfg.Service.DBConfig(), logg)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap service database", err)
			os.Exit(1)
		}
		defer func() {
			if err := serviceDB.Close(); err != nil {
				logg.Error(context.Background(), "error closing service database", err)
			}
		}()
		adminService, err = admin.NewService(admin.ServiceParams{
			Members:        admin.NewStore(serviceDB.DB()),
			Identities:     identity.NewRepository(serviceDB.DB()),
			Roles:          roles.NewRepository(serviceDB.DB()),
			PasswordConfig: cfg.Password,
			Bootstrap:      cfg.Bootstrap,
			Metrics:        opMetrics,
			Logger:         logg,
		})
		requireService(logg, "admin", err)
	} else {
		logg.Warn(context.Background(), "service credential not set; admin endpoints will answer 501")
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":       cfg.App.Env,
		"addr":      addr,
		"church_id": churchID.String(),
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Config:         cfg,
			Logger:         logg,
			DB:             dbClient,
			Redis:          redisClient,
			Limiter:        redisClient,
			Sessions:       sessionManager,
			Resolver:       resolver,
			Songs:          songService,
			Members:        memberService,
			Setlists:       setlistService,
			Events:         eventService,
			Dashboard:      dashboardService,
			Export:         exportService,
			Identity:       identityService,
			Admin:          adminService,
			HTTPMetrics:    httpMetrics,
			MetricsHandler: promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-runCtx.Done():
		logg.Info(ctx, "api server shutting down gracefully")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "api server shutdown failed", err)
		}
	}
}

func requireService(logg *logger.Logger, name string, err error) {
	if err == nil {
		return
	}
	logg.Error(context.Background(), "failed to create "+name+" service", err)
	os.Exit(1)
}
