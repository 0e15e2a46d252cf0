// Command worshipctl runs administrative tasks against the worship team
// database with the elevated service credential.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/worshipdesk/worshipdesk-backend/internal/admin"
	"github.com/worshipdesk/worshipdesk-backend/internal/identity"
	"github.com/worshipdesk/worshipdesk-backend/internal/roles"
	"github.com/worshipdesk/worshipdesk-backend/pkg/config"
	"github.com/worshipdesk/worshipdesk-backend/pkg/db"
	"github.com/worshipdesk/worshipdesk-backend/pkg/logger"
)

// serviceFactory opens the admin service and returns a release func.
type serviceFactory func(ctx context.Context) (admin.Service, func(), error)

func main() {
	_ = godotenv.Load()

	if err := newRootCmd(openAdminService).Execute(); err != nil {
		os.Exit(1)
	}
}

func openAdminService(ctx context.Context) (admin.Service, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	logg := logger.New(logger.Options{
		ServiceName: "worshipctl",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
		Console:     cfg.App.ConsoleLogs(),
	})
	if !cfg.Service.Configured() {
		return nil, nil, admin.ErrNotConfigured
	}

	client, err := db.New(ctx, cfg.Service.DBConfig(), logg)
	if err != nil {
		return nil, nil, fmt.Errorf("connect service database: %w", err)
	}
	release := func() {
		if err := client.Close(); err != nil {
			logg.Error(context.Background(), "error closing service database", err)
		}
	}

	svc, err := admin.NewService(admin.ServiceParams{
		Members:        admin.NewStore(client.DB()),
		Identities:     identity.NewRepository(client.DB()),
		Roles:          roles.NewRepository(client.DB()),
		PasswordConfig: cfg.Password,
		Bootstrap:      cfg.Bootstrap,
		Logger:         logg,
	})
	if err != nil {
		release()
		return nil, nil, err
	}
	return svc, release, nil
}
