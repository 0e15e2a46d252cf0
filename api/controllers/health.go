package controllers

import (
	"context"
	"net/http"
	"strings"

	"github.com/worshipdesk/worshipdesk-backend/api/responses"
	"github.com/worshipdesk/worshipdesk-backend/internal/dashboard"
	"github.com/worshipdesk/worshipdesk-backend/pkg/config"
	pkgerrors "github.com/worshipdesk/worshipdesk-backend/pkg/errors"
	"github.com/worshipdesk/worshipdesk-backend/pkg/logger"
)

// Pinger is anything the readiness probe can check.
type Pinger interface {
	Ping(ctx context.Context) error
}

// envReport says which settings are present without exposing their values.
type envReport struct {
	URLSet        bool `json:"urlSet"`
	KeySet        bool `json:"keySet"`
	EnvOK         bool `json:"envOk"`
	ServiceKeySet bool `json:"serviceKeySet"`
}

type healthResponse struct {
	Env       envReport       `json:"env"`
	Connected bool            `json:"connected"`
	SchemaOK  bool            `json:"schemaOk"`
	Stats     dashboard.Stats `json:"stats"`
}

// Health is the diagnostics page: configuration flags, connectivity, schema
// presence and counts. It always answers 200 and is never cached.
func Health(cfg *config.Config, svc dashboard.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		env := envReport{
			URLSet:        strings.TrimSpace(cfg.DB.DSN) != "",
			KeySet:        strings.TrimSpace(cfg.JWT.Secret) != "",
			ServiceKeySet: cfg.Service.Configured(),
		}
		env.EnvOK = env.URLSet && env.KeySet

		report := svc.Health(r.Context())
		if logg != nil {
			ctx := logg.WithFields(r.Context(), map[string]any{
				"connected": report.Connected,
				"schema_ok": report.SchemaOK,
			})
			logg.Debug(ctx, "health.check")
		}

		w.Header().Set("Cache-Control", "no-store")
		responses.WriteSuccess(w, healthResponse{
			Env:       env,
			Connected: report.Connected,
			SchemaOK:  report.SchemaOK,
			Stats:     report.Stats,
		})
	}
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-WorshipDesk-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings every dependency and answers 503 when one is down.
func HealthReady(cfg *config.Config, logg *logger.Logger, deps map[string]Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-WorshipDesk-Env", cfg.App.Env)
		failed := map[string]string{}
		for name, dep := range deps {
			if dep == nil {
				continue
			}
			if err := dep.Ping(r.Context()); err != nil {
				failed[name] = err.Error()
			}
		}
		if len(failed) > 0 {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeDependency, "dependency unavailable").WithDetails(failed))
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
