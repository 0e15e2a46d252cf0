package controllers

import (
	"net/http"

	"github.com/worshipdesk/worshipdesk-backend/api/responses"
	"github.com/worshipdesk/worshipdesk-backend/api/validators"
	"github.com/worshipdesk/worshipdesk-backend/internal/dashboard"
	"github.com/worshipdesk/worshipdesk-backend/pkg/logger"
)

func DashboardStats(svc dashboard.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, svc.GetStats(r.Context()))
	}
}

func DashboardRecentSongs(svc dashboard.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := validators.ParseQueryInt(r, "limit", dashboard.DefaultRecentSongsLimit, 1, 50)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, svc.GetRecentSongs(r.Context(), limit))
	}
}
