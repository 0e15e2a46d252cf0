package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/worshipdesk/worshipdesk-backend/api/responses"
	"github.com/worshipdesk/worshipdesk-backend/api/validators"
	"github.com/worshipdesk/worshipdesk-backend/internal/authctx"
	"github.com/worshipdesk/worshipdesk-backend/internal/setlists"
	dbtypes "github.com/worshipdesk/worshipdesk-backend/pkg/db/types"
	"github.com/worshipdesk/worshipdesk-backend/pkg/enums"
	pkgerrors "github.com/worshipdesk/worshipdesk-backend/pkg/errors"
	"github.com/worshipdesk/worshipdesk-backend/pkg/logger"
)

type setlistCreateRequest struct {
	Name        string               `json:"name"`
	ServiceDate *dbtypes.Date        `json:"service_date,omitempty"`
	ServiceType *string              `json:"service_type,omitempty"`
	Status      *enums.SetlistStatus `json:"status,omitempty"`
	Notes       *string              `json:"notes,omitempty"`
}

type setlistUpdateRequest struct {
	Name        *string              `json:"name,omitempty" validate:"omitempty,min=1"`
	ServiceDate *dbtypes.Date        `json:"service_date,omitempty"`
	ServiceType *string              `json:"service_type,omitempty"`
	Status      *enums.SetlistStatus `json:"status,omitempty"`
	Notes       *string              `json:"notes,omitempty"`
}

type setlistAddSongRequest struct {
	SongID      uuid.UUID `json:"song_id" validate:"required"`
	OrderIndex  *int      `json:"order_index,omitempty" validate:"omitempty,min=0"`
	KeyOverride *string   `json:"key_override,omitempty"`
	Notes       *string   `json:"notes,omitempty"`
}

// SetlistsList returns setlists narrowed by ?q= (name or service type) and
// ?status=.
func SetlistsList(svc setlists.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := validators.SanitizeString(r.URL.Query().Get("q"), maxQueryLen)
		status := validators.SanitizeString(r.URL.Query().Get("status"), maxQueryLen)
		responses.WriteSuccess(w, setlists.Filter(svc.GetAll(r.Context()), q, status))
	}
}

func SetlistGet(svc setlists.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseUUIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		setlist := svc.GetByID(r.Context(), id)
		if setlist == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "setlist not found"))
			return
		}
		responses.WriteSuccess(w, setlist)
	}
}

func SetlistCreate(svc setlists.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload setlistCreateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		setlist, err := svc.Create(r.Context(), setlists.CreateSetlistInput{
			Name:        payload.Name,
			ServiceDate: payload.ServiceDate,
			ServiceType: payload.ServiceType,
			Status:      payload.Status,
			Notes:       payload.Notes,
			CreatedBy:   authctx.FromContext(r.Context()).MemberID(),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, setlist)
	}
}

func SetlistUpdate(svc setlists.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseUUIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload setlistUpdateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		setlist, err := svc.Update(r.Context(), id, setlists.UpdateSetlistInput{
			Name:        payload.Name,
			ServiceDate: payload.ServiceDate,
			ServiceType: payload.ServiceType,
			Status:      payload.Status,
			Notes:       payload.Notes,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, setlist)
	}
}

func SetlistDelete(svc setlists.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseUUIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteOK(w)
	}
}

// SetlistAddSong appends a song; an omitted order_index places it after the
// current last entry.
func SetlistAddSong(svc setlists.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseUUIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload setlistAddSongRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		entry, err := svc.AddSong(r.Context(), id, setlists.AddSongInput{
			SongID:      payload.SongID,
			OrderIndex:  payload.OrderIndex,
			KeyOverride: payload.KeyOverride,
			Notes:       payload.Notes,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, entry)
	}
}

func SetlistRemoveSong(svc setlists.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseUUIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		songID, err := validators.ParseUUIDParam(r, "songId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.RemoveSong(r.Context(), id, songID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteOK(w)
	}
}

// SetlistCandidates lists library songs not yet placed in the setlist.
func SetlistCandidates(svc setlists.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseUUIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		q := validators.SanitizeString(r.URL.Query().Get("q"), maxQueryLen)
		responses.WriteSuccess(w, svc.Candidates(r.Context(), id, q))
	}
}
