package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/worshipdesk/worshipdesk-backend/api/responses"
	"github.com/worshipdesk/worshipdesk-backend/api/validators"
	"github.com/worshipdesk/worshipdesk-backend/internal/authctx"
	"github.com/worshipdesk/worshipdesk-backend/internal/events"
	dbtypes "github.com/worshipdesk/worshipdesk-backend/pkg/db/types"
	pkgerrors "github.com/worshipdesk/worshipdesk-backend/pkg/errors"
	"github.com/worshipdesk/worshipdesk-backend/pkg/logger"
)

type eventCreateRequest struct {
	Title     string        `json:"title"`
	EventDate *dbtypes.Date `json:"event_date,omitempty"`
	EventTime *string       `json:"event_time,omitempty"`
	EventType *string       `json:"event_type,omitempty"`
	Location  *string       `json:"location,omitempty"`
	SetlistID *uuid.UUID    `json:"setlist_id,omitempty"`
	Notes     *string       `json:"notes,omitempty"`
}

type eventUpdateRequest struct {
	Title        *string       `json:"title,omitempty" validate:"omitempty,min=1"`
	EventDate    *dbtypes.Date `json:"event_date,omitempty"`
	EventTime    *string       `json:"event_time,omitempty"`
	EventType    *string       `json:"event_type,omitempty"`
	Location     *string       `json:"location,omitempty"`
	SetlistID    *uuid.UUID    `json:"setlist_id,omitempty"`
	ClearSetlist bool          `json:"clear_setlist,omitempty"`
	Notes        *string       `json:"notes,omitempty"`
}

func EventsList(svc events.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, svc.GetAll(r.Context()))
	}
}

// EventsUpcoming returns events from today onward, ?limit= defaulting to 5.
func EventsUpcoming(svc events.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := validators.ParseQueryInt(r, "limit", events.DefaultUpcomingLimit, 1, 100)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, svc.GetUpcoming(r.Context(), limit))
	}
}

func EventGet(svc events.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseUUIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		event := svc.GetByID(r.Context(), id)
		if event == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "event not found"))
			return
		}
		responses.WriteSuccess(w, event)
	}
}

func EventCreate(svc events.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload eventCreateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		event, err := svc.Create(r.Context(), events.CreateEventInput{
			Title:     payload.Title,
			EventDate: payload.EventDate,
			EventTime: payload.EventTime,
			EventType: payload.EventType,
			Location:  payload.Location,
			SetlistID: payload.SetlistID,
			Notes:     payload.Notes,
			CreatedBy: authctx.FromContext(r.Context()).MemberID(),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, event)
	}
}

func EventUpdate(svc events.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseUUIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload eventUpdateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		event, err := svc.Update(r.Context(), id, events.UpdateEventInput{
			Title:        payload.Title,
			EventDate:    payload.EventDate,
			EventTime:    payload.EventTime,
			EventType:    payload.EventType,
			Location:     payload.Location,
			SetlistID:    payload.SetlistID,
			ClearSetlist: payload.ClearSetlist,
			Notes:        payload.Notes,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, event)
	}
}

func EventDelete(svc events.Service, logg *logger.Logger) http.HandlerFunc {
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
