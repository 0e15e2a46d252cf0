package controllers

import (
	"net/http"

	"github.com/worshipdesk/worshipdesk-backend/api/responses"
	"github.com/worshipdesk/worshipdesk-backend/api/validators"
	"github.com/worshipdesk/worshipdesk-backend/internal/members"
	dbtypes "github.com/worshipdesk/worshipdesk-backend/pkg/db/types"
	"github.com/worshipdesk/worshipdesk-backend/pkg/enums"
	pkgerrors "github.com/worshipdesk/worshipdesk-backend/pkg/errors"
	"github.com/worshipdesk/worshipdesk-backend/pkg/logger"
)

type memberCreateRequest struct {
	Email       string              `json:"email" validate:"omitempty,email"`
	Name        string              `json:"name"`
	Phone       *string             `json:"phone,omitempty"`
	Role        *string             `json:"role,omitempty"`
	Instruments []string            `json:"instruments,omitempty"`
	Status      *enums.MemberStatus `json:"status,omitempty"`
	JoinDate    *dbtypes.Date       `json:"join_date,omitempty"`
	AvatarURL   *string             `json:"avatar_url,omitempty"`
	Notes       *string             `json:"notes,omitempty"`
}

func (r memberCreateRequest) toInput() members.CreateMemberInput {
	return members.CreateMemberInput{
		Email:       r.Email,
		Name:        r.Name,
		Phone:       r.Phone,
		Role:        r.Role,
		Instruments: r.Instruments,
		Status:      r.Status,
		JoinDate:    r.JoinDate,
		AvatarURL:   r.AvatarURL,
		Notes:       r.Notes,
	}
}

type memberUpdateRequest struct {
	Email       *string             `json:"email,omitempty" validate:"omitempty,email"`
	Name        *string             `json:"name,omitempty" validate:"omitempty,min=1"`
	Phone       *string             `json:"phone,omitempty"`
	Role        *string             `json:"role,omitempty"`
	Instruments *[]string           `json:"instruments,omitempty"`
	Status      *enums.MemberStatus `json:"status,omitempty"`
	JoinDate    *dbtypes.Date       `json:"join_date,omitempty"`
	AvatarURL   *string             `json:"avatar_url,omitempty"`
	Notes       *string             `json:"notes,omitempty"`
}

func (r memberUpdateRequest) toInput() members.UpdateMemberInput {
	return members.UpdateMemberInput{
		Email:       r.Email,
		Name:        r.Name,
		Phone:       r.Phone,
		Role:        r.Role,
		Instruments: r.Instruments,
		Status:      r.Status,
		JoinDate:    r.JoinDate,
		AvatarURL:   r.AvatarURL,
		Notes:       r.Notes,
	}
}

// MembersList returns the roster narrowed by ?q= (name, role or instrument)
// and ?status=.
func MembersList(svc members.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := validators.SanitizeString(r.URL.Query().Get("q"), maxQueryLen)
		status := validators.SanitizeString(r.URL.Query().Get("status"), maxQueryLen)
		responses.WriteSuccess(w, members.Filter(svc.GetAll(r.Context()), q, status))
	}
}

func MemberGet(svc members.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseUUIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		member := svc.GetByID(r.Context(), id)
		if member == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "member not found"))
			return
		}
		responses.WriteSuccess(w, member)
	}
}

func MemberCreate(svc members.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload memberCreateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		member, err := svc.Create(r.Context(), payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, member)
	}
}

func MemberUpdate(svc members.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseUUIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload memberUpdateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		member, err := svc.Update(r.Context(), id, payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, member)
	}
}

func MemberDelete(svc members.Service, logg *logger.Logger) http.HandlerFunc {
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
