package controllers

import (
	"net/http"

	"github.com/worshipdesk/worshipdesk-backend/api/responses"
	"github.com/worshipdesk/worshipdesk-backend/api/validators"
	"github.com/worshipdesk/worshipdesk-backend/internal/songs"
	dbtypes "github.com/worshipdesk/worshipdesk-backend/pkg/db/types"
	pkgerrors "github.com/worshipdesk/worshipdesk-backend/pkg/errors"
	"github.com/worshipdesk/worshipdesk-backend/pkg/logger"
)

const maxQueryLen = 200

type songCreateRequest struct {
	Title      string        `json:"title"`
	Artist     *string       `json:"artist,omitempty"`
	Key        *string       `json:"key,omitempty"`
	Tempo      *int          `json:"tempo,omitempty" validate:"omitempty,min=1,max=400"`
	Genre      *string       `json:"genre,omitempty"`
	Duration   *string       `json:"duration,omitempty"`
	CCLINumber *string       `json:"ccli_number,omitempty"`
	Copyright  *string       `json:"copyright,omitempty"`
	Lyrics     *string       `json:"lyrics,omitempty"`
	Chords     *string       `json:"chords,omitempty"`
	Notes      *string       `json:"notes,omitempty"`
	Tags       []string      `json:"tags,omitempty"`
	LastUsed   *dbtypes.Date `json:"last_used,omitempty"`
}

func (r songCreateRequest) toInput() songs.CreateSongInput {
	return songs.CreateSongInput{
		Title:      r.Title,
		Artist:     r.Artist,
		Key:        r.Key,
		Tempo:      r.Tempo,
		Genre:      r.Genre,
		Duration:   r.Duration,
		CCLINumber: r.CCLINumber,
		Copyright:  r.Copyright,
		Lyrics:     r.Lyrics,
		Chords:     r.Chords,
		Notes:      r.Notes,
		Tags:       r.Tags,
		LastUsed:   r.LastUsed,
	}
}

type songUpdateRequest struct {
	Title      *string       `json:"title,omitempty"`
	Artist     *string       `json:"artist,omitempty"`
	Key        *string       `json:"key,omitempty"`
	Tempo      *int          `json:"tempo,omitempty" validate:"omitempty,min=1,max=400"`
	Genre      *string       `json:"genre,omitempty"`
	Duration   *string       `json:"duration,omitempty"`
	CCLINumber *string       `json:"ccli_number,omitempty"`
	Copyright  *string       `json:"copyright,omitempty"`
	Lyrics     *string       `json:"lyrics,omitempty"`
	Chords     *string       `json:"chords,omitempty"`
	Notes      *string       `json:"notes,omitempty"`
	Tags       *[]string     `json:"tags,omitempty"`
	LastUsed   *dbtypes.Date `json:"last_used,omitempty"`
}

func (r songUpdateRequest) toInput() songs.UpdateSongInput {
	return songs.UpdateSongInput{
		Title:      r.Title,
		Artist:     r.Artist,
		Key:        r.Key,
		Tempo:      r.Tempo,
		Genre:      r.Genre,
		Duration:   r.Duration,
		CCLINumber: r.CCLINumber,
		Copyright:  r.Copyright,
		Lyrics:     r.Lyrics,
		Chords:     r.Chords,
		Notes:      r.Notes,
		Tags:       r.Tags,
		LastUsed:   r.LastUsed,
	}
}

// SongsList returns the library, optionally narrowed by ?q= (title or artist)
// and ?genre=.
func SongsList(svc songs.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := validators.SanitizeString(r.URL.Query().Get("q"), maxQueryLen)
		genre := validators.SanitizeString(r.URL.Query().Get("genre"), maxQueryLen)
		responses.WriteSuccess(w, songs.Filter(svc.GetAll(r.Context()), q, genre))
	}
}

// SongsSearch runs the store-side search across title, artist and lyrics.
func SongsSearch(svc songs.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := validators.SanitizeString(r.URL.Query().Get("q"), maxQueryLen)
		responses.WriteSuccess(w, svc.Search(r.Context(), q))
	}
}

func SongGet(svc songs.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseUUIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		song := svc.GetByID(r.Context(), id)
		if song == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "song not found"))
			return
		}
		responses.WriteSuccess(w, song)
	}
}

func SongCreate(svc songs.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload songCreateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		song, err := svc.Create(r.Context(), payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, song)
	}
}

func SongUpdate(svc songs.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseUUIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload songUpdateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		song, err := svc.Update(r.Context(), id, payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, song)
	}
}

func SongDelete(svc songs.Service, logg *logger.Logger) http.HandlerFunc {
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
