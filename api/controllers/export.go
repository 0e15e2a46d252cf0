package controllers

import (
	"mime"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/worshipdesk/worshipdesk-backend/api/responses"
	"github.com/worshipdesk/worshipdesk-backend/api/validators"
	"github.com/worshipdesk/worshipdesk-backend/internal/export"
	"github.com/worshipdesk/worshipdesk-backend/pkg/enums"
	pkgerrors "github.com/worshipdesk/worshipdesk-backend/pkg/errors"
	"github.com/worshipdesk/worshipdesk-backend/pkg/logger"
)

// Export streams the requested document as an attachment.
func Export(svc export.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, err := parseExportRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		doc, err := svc.Export(r.Context(), req)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		w.Header().Set("Content-Type", doc.ContentType)
		w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": doc.Filename}))
		w.Header().Set("Content-Length", strconv.Itoa(len(doc.Body)))
		w.Header().Set("Cache-Control", "no-store")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write(doc.Body); err != nil && logg != nil {
			logg.Error(r.Context(), "export.write_failed", err)
		}
	}
}

func parseExportRequest(r *http.Request) (export.Request, error) {
	kind, err := enums.ParseExportKind(chi.URLParam(r, "kind"))
	if err != nil {
		return export.Request{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unknown export kind")
	}
	format, err := enums.ParseExportFormat(r.URL.Query().Get("format"))
	if err != nil {
		return export.Request{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unsupported export format")
	}

	defaults := export.DefaultInclude()
	include := export.Include{}
	if include.Chords, err = validators.ParseQueryBool(r, "include_chords", defaults.Chords); err != nil {
		return export.Request{}, err
	}
	if include.Lyrics, err = validators.ParseQueryBool(r, "include_lyrics", defaults.Lyrics); err != nil {
		return export.Request{}, err
	}
	if include.Notes, err = validators.ParseQueryBool(r, "include_notes", defaults.Notes); err != nil {
		return export.Request{}, err
	}

	setlistIDs, err := validators.ParseQueryUUIDs(r, "setlist_ids")
	if err != nil {
		return export.Request{}, err
	}
	songIDs, err := validators.ParseQueryUUIDs(r, "song_ids")
	if err != nil {
		return export.Request{}, err
	}

	return export.Request{
		Kind:       kind,
		Format:     format,
		SetlistIDs: setlistIDs,
		SongIDs:    songIDs,
		Include:    include,
	}, nil
}
