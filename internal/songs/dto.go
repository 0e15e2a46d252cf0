package songs

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/worshipdesk/worshipdesk-backend/pkg/db/models"
	dbtypes "github.com/worshipdesk/worshipdesk-backend/pkg/db/types"
)

// SongDTO is the transport shape of a song row.
type SongDTO struct {
	ID         uuid.UUID     `json:"id"`
	ChurchID   uuid.UUID     `json:"church_id"`
	Title      string        `json:"title"`
	Artist     *string       `json:"artist"`
	Key        *string       `json:"key"`
	Tempo      *int          `json:"tempo"`
	Genre      *string       `json:"genre"`
	Duration   *string       `json:"duration"`
	CCLINumber *string       `json:"ccli_number"`
	Copyright  *string       `json:"copyright"`
	Lyrics     *string       `json:"lyrics"`
	Chords     *string       `json:"chords"`
	Notes      *string       `json:"notes"`
	Tags       []string      `json:"tags"`
	LastUsed   *dbtypes.Date `json:"last_used"`
	CreatedAt  time.Time     `json:"created_at"`
	UpdatedAt  time.Time     `json:"updated_at"`
}

// CreateSongInput carries the fields accepted on create. Title is required.
type CreateSongInput struct {
	Title      string
	Artist     *string
	Key        *string
	Tempo      *int
	Genre      *string
	Duration   *string
	CCLINumber *string
	Copyright  *string
	Lyrics     *string
	Chords     *string
	Notes      *string
	Tags       []string
	LastUsed   *dbtypes.Date
}

// UpdateSongInput is a partial update: nil fields are left untouched.
type UpdateSongInput struct {
	Title      *string
	Artist     *string
	Key        *string
	Tempo      *int
	Genre      *string
	Duration   *string
	CCLINumber *string
	Copyright  *string
	Lyrics     *string
	Chords     *string
	Notes      *string
	Tags       *[]string
	LastUsed   *dbtypes.Date
}

func FromModel(m *models.Song) *SongDTO {
	if m == nil {
		return nil
	}
	tags := append([]string{}, m.Tags...)
	return &SongDTO{
		ID:         m.ID,
		ChurchID:   m.ChurchID,
		Title:      m.Title,
		Artist:     m.Artist,
		Key:        m.Key,
		Tempo:      m.Tempo,
		Genre:      m.Genre,
		Duration:   m.Duration,
		CCLINumber: m.CCLINumber,
		Copyright:  m.Copyright,
		Lyrics:     m.Lyrics,
		Chords:     m.Chords,
		Notes:      m.Notes,
		Tags:       tags,
		LastUsed:   m.LastUsed,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}

func FromModels(rows []models.Song) []SongDTO {
	out := make([]SongDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out
}

func (c CreateSongInput) ToModel(churchID uuid.UUID) *models.Song {
	return &models.Song{
		ID:         uuid.New(),
		ChurchID:   churchID,
		Title:      strings.TrimSpace(c.Title),
		Artist:     c.Artist,
		Key:        c.Key,
		Tempo:      c.Tempo,
		Genre:      c.Genre,
		Duration:   c.Duration,
		CCLINumber: c.CCLINumber,
		Copyright:  c.Copyright,
		Lyrics:     c.Lyrics,
		Chords:     c.Chords,
		Notes:      c.Notes,
		Tags:       dbtypes.StringArray(append([]string{}, c.Tags...)),
		LastUsed:   c.LastUsed,
	}
}

// Fields maps the provided values onto column names for a partial update.
func (u UpdateSongInput) Fields() map[string]any {
	fields := map[string]any{}
	if u.Title != nil {
		fields["title"] = strings.TrimSpace(*u.Title)
	}
	setString(fields, "artist", u.Artist)
	setString(fields, "key", u.Key)
	if u.Tempo != nil {
		fields["tempo"] = *u.Tempo
	}
	setString(fields, "genre", u.Genre)
	setString(fields, "duration", u.Duration)
	setString(fields, "ccli_number", u.CCLINumber)
	setString(fields, "copyright", u.Copyright)
	setString(fields, "lyrics", u.Lyrics)
	setString(fields, "chords", u.Chords)
	setString(fields, "notes", u.Notes)
	if u.Tags != nil {
		fields["tags"] = dbtypes.StringArray(append([]string{}, (*u.Tags)...))
	}
	if u.LastUsed != nil {
		fields["last_used"] = *u.LastUsed
	}
	return fields
}

func setString(fields map[string]any, column string, value *string) {
	if value != nil {
		fields[column] = *value
	}
}
