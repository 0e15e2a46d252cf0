package setlists

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/worshipdesk/worshipdesk-backend/internal/songs"
	"github.com/worshipdesk/worshipdesk-backend/pkg/db/models"
	dbtypes "github.com/worshipdesk/worshipdesk-backend/pkg/db/types"
	"github.com/worshipdesk/worshipdesk-backend/pkg/enums"
)

type SetlistDTO struct {
	ID          uuid.UUID           `json:"id"`
	ChurchID    uuid.UUID           `json:"church_id"`
	Name        string              `json:"name"`
	ServiceDate *dbtypes.Date       `json:"service_date"`
	ServiceType *string             `json:"service_type"`
	Status      enums.SetlistStatus `json:"status"`
	Notes       *string             `json:"notes"`
	CreatedBy   *uuid.UUID          `json:"created_by"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
	Songs       []SetlistSongDTO    `json:"setlist_songs"`
}

// SetlistSongDTO is one entry of a setlist with its song embedded.
type SetlistSongDTO struct {
	ID          uuid.UUID      `json:"id"`
	SetlistID   uuid.UUID      `json:"setlist_id"`
	SongID      uuid.UUID      `json:"song_id"`
	OrderIndex  int            `json:"order_index"`
	KeyOverride *string        `json:"key_override"`
	Notes       *string        `json:"notes"`
	CreatedAt   time.Time      `json:"created_at"`
	Song        *songs.SongDTO `json:"song"`
}

// DisplayKey is the key shown for the entry: the override when set, else the
// song's own key.
func (e SetlistSongDTO) DisplayKey() string {
	if e.KeyOverride != nil && strings.TrimSpace(*e.KeyOverride) != "" {
		return *e.KeyOverride
	}
	if e.Song != nil && e.Song.Key != nil {
		return *e.Song.Key
	}
	return ""
}

type CreateSetlistInput struct {
	Name        string
	ServiceDate *dbtypes.Date
	ServiceType *string
	Status      *enums.SetlistStatus
	Notes       *string
	CreatedBy   *uuid.UUID
}

type UpdateSetlistInput struct {
	Name        *string
	ServiceDate *dbtypes.Date
	ServiceType *string
	Status      *enums.SetlistStatus
	Notes       *string
}

// AddSongInput places a song in a setlist. A nil OrderIndex appends after the
// current last entry.
type AddSongInput struct {
	SongID      uuid.UUID
	OrderIndex  *int
	KeyOverride *string
	Notes       *string
}

func FromModel(m *models.Setlist) *SetlistDTO {
	if m == nil {
		return nil
	}
	entries := make([]SetlistSongDTO, 0, len(m.Songs))
	for i := range m.Songs {
		entries = append(entries, entryFromModel(&m.Songs[i]))
	}
	return &SetlistDTO{
		ID:          m.ID,
		ChurchID:    m.ChurchID,
		Name:        m.Name,
		ServiceDate: m.ServiceDate,
		ServiceType: m.ServiceType,
		Status:      m.Status,
		Notes:       m.Notes,
		CreatedBy:   m.CreatedBy,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
		Songs:       entries,
	}
}

func FromModels(rows []models.Setlist) []SetlistDTO {
	out := make([]SetlistDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out
}

func entryFromModel(m *models.SetlistSong) SetlistSongDTO {
	return SetlistSongDTO{
		ID:          m.ID,
		SetlistID:   m.SetlistID,
		SongID:      m.SongID,
		OrderIndex:  m.OrderIndex,
		KeyOverride: m.KeyOverride,
		Notes:       m.Notes,
		CreatedAt:   m.CreatedAt,
		Song:        songs.FromModel(m.Song),
	}
}

func (c CreateSetlistInput) ToModel(churchID uuid.UUID) *models.Setlist {
	status := enums.SetlistStatusDraft
	if c.Status != nil {
		status = *c.Status
	}
	return &models.Setlist{
		ID:          uuid.New(),
		ChurchID:    churchID,
		Name:        strings.TrimSpace(c.Name),
		ServiceDate: c.ServiceDate,
		ServiceType: c.ServiceType,
		Status:      status,
		Notes:       c.Notes,
		CreatedBy:   c.CreatedBy,
	}
}

func (u UpdateSetlistInput) Fields() map[string]any {
	fields := map[string]any{}
	if u.Name != nil {
		fields["name"] = strings.TrimSpace(*u.Name)
	}
	if u.ServiceDate != nil {
		fields["service_date"] = *u.ServiceDate
	}
	if u.ServiceType != nil {
		fields["service_type"] = *u.ServiceType
	}
	if u.Status != nil {
		fields["status"] = *u.Status
	}
	if u.Notes != nil {
		fields["notes"] = *u.Notes
	}
	return fields
}
