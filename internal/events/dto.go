package events

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/worshipdesk/worshipdesk-backend/pkg/db/models"
	dbtypes "github.com/worshipdesk/worshipdesk-backend/pkg/db/types"
)

const eventTimeLayout = "15:04"

type EventDTO struct {
	ID           uuid.UUID        `json:"id"`
	ChurchID     uuid.UUID        `json:"church_id"`
	Title        string           `json:"title"`
	EventDate    dbtypes.Date     `json:"event_date"`
	EventTime    *string          `json:"event_time"`
	EventType    *string          `json:"event_type"`
	Location     *string          `json:"location"`
	SetlistID    *uuid.UUID       `json:"setlist_id"`
	Notes        *string          `json:"notes"`
	CreatedBy    *uuid.UUID       `json:"created_by"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
	Setlist      *SetlistSummary  `json:"setlist"`
	Participants []ParticipantDTO `json:"event_participants"`
}

// SetlistSummary is the slice of the linked setlist shown on the calendar.
type SetlistSummary struct {
	ID          uuid.UUID     `json:"id"`
	Name        string        `json:"name"`
	ServiceDate *dbtypes.Date `json:"service_date"`
	Status      string        `json:"status"`
}

type ParticipantDTO struct {
	ID       uuid.UUID          `json:"id"`
	EventID  uuid.UUID          `json:"event_id"`
	MemberID uuid.UUID          `json:"member_id"`
	Role     *string            `json:"role"`
	Status   string             `json:"status"`
	Member   *ParticipantMember `json:"member"`
}

type ParticipantMember struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}

type CreateEventInput struct {
	Title     string
	EventDate *dbtypes.Date
	EventTime *string
	EventType *string
	Location  *string
	SetlistID *uuid.UUID
	Notes     *string
	CreatedBy *uuid.UUID
}

type UpdateEventInput struct {
	Title     *string
	EventDate *dbtypes.Date
	EventTime *string
	EventType *string
	Location  *string
	SetlistID *uuid.UUID
	// ClearSetlist unlinks the setlist; SetlistID is ignored when set.
	ClearSetlist bool
	Notes        *string
}

func FromModel(m *models.Event) *EventDTO {
	if m == nil {
		return nil
	}
	dto := &EventDTO{
		ID:           m.ID,
		ChurchID:     m.ChurchID,
		Title:        m.Title,
		EventDate:    m.EventDate,
		EventTime:    m.EventTime,
		EventType:    m.EventType,
		Location:     m.Location,
		SetlistID:    m.SetlistID,
		Notes:        m.Notes,
		CreatedBy:    m.CreatedBy,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
		Participants: make([]ParticipantDTO, 0, len(m.Participants)),
	}
	if m.Setlist != nil {
		dto.Setlist = &SetlistSummary{
			ID:          m.Setlist.ID,
			Name:        m.Setlist.Name,
			ServiceDate: m.Setlist.ServiceDate,
			Status:      m.Setlist.Status.String(),
		}
	}
	for _, p := range m.Participants {
		participant := ParticipantDTO{
			ID:       p.ID,
			EventID:  p.EventID,
			MemberID: p.MemberID,
			Role:     p.Role,
			Status:   p.Status,
		}
		if p.Member != nil {
			participant.Member = &ParticipantMember{ID: p.Member.ID, Name: p.Member.Name, Email: p.Member.Email}
		}
		dto.Participants = append(dto.Participants, participant)
	}
	return dto
}

func FromModels(rows []models.Event) []EventDTO {
	out := make([]EventDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out
}

func (c CreateEventInput) ToModel(churchID uuid.UUID) *models.Event {
	event := &models.Event{
		ID:        uuid.New(),
		ChurchID:  churchID,
		Title:     strings.TrimSpace(c.Title),
		EventTime: c.EventTime,
		EventType: c.EventType,
		Location:  c.Location,
		SetlistID: c.SetlistID,
		Notes:     c.Notes,
		CreatedBy: c.CreatedBy,
	}
	if c.EventDate != nil {
		event.EventDate = *c.EventDate
	}
	return event
}

func (u UpdateEventInput) Fields() map[string]any {
	fields := map[string]any{}
	if u.Title != nil {
		fields["title"] = strings.TrimSpace(*u.Title)
	}
	if u.EventDate != nil {
		fields["event_date"] = *u.EventDate
	}
	if u.EventTime != nil {
		fields["event_time"] = *u.EventTime
	}
	if u.EventType != nil {
		fields["event_type"] = *u.EventType
	}
	if u.Location != nil {
		fields["location"] = *u.Location
	}
	switch {
	case u.ClearSetlist:
		fields["setlist_id"] = nil
	case u.SetlistID != nil:
		fields["setlist_id"] = *u.SetlistID
	}
	if u.Notes != nil {
		fields["notes"] = *u.Notes
	}
	return fields
}

// validTime accepts an empty value or HH:MM.
func validTime(value *string) bool {
	if value == nil || strings.TrimSpace(*value) == "" {
		return true
	}
	_, err := time.Parse(eventTimeLayout, strings.TrimSpace(*value))
	return err == nil
}
