package models

import (
	"time"

	"github.com/google/uuid"
	dbtypes "github.com/worshipdesk/worshipdesk-backend/pkg/db/types"
)

type Event struct {
	ID        uuid.UUID    `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	ChurchID  uuid.UUID    `gorm:"column:church_id;type:uuid;not null"`
	Title     string       `gorm:"column:title;not null"`
	EventDate dbtypes.Date `gorm:"column:event_date;not null"`
	EventTime *string      `gorm:"column:event_time"`
	EventType *string      `gorm:"column:event_type"`
	Location  *string      `gorm:"column:location"`
	SetlistID *uuid.UUID   `gorm:"column:setlist_id;type:uuid"`
	Notes     *string      `gorm:"column:notes"`
	CreatedBy *uuid.UUID   `gorm:"column:created_by;type:uuid"`
	CreatedAt time.Time    `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time    `gorm:"column:updated_at;autoUpdateTime"`

	Setlist      *Setlist           `gorm:"foreignKey:SetlistID"`
	Participants []EventParticipant `gorm:"foreignKey:EventID"`
}

type EventParticipant struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	EventID   uuid.UUID `gorm:"column:event_id;type:uuid;not null"`
	MemberID  uuid.UUID `gorm:"column:member_id;type:uuid;not null"`
	Role      *string   `gorm:"column:role"`
	Status    string    `gorm:"column:status;not null;default:invited"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`

	Member *Member `gorm:"foreignKey:MemberID"`
}
