package models

import (
	"time"

	"github.com/google/uuid"
	dbtypes "github.com/worshipdesk/worshipdesk-backend/pkg/db/types"
	"github.com/worshipdesk/worshipdesk-backend/pkg/enums"
)

type Setlist struct {
	ID          uuid.UUID           `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	ChurchID    uuid.UUID           `gorm:"column:church_id;type:uuid;not null"`
	Name        string              `gorm:"column:name;not null"`
	ServiceDate *dbtypes.Date       `gorm:"column:service_date"`
	ServiceType *string             `gorm:"column:service_type"`
	Status      enums.SetlistStatus `gorm:"column:status;not null;default:draft"`
	Notes       *string             `gorm:"column:notes"`
	CreatedBy   *uuid.UUID          `gorm:"column:created_by;type:uuid"`
	CreatedAt   time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time           `gorm:"column:updated_at;autoUpdateTime"`

	Songs []SetlistSong `gorm:"foreignKey:SetlistID"`
}

// SetlistSong places a song in a setlist. OrderIndex only grows as songs are
// appended; removing an entry leaves a gap.
type SetlistSong struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	SetlistID   uuid.UUID `gorm:"column:setlist_id;type:uuid;not null"`
	SongID      uuid.UUID `gorm:"column:song_id;type:uuid;not null"`
	OrderIndex  int       `gorm:"column:order_index;not null"`
	KeyOverride *string   `gorm:"column:key_override"`
	Notes       *string   `gorm:"column:notes"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`

	Song *Song `gorm:"foreignKey:SongID"`
}
