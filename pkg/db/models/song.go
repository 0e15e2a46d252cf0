package models

import (
	"time"

	"github.com/google/uuid"
	dbtypes "github.com/worshipdesk/worshipdesk-backend/pkg/db/types"
)

type Song struct {
	ID         uuid.UUID           `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	ChurchID   uuid.UUID           `gorm:"column:church_id;type:uuid;not null"`
	Title      string              `gorm:"column:title;not null"`
	Artist     *string             `gorm:"column:artist"`
	Key        *string             `gorm:"column:key"`
	Tempo      *int                `gorm:"column:tempo"`
	Genre      *string             `gorm:"column:genre"`
	Duration   *string             `gorm:"column:duration"`
	CCLINumber *string             `gorm:"column:ccli_number"`
	Copyright  *string             `gorm:"column:copyright"`
	Lyrics     *string             `gorm:"column:lyrics"`
	Chords     *string             `gorm:"column:chords"`
	Notes      *string             `gorm:"column:notes"`
	Tags       dbtypes.StringArray `gorm:"column:tags;type:text[];not null;default:'{}'"`
	LastUsed   *dbtypes.Date       `gorm:"column:last_used"`
	CreatedAt  time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
