package models

import (
	"time"

	"github.com/google/uuid"
	dbtypes "github.com/worshipdesk/worshipdesk-backend/pkg/db/types"
	"github.com/worshipdesk/worshipdesk-backend/pkg/enums"
)

// Member is a person on the worship team roster. AuthUserID links the row to
// a login identity once one has been provisioned.
type Member struct {
	ID             uuid.UUID           `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	ChurchID       uuid.UUID           `gorm:"column:church_id;type:uuid;not null"`
	Email          string              `gorm:"column:email;not null"`
	Name           string              `gorm:"column:name;not null"`
	Phone          *string             `gorm:"column:phone"`
	Role           *string             `gorm:"column:role"`
	Instruments    dbtypes.StringArray `gorm:"column:instruments;type:text[];not null;default:'{}'"`
	Status         enums.MemberStatus  `gorm:"column:status;not null;default:active"`
	JoinDate       *dbtypes.Date       `gorm:"column:join_date"`
	AvatarURL      *string             `gorm:"column:avatar_url"`
	Notes          *string             `gorm:"column:notes"`
	AuthUserID     *uuid.UUID          `gorm:"column:auth_user_id;type:uuid"`
	IsDefaultAdmin bool                `gorm:"column:is_default_admin;not null;default:false"`
	CreatedAt      time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
