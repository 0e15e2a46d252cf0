package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/worshipdesk/worshipdesk-backend/pkg/enums"
)

type Role struct {
	ID          uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name        enums.RoleName `gorm:"column:name;not null;uniqueIndex"`
	Description *string        `gorm:"column:description"`
	CreatedAt   time.Time      `gorm:"column:created_at;autoCreateTime"`
}

// UserRole grants a role to a member. (member_id, role_id) is unique.
type UserRole struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	MemberID  uuid.UUID `gorm:"column:member_id;type:uuid;not null"`
	RoleID    uuid.UUID `gorm:"column:role_id;type:uuid;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
