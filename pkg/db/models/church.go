package models

import (
	"time"

	"github.com/google/uuid"
)

// Church is the single tenant row every other record hangs off.
type Church struct {
	ID         uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name       string    `gorm:"column:name;not null"`
	Address    *string   `gorm:"column:address"`
	Phone      *string   `gorm:"column:phone"`
	Email      *string   `gorm:"column:email"`
	PastorName *string   `gorm:"column:pastor_name"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
