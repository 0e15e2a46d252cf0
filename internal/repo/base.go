package repo

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base provides a shared foundation for the church-scoped repositories.
type Base struct {
	db       *gorm.DB
	churchID uuid.UUID
}

// NewBase constructs a Base repository bound to a connection and the church
// every query is scoped to.
func NewBase(db *gorm.DB, churchID uuid.UUID) Base {
	return Base{db: db, churchID: churchID}
}

// DB returns the GORM connection bound to the supplied context (if any).
func (b Base) DB(ctx context.Context) *gorm.DB {
	if ctx == nil {
		return b.db
	}
	return b.db.WithContext(ctx)
}

// Scoped returns a query already filtered to the configured church.
func (b Base) Scoped(ctx context.Context) *gorm.DB {
	return b.DB(ctx).Where("church_id = ?", b.churchID)
}

// ChurchID is the tenant id stamped on new rows.
func (b Base) ChurchID() uuid.UUID {
	return b.churchID
}

// UpdateFields applies a partial update to one church-scoped row and reports
// gorm.ErrRecordNotFound when nothing matched.
func (b Base) UpdateFields(ctx context.Context, model any, id uuid.UUID, fields map[string]any) error {
	if len(fields) == 0 {
		var count int64
		if err := b.Scoped(ctx).Model(model).Where("id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	}
	res := b.Scoped(ctx).Model(model).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ContainsPattern builds a LIKE pattern for a case-insensitive substring
// match against LOWER(column).
func ContainsPattern(q string) string {
	q = strings.ToLower(strings.TrimSpace(q))
	q = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(q)
	return "%" + q + "%"
}
