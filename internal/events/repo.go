package events

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/worshipdesk/worshipdesk-backend/internal/repo"
	"github.com/worshipdesk/worshipdesk-backend/pkg/db/models"
	dbtypes "github.com/worshipdesk/worshipdesk-backend/pkg/db/types"
)

type Repository struct {
	repo.Base
}

func NewRepository(db *gorm.DB, churchID uuid.UUID) *Repository {
	return &Repository{Base: repo.NewBase(db, churchID)}
}

func (r *Repository) withRelations(ctx context.Context) *gorm.DB {
	return r.Scoped(ctx).
		Preload("Setlist").
		Preload("Participants", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Preload("Participants.Member")
}

// List returns events in calendar order.
func (r *Repository) List(ctx context.Context) ([]models.Event, error) {
	var rows []models.Event
	if err := r.withRelations(ctx).Order("event_date ASC").Order("event_time ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Event, error) {
	var event models.Event
	if err := r.withRelations(ctx).First(&event, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &event, nil
}

// Upcoming returns events on or after from, soonest first.
func (r *Repository) Upcoming(ctx context.Context, from dbtypes.Date, limit int) ([]models.Event, error) {
	var rows []models.Event
	err := r.withRelations(ctx).
		Where("event_date >= ?", from).
		Order("event_date ASC").
		Order("event_time ASC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// CountUpcoming counts events on or after from.
func (r *Repository) CountUpcoming(ctx context.Context, from dbtypes.Date) (int64, error) {
	var count int64
	if err := r.Scoped(ctx).Model(&models.Event{}).Where("event_date >= ?", from).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *Repository) Create(ctx context.Context, event *models.Event) error {
	return r.DB(ctx).Omit("Setlist", "Participants").Create(event).Error
}

func (r *Repository) Update(ctx context.Context, id uuid.UUID, fields map[string]any) error {
	fields["updated_at"] = time.Now().UTC()
	return r.UpdateFields(ctx, &models.Event{}, id, fields)
}

// Delete removes the event and its participants.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.DB(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("event_id = ?", id).Delete(&models.EventParticipant{}).Error; err != nil {
			return err
		}
		return tx.Where("church_id = ? AND id = ?", r.ChurchID(), id).Delete(&models.Event{}).Error
	})
}
