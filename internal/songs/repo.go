package songs

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/worshipdesk/worshipdesk-backend/internal/repo"
	"github.com/worshipdesk/worshipdesk-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository exposes song persistence scoped to one church.
type Repository struct {
	repo.Base
}

func NewRepository(db *gorm.DB, churchID uuid.UUID) *Repository {
	return &Repository{Base: repo.NewBase(db, churchID)}
}

// List returns every song ordered by title.
func (r *Repository) List(ctx context.Context) ([]models.Song, error) {
	var rows []models.Song
	if err := r.Scoped(ctx).Order("title ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// FindByID loads a song by id.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Song, error) {
	var song models.Song
	if err := r.Scoped(ctx).First(&song, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &song, nil
}

// FindByIDs loads the given songs ordered by title. Unknown ids are skipped.
func (r *Repository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Song, error) {
	if len(ids) == 0 {
		return []models.Song{}, nil
	}
	var rows []models.Song
	if err := r.Scoped(ctx).Where("id IN ?", ids).Order("title ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Search matches title or artist case-insensitively.
func (r *Repository) Search(ctx context.Context, q string) ([]models.Song, error) {
	pattern := repo.ContainsPattern(q)
	var rows []models.Song
	err := r.Scoped(ctx).
		Where(`(LOWER(title) LIKE ? ESCAPE '\') OR (LOWER(COALESCE(artist, '')) LIKE ? ESCAPE '\')`, pattern, pattern).
		Order("title ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// RecentlyUsed returns songs with last_used set, newest first.
func (r *Repository) RecentlyUsed(ctx context.Context, limit int) ([]models.Song, error) {
	var rows []models.Song
	err := r.Scoped(ctx).
		Where("last_used IS NOT NULL").
		Order("last_used DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// Count returns the number of songs in the library.
func (r *Repository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.Scoped(ctx).Model(&models.Song{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *Repository) Create(ctx context.Context, song *models.Song) error {
	return r.DB(ctx).Create(song).Error
}

// Update applies fields and bumps updated_at.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, fields map[string]any) error {
	fields["updated_at"] = time.Now().UTC()
	return r.UpdateFields(ctx, &models.Song{}, id, fields)
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.Scoped(ctx).Where("id = ?", id).Delete(&models.Song{}).Error
}
