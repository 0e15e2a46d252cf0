package setlists

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/worshipdesk/worshipdesk-backend/internal/repo"
	"github.com/worshipdesk/worshipdesk-backend/pkg/db/models"
)

// Repository persists setlists and their ordered song entries.
type Repository struct {
	repo.Base
}

func NewRepository(db *gorm.DB, churchID uuid.UUID) *Repository {
	return &Repository{Base: repo.NewBase(db, churchID)}
}

// withSongs preloads entries in order_index order, each with its song.
func (r *Repository) withSongs(ctx context.Context) *gorm.DB {
	return r.Scoped(ctx).
		Preload("Songs", func(db *gorm.DB) *gorm.DB { return db.Order("order_index ASC") }).
		Preload("Songs.Song")
}

// List returns setlists newest service date first; undated setlists sort last.
func (r *Repository) List(ctx context.Context) ([]models.Setlist, error) {
	var rows []models.Setlist
	if err := r.withSongs(ctx).Order("service_date DESC NULLS LAST").Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Setlist, error) {
	var setlist models.Setlist
	if err := r.withSongs(ctx).First(&setlist, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &setlist, nil
}

func (r *Repository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Setlist, error) {
	if len(ids) == 0 {
		return []models.Setlist{}, nil
	}
	var rows []models.Setlist
	err := r.withSongs(ctx).
		Where("id IN ?", ids).
		Order("service_date DESC NULLS LAST").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// MostRecent returns the first setlist in list order, falling back to undated
// setlists when none has a service date.
func (r *Repository) MostRecent(ctx context.Context) (*models.Setlist, error) {
	var setlist models.Setlist
	err := r.withSongs(ctx).
		Order("service_date DESC NULLS LAST").
		Order("created_at DESC").
		First(&setlist).Error
	if err != nil {
		return nil, err
	}
	return &setlist, nil
}

func (r *Repository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.Scoped(ctx).Model(&models.Setlist{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *Repository) Create(ctx context.Context, setlist *models.Setlist) error {
	return r.DB(ctx).Omit("Songs").Create(setlist).Error
}

func (r *Repository) Update(ctx context.Context, id uuid.UUID, fields map[string]any) error {
	fields["updated_at"] = time.Now().UTC()
	return r.UpdateFields(ctx, &models.Setlist{}, id, fields)
}

// Delete removes the setlist and its entries.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.DB(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("setlist_id = ?", id).Delete(&models.SetlistSong{}).Error; err != nil {
			return err
		}
		return tx.Where("church_id = ? AND id = ?", r.ChurchID(), id).Delete(&models.Setlist{}).Error
	})
}

func (r *Repository) AddSong(ctx context.Context, entry *models.SetlistSong) error {
	return r.DB(ctx).Omit("Song").Create(entry).Error
}

func (r *Repository) RemoveSong(ctx context.Context, setlistID, songID uuid.UUID) error {
	return r.DB(ctx).
		Where("setlist_id = ? AND song_id = ?", setlistID, songID).
		Delete(&models.SetlistSong{}).Error
}

// MaxOrderIndex returns the highest order_index in the setlist, 0 when empty.
func (r *Repository) MaxOrderIndex(ctx context.Context, setlistID uuid.UUID) (int, error) {
	var highest int
	err := r.DB(ctx).
		Model(&models.SetlistSong{}).
		Where("setlist_id = ?", setlistID).
		Select("COALESCE(MAX(order_index), 0)").
		Scan(&highest).Error
	if err != nil {
		return 0, err
	}
	return highest, nil
}

func (r *Repository) FindEntry(ctx context.Context, id uuid.UUID) (*models.SetlistSong, error) {
	var entry models.SetlistSong
	if err := r.DB(ctx).Preload("Song").First(&entry, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}
