package members

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/worshipdesk/worshipdesk-backend/internal/repo"
	"github.com/worshipdesk/worshipdesk-backend/pkg/db/models"
)

// Repository persists roster entries for one church.
type Repository struct {
	repo.Base
}

func NewRepository(db *gorm.DB, churchID uuid.UUID) *Repository {
	return &Repository{Base: repo.NewBase(db, churchID)}
}

func (r *Repository) List(ctx context.Context) ([]models.Member, error) {
	var rows []models.Member
	if err := r.Scoped(ctx).Order("name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Member, error) {
	var member models.Member
	if err := r.Scoped(ctx).First(&member, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &member, nil
}

// FindByAuthUserID returns the member linked to a login identity. The lookup
// spans churches since admins may provision members into any of them.
func (r *Repository) FindByAuthUserID(ctx context.Context, identityID uuid.UUID) (*models.Member, error) {
	var member models.Member
	if err := r.DB(ctx).First(&member, "auth_user_id = ?", identityID).Error; err != nil {
		return nil, err
	}
	return &member, nil
}

// FindByEmail matches the address case-insensitively.
func (r *Repository) FindByEmail(ctx context.Context, email string) (*models.Member, error) {
	var member models.Member
	err := r.Scoped(ctx).
		Where("LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&member).Error
	if err != nil {
		return nil, err
	}
	return &member, nil
}

func (r *Repository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.Scoped(ctx).Model(&models.Member{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *Repository) Create(ctx context.Context, member *models.Member) error {
	return r.DB(ctx).Create(member).Error
}

func (r *Repository) Update(ctx context.Context, id uuid.UUID, fields map[string]any) error {
	fields["updated_at"] = time.Now().UTC()
	return r.UpdateFields(ctx, &models.Member{}, id, fields)
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.Scoped(ctx).Where("id = ?", id).Delete(&models.Member{}).Error
}
