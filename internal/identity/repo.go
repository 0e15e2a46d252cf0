package identity

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/worshipdesk/worshipdesk-backend/pkg/db/models"
)

// Repository persists login identities. Identities are not church scoped.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// NormalizeEmail is the stored form of an address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (r *Repository) Create(ctx context.Context, identity *models.AuthIdentity) error {
	identity.Email = NormalizeEmail(identity.Email)
	return r.db.WithContext(ctx).Create(identity).Error
}

func (r *Repository) FindByEmail(ctx context.Context, email string) (*models.AuthIdentity, error) {
	var identity models.AuthIdentity
	if err := r.db.WithContext(ctx).Where("email = ?", NormalizeEmail(email)).First(&identity).Error; err != nil {
		return nil, err
	}
	return &identity, nil
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.AuthIdentity, error) {
	var identity models.AuthIdentity
	if err := r.db.WithContext(ctx).First(&identity, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &identity, nil
}

func (r *Repository) UpdateLastSignIn(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.AuthIdentity{}).
		Where("id = ?", id).
		UpdateColumn("last_sign_in_at", at).Error
}

func (r *Repository) UpdatePassword(ctx context.Context, id uuid.UUID, hash string) error {
	res := r.db.WithContext(ctx).
		Model(&models.AuthIdentity{}).
		Where("id = ?", id).
		UpdateColumns(map[string]any{"password_hash": hash, "updated_at": time.Now().UTC()})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.AuthIdentity{}).Error
}
