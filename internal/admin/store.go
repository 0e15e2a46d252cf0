package admin

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/worshipdesk/worshipdesk-backend/pkg/db/models"
)

// Store is the member-side persistence used by the administrative workflows.
// It runs on the elevated connection and is not church scoped.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// FirstChurchID returns the oldest church row.
func (s *Store) FirstChurchID(ctx context.Context) (uuid.UUID, error) {
	var church models.Church
	if err := s.db.WithContext(ctx).Order("created_at ASC").First(&church).Error; err != nil {
		return uuid.Nil, err
	}
	return church.ID, nil
}

func (s *Store) CreateMember(ctx context.Context, member *models.Member) error {
	return s.db.WithContext(ctx).Create(member).Error
}

func (s *Store) FindMember(ctx context.Context, id uuid.UUID) (*models.Member, error) {
	var member models.Member
	if err := s.db.WithContext(ctx).First(&member, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &member, nil
}

func (s *Store) FindMemberByEmail(ctx context.Context, email string) (*models.Member, error) {
	var member models.Member
	err := s.db.WithContext(ctx).
		Where("LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email))).
		Order("created_at ASC").
		First(&member).Error
	if err != nil {
		return nil, err
	}
	return &member, nil
}

// LinkDefaultAdmin attaches the identity and flags the member as the
// protected bootstrap administrator.
func (s *Store) LinkDefaultAdmin(ctx context.Context, memberID, identityID uuid.UUID) error {
	res := s.db.WithContext(ctx).
		Model(&models.Member{}).
		Where("id = ?", memberID).
		Updates(map[string]any{
			"auth_user_id":     identityID,
			"is_default_admin": true,
			"updated_at":       time.Now().UTC(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (s *Store) DeleteMember(ctx context.Context, id uuid.UUID) error {
	return s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Member{}).Error
}

// ListMembers returns every member ordered by name.
func (s *Store) ListMembers(ctx context.Context) ([]models.Member, error) {
	var rows []models.Member
	if err := s.db.WithContext(ctx).Order("name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
