// Package roles reads and writes the fixed role catalog and member role
// assignments.
package roles

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/worshipdesk/worshipdesk-backend/pkg/db/models"
	"github.com/worshipdesk/worshipdesk-backend/pkg/enums"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// All returns the role catalog ordered by name.
func (r *Repository) All(ctx context.Context) ([]models.Role, error) {
	var rows []models.Role
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *Repository) FindByName(ctx context.Context, name enums.RoleName) (*models.Role, error) {
	var role models.Role
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&role).Error; err != nil {
		return nil, err
	}
	return &role, nil
}

// FindByNames resolves several names in one query. Unknown names are absent
// from the result.
func (r *Repository) FindByNames(ctx context.Context, names []string) ([]models.Role, error) {
	if len(names) == 0 {
		return []models.Role{}, nil
	}
	var rows []models.Role
	if err := r.db.WithContext(ctx).Where("name IN ?", names).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ForMember returns the member's assignment rows.
func (r *Repository) ForMember(ctx context.Context, memberID uuid.UUID) ([]models.UserRole, error) {
	var rows []models.UserRole
	if err := r.db.WithContext(ctx).Where("member_id = ?", memberID).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Assignments returns every assignment row.
func (r *Repository) Assignments(ctx context.Context) ([]models.UserRole, error) {
	var rows []models.UserRole
	if err := r.db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *Repository) Assign(ctx context.Context, memberID, roleID uuid.UUID) error {
	return r.db.WithContext(ctx).Create(&models.UserRole{ID: uuid.New(), MemberID: memberID, RoleID: roleID}).Error
}

func (r *Repository) Unassign(ctx context.Context, memberID, roleID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("member_id = ? AND role_id = ?", memberID, roleID).
		Delete(&models.UserRole{}).Error
}

// UnassignAll drops every assignment of the member.
func (r *Repository) UnassignAll(ctx context.Context, memberID uuid.UUID) error {
	return r.db.WithContext(ctx).Where("member_id = ?", memberID).Delete(&models.UserRole{}).Error
}
