package members

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/worshipdesk/worshipdesk-backend/internal/repo"
	"github.com/worshipdesk/worshipdesk-backend/pkg/db/models"
	pkgerrors "github.com/worshipdesk/worshipdesk-backend/pkg/errors"
)

// ErrDefaultAdminProtected is returned when deleting the bootstrap
// administrator.
var ErrDefaultAdminProtected = pkgerrors.New(pkgerrors.CodeConflict, "The default administrator cannot be deleted.")

type memberRepository interface {
	ChurchID() uuid.UUID
	List(ctx context.Context) ([]models.Member, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Member, error)
	Create(ctx context.Context, member *models.Member) error
	Update(ctx context.Context, id uuid.UUID, fields map[string]any) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// Service manages the team roster.
type Service interface {
	GetAll(ctx context.Context) []MemberDTO
	GetByID(ctx context.Context, id uuid.UUID) *MemberDTO
	Create(ctx context.Context, input CreateMemberInput) (*MemberDTO, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateMemberInput) (*MemberDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo  memberRepository
	reads repo.ReadPolicy
	now   func() time.Time
}

func NewService(r memberRepository, reads repo.ReadPolicy) (Service, error) {
	if r == nil {
		return nil, fmt.Errorf("member repository required")
	}
	return &service{repo: r, reads: reads, now: time.Now}, nil
}

func (s *service) GetAll(ctx context.Context) []MemberDTO {
	rows, err := s.repo.List(ctx)
	if err != nil {
		s.reads.Fail(ctx, "members.get_all", err)
		return []MemberDTO{}
	}
	return FromModels(rows)
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) *MemberDTO {
	member, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.reads.Fail(ctx, "members.get_by_id", err)
		}
		return nil
	}
	return FromModel(member)
}

func (s *service) Create(ctx context.Context, input CreateMemberInput) (*MemberDTO, error) {
	if missing := missingFields(input.Name, input.Email); missing != "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, missing+" required")
	}
	if input.Status != nil && !input.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid status")
	}
	member := input.ToModel(s.repo.ChurchID(), s.now().UTC())
	if err := s.repo.Create(ctx, member); err != nil {
		return nil, pkgerrors.Store("Failed to create member", err)
	}
	stored, err := s.repo.FindByID(ctx, member.ID)
	if err != nil {
		return FromModel(member), nil
	}
	return FromModel(stored), nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateMemberInput) (*MemberDTO, error) {
	if input.Name != nil && strings.TrimSpace(*input.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name cannot be empty")
	}
	if input.Email != nil && strings.TrimSpace(*input.Email) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email cannot be empty")
	}
	if input.Status != nil && !input.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid status")
	}
	if err := s.repo.Update(ctx, id, input.Fields()); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "member not found")
		}
		return nil, pkgerrors.Store("Failed to update member", err)
	}
	member, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Store("Failed to update member", err)
	}
	return FromModel(member), nil
}

// Delete removes a member. The default administrator is protected; a missing
// row is not an error.
func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	member, err := s.repo.FindByID(ctx, id)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil
	case err != nil:
		return pkgerrors.Store("Failed to delete member", err)
	case member.IsDefaultAdmin:
		return ErrDefaultAdminProtected
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Store("Failed to delete member", err)
	}
	return nil
}

func missingFields(name, email string) string {
	var missing []string
	if strings.TrimSpace(name) == "" {
		missing = append(missing, "name")
	}
	if strings.TrimSpace(email) == "" {
		missing = append(missing, "email")
	}
	switch len(missing) {
	case 0:
		return ""
	case 1:
		return missing[0] + " is"
	default:
		return strings.Join(missing, " and ") + " are"
	}
}
