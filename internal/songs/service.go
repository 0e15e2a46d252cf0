package songs

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/worshipdesk/worshipdesk-backend/internal/repo"
	"github.com/worshipdesk/worshipdesk-backend/pkg/db/models"
	pkgerrors "github.com/worshipdesk/worshipdesk-backend/pkg/errors"
)

type songRepository interface {
	ChurchID() uuid.UUID
	List(ctx context.Context) ([]models.Song, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Song, error)
	Search(ctx context.Context, q string) ([]models.Song, error)
	Create(ctx context.Context, song *models.Song) error
	Update(ctx context.Context, id uuid.UUID, fields map[string]any) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// Service exposes the song library. Reads never fail: a store error is logged
// and the empty value is returned. Writes always surface their error.
type Service interface {
	GetAll(ctx context.Context) []SongDTO
	GetByID(ctx context.Context, id uuid.UUID) *SongDTO
	Search(ctx context.Context, q string) []SongDTO
	Create(ctx context.Context, input CreateSongInput) (*SongDTO, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateSongInput) (*SongDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo  songRepository
	reads repo.ReadPolicy
}

func NewService(r songRepository, reads repo.ReadPolicy) (Service, error) {
	if r == nil {
		return nil, fmt.Errorf("song repository required")
	}
	return &service{repo: r, reads: reads}, nil
}

func (s *service) GetAll(ctx context.Context) []SongDTO {
	rows, err := s.repo.List(ctx)
	if err != nil {
		s.reads.Fail(ctx, "songs.get_all", err)
		return []SongDTO{}
	}
	return FromModels(rows)
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) *SongDTO {
	song, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.reads.Fail(ctx, "songs.get_by_id", err)
		}
		return nil
	}
	return FromModel(song)
}

func (s *service) Search(ctx context.Context, q string) []SongDTO {
	if strings.TrimSpace(q) == "" {
		return s.GetAll(ctx)
	}
	rows, err := s.repo.Search(ctx, q)
	if err != nil {
		s.reads.Fail(ctx, "songs.search", err)
		return []SongDTO{}
	}
	return FromModels(rows)
}

func (s *service) Create(ctx context.Context, input CreateSongInput) (*SongDTO, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "title is required")
	}
	song := input.ToModel(s.repo.ChurchID())
	if err := s.repo.Create(ctx, song); err != nil {
		return nil, pkgerrors.Store("Failed to create song", err)
	}
	return s.reload(ctx, song.ID, song)
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateSongInput) (*SongDTO, error) {
	if input.Title != nil && strings.TrimSpace(*input.Title) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "title cannot be empty")
	}
	if err := s.repo.Update(ctx, id, input.Fields()); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "song not found")
		}
		return nil, pkgerrors.Store("Failed to update song", err)
	}
	song, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Store("Failed to update song", err)
	}
	return FromModel(song), nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Store("Failed to delete song", err)
	}
	return nil
}

// reload fetches the stored row so defaults and timestamps are reflected,
// falling back to the inserted model.
func (s *service) reload(ctx context.Context, id uuid.UUID, inserted *models.Song) (*SongDTO, error) {
	song, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return FromModel(inserted), nil
	}
	return FromModel(song), nil
}
