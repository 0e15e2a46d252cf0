package setlists

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/worshipdesk/worshipdesk-backend/internal/repo"
	"github.com/worshipdesk/worshipdesk-backend/internal/songs"
	"github.com/worshipdesk/worshipdesk-backend/pkg/db/models"
	pkgerrors "github.com/worshipdesk/worshipdesk-backend/pkg/errors"
)

type setlistRepository interface {
	ChurchID() uuid.UUID
	List(ctx context.Context) ([]models.Setlist, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Setlist, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Setlist, error)
	MostRecent(ctx context.Context) (*models.Setlist, error)
	Create(ctx context.Context, setlist *models.Setlist) error
	Update(ctx context.Context, id uuid.UUID, fields map[string]any) error
	Delete(ctx context.Context, id uuid.UUID) error
	AddSong(ctx context.Context, entry *models.SetlistSong) error
	RemoveSong(ctx context.Context, setlistID, songID uuid.UUID) error
	MaxOrderIndex(ctx context.Context, setlistID uuid.UUID) (int, error)
	FindEntry(ctx context.Context, id uuid.UUID) (*models.SetlistSong, error)
}

type songLister interface {
	List(ctx context.Context) ([]models.Song, error)
}

// Service manages setlists and the ordered songs inside them.
type Service interface {
	GetAll(ctx context.Context) []SetlistDTO
	GetByID(ctx context.Context, id uuid.UUID) *SetlistDTO
	GetByIDs(ctx context.Context, ids []uuid.UUID) []SetlistDTO
	MostRecent(ctx context.Context) *SetlistDTO
	Create(ctx context.Context, input CreateSetlistInput) (*SetlistDTO, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateSetlistInput) (*SetlistDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
	AddSong(ctx context.Context, setlistID uuid.UUID, input AddSongInput) (*SetlistSongDTO, error)
	RemoveSong(ctx context.Context, setlistID, songID uuid.UUID) error
	Candidates(ctx context.Context, setlistID uuid.UUID, q string) []songs.SongDTO
}

type service struct {
	repo  setlistRepository
	songs songLister
	reads repo.ReadPolicy
}

func NewService(r setlistRepository, songLib songLister, reads repo.ReadPolicy) (Service, error) {
	if r == nil {
		return nil, fmt.Errorf("setlist repository required")
	}
	if songLib == nil {
		return nil, fmt.Errorf("song repository required")
	}
	return &service{repo: r, songs: songLib, reads: reads}, nil
}

func (s *service) GetAll(ctx context.Context) []SetlistDTO {
	rows, err := s.repo.List(ctx)
	if err != nil {
		s.reads.Fail(ctx, "setlists.get_all", err)
		return []SetlistDTO{}
	}
	return FromModels(rows)
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) *SetlistDTO {
	setlist, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.reads.Fail(ctx, "setlists.get_by_id", err)
		}
		return nil
	}
	return FromModel(setlist)
}

func (s *service) GetByIDs(ctx context.Context, ids []uuid.UUID) []SetlistDTO {
	rows, err := s.repo.FindByIDs(ctx, ids)
	if err != nil {
		s.reads.Fail(ctx, "setlists.get_by_ids", err)
		return []SetlistDTO{}
	}
	return FromModels(rows)
}

func (s *service) MostRecent(ctx context.Context) *SetlistDTO {
	setlist, err := s.repo.MostRecent(ctx)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.reads.Fail(ctx, "setlists.most_recent", err)
		}
		return nil
	}
	return FromModel(setlist)
}

func (s *service) Create(ctx context.Context, input CreateSetlistInput) (*SetlistDTO, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if input.Status != nil && !input.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid status")
	}
	setlist := input.ToModel(s.repo.ChurchID())
	if err := s.repo.Create(ctx, setlist); err != nil {
		return nil, pkgerrors.Store("Failed to create setlist", err)
	}
	stored, err := s.repo.FindByID(ctx, setlist.ID)
	if err != nil {
		return FromModel(setlist), nil
	}
	return FromModel(stored), nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateSetlistInput) (*SetlistDTO, error) {
	if input.Name != nil && strings.TrimSpace(*input.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name cannot be empty")
	}
	if input.Status != nil && !input.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid status")
	}
	if err := s.repo.Update(ctx, id, input.Fields()); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "setlist not found")
		}
		return nil, pkgerrors.Store("Failed to update setlist", err)
	}
	setlist, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Store("Failed to update setlist", err)
	}
	return FromModel(setlist), nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Store("Failed to delete setlist", err)
	}
	return nil
}

func (s *service) AddSong(ctx context.Context, setlistID uuid.UUID, input AddSongInput) (*SetlistSongDTO, error) {
	if input.SongID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "song_id is required")
	}
	orderIndex := 0
	if input.OrderIndex != nil {
		orderIndex = *input.OrderIndex
	} else {
		highest, err := s.repo.MaxOrderIndex(ctx, setlistID)
		if err != nil {
			return nil, pkgerrors.Store("Failed to add song to setlist", err)
		}
		orderIndex = highest + 1
	}

	entry := &models.SetlistSong{
		ID:          uuid.New(),
		SetlistID:   setlistID,
		SongID:      input.SongID,
		OrderIndex:  orderIndex,
		KeyOverride: input.KeyOverride,
		Notes:       input.Notes,
	}
	if err := s.repo.AddSong(ctx, entry); err != nil {
		return nil, pkgerrors.Store("Failed to add song to setlist", err)
	}
	if stored, err := s.repo.FindEntry(ctx, entry.ID); err == nil {
		entry = stored
	}
	dto := entryFromModel(entry)
	return &dto, nil
}

func (s *service) RemoveSong(ctx context.Context, setlistID, songID uuid.UUID) error {
	if err := s.repo.RemoveSong(ctx, setlistID, songID); err != nil {
		return pkgerrors.Store("Failed to remove song from setlist", err)
	}
	return nil
}

// Candidates lists library songs not yet in the setlist, narrowed by a
// title/genre query.
func (s *service) Candidates(ctx context.Context, setlistID uuid.UUID, q string) []songs.SongDTO {
	rows, err := s.songs.List(ctx)
	if err != nil {
		s.reads.Fail(ctx, "setlists.candidates", err)
		return []songs.SongDTO{}
	}
	var existing []SetlistSongDTO
	if current := s.GetByID(ctx, setlistID); current != nil {
		existing = current.Songs
	}
	return FilterCandidates(songs.FromModels(rows), existing, q)
}
