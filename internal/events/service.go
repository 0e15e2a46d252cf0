package events

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
	dbtypes "github.com/worshipdesk/worshipdesk-backend/pkg/db/types"
	pkgerrors "github.com/worshipdesk/worshipdesk-backend/pkg/errors"
)

// DefaultUpcomingLimit is used when GetUpcoming is called with a limit <= 0.
const DefaultUpcomingLimit = 5

type eventRepository interface {
	ChurchID() uuid.UUID
	List(ctx context.Context) ([]models.Event, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Event, error)
	Upcoming(ctx context.Context, from dbtypes.Date, limit int) ([]models.Event, error)
	Create(ctx context.Context, event *models.Event) error
	Update(ctx context.Context, id uuid.UUID, fields map[string]any) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// Service manages the church calendar.
type Service interface {
	GetAll(ctx context.Context) []EventDTO
	GetByID(ctx context.Context, id uuid.UUID) *EventDTO
	GetUpcoming(ctx context.Context, limit int) []EventDTO
	Create(ctx context.Context, input CreateEventInput) (*EventDTO, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateEventInput) (*EventDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo  eventRepository
	reads repo.ReadPolicy
	now   func() time.Time
}

func NewService(r eventRepository, reads repo.ReadPolicy, now func() time.Time) (Service, error) {
	if r == nil {
		return nil, fmt.Errorf("event repository required")
	}
	if now == nil {
		now = time.Now
	}
	return &service{repo: r, reads: reads, now: now}, nil
}

// Today is the current UTC calendar day according to clock.
func Today(clock func() time.Time) dbtypes.Date {
	return dbtypes.NewDate(clock().UTC())
}

func (s *service) GetAll(ctx context.Context) []EventDTO {
	rows, err := s.repo.List(ctx)
	if err != nil {
		s.reads.Fail(ctx, "events.get_all", err)
		return []EventDTO{}
	}
	return FromModels(rows)
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) *EventDTO {
	event, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.reads.Fail(ctx, "events.get_by_id", err)
		}
		return nil
	}
	return FromModel(event)
}

func (s *service) GetUpcoming(ctx context.Context, limit int) []EventDTO {
	if limit <= 0 {
		limit = DefaultUpcomingLimit
	}
	rows, err := s.repo.Upcoming(ctx, Today(s.now), limit)
	if err != nil {
		s.reads.Fail(ctx, "events.get_upcoming", err)
		return []EventDTO{}
	}
	return FromModels(rows)
}

func (s *service) Create(ctx context.Context, input CreateEventInput) (*EventDTO, error) {
	var missing []string
	if strings.TrimSpace(input.Title) == "" {
		missing = append(missing, "title")
	}
	if input.EventDate == nil || input.EventDate.IsZero() {
		missing = append(missing, "event_date")
	}
	switch len(missing) {
	case 1:
		return nil, pkgerrors.New(pkgerrors.CodeValidation, missing[0]+" is required")
	case 2:
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "title and event_date are required")
	}
	if !validTime(input.EventTime) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "event_time must be HH:MM")
	}

	event := input.ToModel(s.repo.ChurchID())
	if err := s.repo.Create(ctx, event); err != nil {
		return nil, pkgerrors.Store("Failed to create event", err)
	}
	stored, err := s.repo.FindByID(ctx, event.ID)
	if err != nil {
		return FromModel(event), nil
	}
	return FromModel(stored), nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateEventInput) (*EventDTO, error) {
	if input.Title != nil && strings.TrimSpace(*input.Title) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "title cannot be empty")
	}
	if input.EventDate != nil && input.EventDate.IsZero() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "event_date cannot be empty")
	}
	if !validTime(input.EventTime) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "event_time must be HH:MM")
	}
	if err := s.repo.Update(ctx, id, input.Fields()); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "event not found")
		}
		return nil, pkgerrors.Store("Failed to update event", err)
	}
	event, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Store("Failed to update event", err)
	}
	return FromModel(event), nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Store("Failed to delete event", err)
	}
	return nil
}
