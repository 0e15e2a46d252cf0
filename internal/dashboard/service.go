// Package dashboard aggregates library, roster and calendar counts and runs
// the connectivity and schema probes behind the health report.
package dashboard

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/worshipdesk/worshipdesk-backend/internal/repo"
	"github.com/worshipdesk/worshipdesk-backend/internal/songs"
	"github.com/worshipdesk/worshipdesk-backend/pkg/db"
	"github.com/worshipdesk/worshipdesk-backend/pkg/db/models"
	dbtypes "github.com/worshipdesk/worshipdesk-backend/pkg/db/types"
)

// DefaultRecentSongsLimit applies when GetRecentSongs gets a limit <= 0.
const DefaultRecentSongsLimit = 5

type Stats struct {
	TotalSongs     int64 `json:"totalSongs"`
	TotalMembers   int64 `json:"totalMembers"`
	TotalSetlists  int64 `json:"totalSetlists"`
	UpcomingEvents int64 `json:"upcomingEvents"`
}

// HealthReport is the store half of GET /api/health.
type HealthReport struct {
	Connected bool  `json:"connected"`
	SchemaOK  bool  `json:"schemaOk"`
	Stats     Stats `json:"stats"`
}

type counter interface {
	Count(ctx context.Context) (int64, error)
}

type songReader interface {
	counter
	RecentlyUsed(ctx context.Context, limit int) ([]models.Song, error)
}

type upcomingCounter interface {
	CountUpcoming(ctx context.Context, from dbtypes.Date) (int64, error)
}

// Deps wires the repositories the dashboard reads from.
type Deps struct {
	DB       *gorm.DB
	Songs    songReader
	Members  counter
	Setlists counter
	Events   upcomingCounter
	Reads    repo.ReadPolicy
	Now      func() time.Time
}

type Service interface {
	GetStats(ctx context.Context) Stats
	GetRecentSongs(ctx context.Context, limit int) []songs.SongDTO
	TestConnection(ctx context.Context) bool
	Health(ctx context.Context) HealthReport
}

type service struct {
	db       *gorm.DB
	songs    songReader
	members  counter
	setlists counter
	events   upcomingCounter
	reads    repo.ReadPolicy
	now      func() time.Time
}

func NewService(deps Deps) (Service, error) {
	if deps.DB == nil {
		return nil, fmt.Errorf("db required")
	}
	if deps.Songs == nil || deps.Members == nil || deps.Setlists == nil || deps.Events == nil {
		return nil, fmt.Errorf("dashboard repositories required")
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		db:       deps.DB,
		songs:    deps.Songs,
		members:  deps.Members,
		setlists: deps.Setlists,
		events:   deps.Events,
		reads:    deps.Reads,
		now:      now,
	}, nil
}

// GetStats runs the four counts concurrently. Each failed count reads as 0;
// a failed connectivity probe zeroes everything.
func (s *service) GetStats(ctx context.Context) Stats {
	if !s.TestConnection(ctx) {
		return Stats{}
	}

	var stats Stats
	today := dbtypes.NewDate(s.now().UTC())
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		stats.TotalSongs = s.count(gctx, "dashboard.count_songs", s.songs.Count)
		return nil
	})
	g.Go(func() error {
		stats.TotalMembers = s.count(gctx, "dashboard.count_members", s.members.Count)
		return nil
	})
	g.Go(func() error {
		stats.TotalSetlists = s.count(gctx, "dashboard.count_setlists", s.setlists.Count)
		return nil
	})
	g.Go(func() error {
		stats.UpcomingEvents = s.count(gctx, "dashboard.count_upcoming_events", func(ctx context.Context) (int64, error) {
			return s.events.CountUpcoming(ctx, today)
		})
		return nil
	})
	_ = g.Wait()
	return stats
}

func (s *service) count(ctx context.Context, op string, fn func(context.Context) (int64, error)) int64 {
	n, err := fn(ctx)
	if err != nil {
		s.reads.Fail(ctx, op, err)
		return 0
	}
	return n
}

func (s *service) GetRecentSongs(ctx context.Context, limit int) []songs.SongDTO {
	if limit <= 0 {
		limit = DefaultRecentSongsLimit
	}
	rows, err := s.songs.RecentlyUsed(ctx, limit)
	if err != nil {
		s.reads.Fail(ctx, "dashboard.recent_songs", err)
		return []songs.SongDTO{}
	}
	return songs.FromModels(rows)
}

// TestConnection selects from churches.
func (s *service) TestConnection(ctx context.Context) bool {
	var ids []string
	if err := s.db.WithContext(ctx).Model(&models.Church{}).Limit(1).Pluck("id", &ids).Error; err != nil {
		s.reads.Fail(ctx, "dashboard.test_connection", err)
		return false
	}
	return true
}

func (s *service) Health(ctx context.Context) HealthReport {
	report := HealthReport{Connected: s.TestConnection(ctx)}
	if !report.Connected {
		return report
	}
	report.SchemaOK = s.schemaOK(ctx)
	report.Stats = s.GetStats(ctx)
	return report
}

// schemaOK probes the songs table. Only a missing relation marks the schema
// as absent; other errors are treated as transient.
func (s *service) schemaOK(ctx context.Context) bool {
	var ids []string
	err := s.db.WithContext(ctx).Model(&models.Song{}).Limit(1).Pluck("id", &ids).Error
	if err == nil {
		return true
	}
	if db.IsUndefinedTable(err) {
		return false
	}
	s.reads.Fail(ctx, "dashboard.schema_probe", err)
	return true
}
