package setlists

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/worshipdesk/worshipdesk-backend/internal/repo"
	"github.com/worshipdesk/worshipdesk-backend/internal/songs"
	"github.com/worshipdesk/worshipdesk-backend/internal/testdb"
	"github.com/worshipdesk/worshipdesk-backend/pkg/db/models"
	dbtypes "github.com/worshipdesk/worshipdesk-backend/pkg/db/types"
	"github.com/worshipdesk/worshipdesk-backend/pkg/enums"
	pkgerrors "github.com/worshipdesk/worshipdesk-backend/pkg/errors"
	"github.com/worshipdesk/worshipdesk-backend/pkg/logger"
)

func newTestService(t *testing.T) (Service, *gorm.DB) {
	t.Helper()
	conn := testdb.Open(t)
	svc, err := NewService(
		NewRepository(conn, testdb.ChurchID),
		songs.NewRepository(conn, testdb.ChurchID),
		repo.NewReadPolicy(logger.Nop(), nil),
	)
	require.NoError(t, err)
	return svc, conn
}

func date(y int, m time.Month, d int) *dbtypes.Date {
	v := dbtypes.NewDate(time.Date(y, m, d, 0, 0, 0, 0, time.UTC))
	return &v
}

func TestCreateDefaultsToDraft(t *testing.T) {
	svc, _ := newTestService(t)
	created, err := svc.Create(context.Background(), CreateSetlistInput{Name: "Sunday AM", ServiceDate: date(2024, 5, 5)})
	require.NoError(t, err)
	assert.Equal(t, enums.SetlistStatusDraft, created.Status)
	assert.NotNil(t, created.Songs)

	_, err = svc.Create(context.Background(), CreateSetlistInput{Name: " "})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestAddSongAppendsAndRemoveLeavesGaps(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()
	first := testdb.InsertSong(t, conn, "First", func(s *models.Song) { s.Key = testdb.Ptr("G") })
	second := testdb.InsertSong(t, conn, "Second")
	third := testdb.InsertSong(t, conn, "Third")

	setlist, err := svc.Create(ctx, CreateSetlistInput{Name: "Evening"})
	require.NoError(t, err)

	e1, err := svc.AddSong(ctx, setlist.ID, AddSongInput{SongID: first.ID})
	require.NoError(t, err)
	assert.Equal(t, 1, e1.OrderIndex)
	require.NotNil(t, e1.Song)
	assert.Equal(t, "First", e1.Song.Title)

	e2, err := svc.AddSong(ctx, setlist.ID, AddSongInput{SongID: second.ID, KeyOverride: testdb.Ptr("A")})
	require.NoError(t, err)
	assert.Equal(t, 2, e2.OrderIndex)

	require.NoError(t, svc.RemoveSong(ctx, setlist.ID, first.ID))

	got := svc.GetByID(ctx, setlist.ID)
	require.NotNil(t, got)
	require.Len(t, got.Songs, 1)
	assert.Equal(t, 2, got.Songs[0].OrderIndex, "removal does not renumber")

	e3, err := svc.AddSong(ctx, setlist.ID, AddSongInput{SongID: third.ID})
	require.NoError(t, err)
	assert.Equal(t, 3, e3.OrderIndex)

	got = svc.GetByID(ctx, setlist.ID)
	require.Len(t, got.Songs, 2)
	assert.Equal(t, "Second", got.Songs[0].Song.Title)
	assert.Equal(t, "A", got.Songs[0].DisplayKey())
	assert.Equal(t, "Third", got.Songs[1].Song.Title)
}

func TestAddSongHonorsExplicitOrderIndex(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()
	song := testdb.InsertSong(t, conn, "Pinned")
	setlist, err := svc.Create(ctx, CreateSetlistInput{Name: "Special"})
	require.NoError(t, err)

	entry, err := svc.AddSong(ctx, setlist.ID, AddSongInput{SongID: song.ID, OrderIndex: testdb.Ptr(10)})
	require.NoError(t, err)
	assert.Equal(t, 10, entry.OrderIndex)

	_, err = svc.AddSong(ctx, setlist.ID, AddSongInput{})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestCandidatesExcludePlacedSongs(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()
	placed := testdb.InsertSong(t, conn, "Already In")
	testdb.InsertSong(t, conn, "Available Hymn", func(s *models.Song) { s.Genre = testdb.Ptr("Hymn") })
	testdb.InsertSong(t, conn, "Available Anthem", func(s *models.Song) { s.Genre = testdb.Ptr("Worship") })

	setlist, err := svc.Create(ctx, CreateSetlistInput{Name: "Picker"})
	require.NoError(t, err)
	_, err = svc.AddSong(ctx, setlist.ID, AddSongInput{SongID: placed.ID})
	require.NoError(t, err)

	all := svc.Candidates(ctx, setlist.ID, "")
	require.Len(t, all, 2)
	for _, s := range all {
		assert.NotEqual(t, placed.ID, s.ID)
	}

	byGenre := svc.Candidates(ctx, setlist.ID, "hymn")
	require.Len(t, byGenre, 1)
	assert.Equal(t, "Available Hymn", byGenre[0].Title)
}

func TestGetAllOrdersByServiceDateAndMostRecent(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	_, err := svc.Create(ctx, CreateSetlistInput{Name: "Older", ServiceDate: date(2024, 1, 7)})
	require.NoError(t, err)
	_, err = svc.Create(ctx, CreateSetlistInput{Name: "Undated"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, CreateSetlistInput{Name: "Newer", ServiceDate: date(2024, 2, 4)})
	require.NoError(t, err)

	all := svc.GetAll(ctx)
	require.Len(t, all, 3)
	assert.Equal(t, "Newer", all[0].Name)
	assert.Equal(t, "Older", all[1].Name)
	assert.Equal(t, "Undated", all[2].Name)

	recent := svc.MostRecent(ctx)
	require.NotNil(t, recent)
	assert.Equal(t, "Newer", recent.Name)
}

func TestMostRecentFallsBackToUndated(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	assert.Nil(t, svc.MostRecent(ctx))

	_, err := svc.Create(ctx, CreateSetlistInput{Name: "Rehearsal"})
	require.NoError(t, err)

	recent := svc.MostRecent(ctx)
	require.NotNil(t, recent)
	assert.Equal(t, "Rehearsal", recent.Name)

	_, err = svc.Create(ctx, CreateSetlistInput{Name: "Easter", ServiceDate: date(2024, 3, 31)})
	require.NoError(t, err)
	assert.Equal(t, "Easter", svc.MostRecent(ctx).Name)
}

func TestUpdateAndDelete(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()
	song := testdb.InsertSong(t, conn, "Any")
	setlist, err := svc.Create(ctx, CreateSetlistInput{Name: "Plan"})
	require.NoError(t, err)
	_, err = svc.AddSong(ctx, setlist.ID, AddSongInput{SongID: song.ID})
	require.NoError(t, err)

	active := enums.SetlistStatusActive
	updated, err := svc.Update(ctx, setlist.ID, UpdateSetlistInput{Status: &active})
	require.NoError(t, err)
	assert.Equal(t, enums.SetlistStatusActive, updated.Status)
	assert.Equal(t, "Plan", updated.Name)
	assert.Len(t, updated.Songs, 1)

	bogus := enums.SetlistStatus("published")
	_, err = svc.Update(ctx, setlist.ID, UpdateSetlistInput{Status: &bogus})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	_, err = svc.Update(ctx, uuid.New(), UpdateSetlistInput{Status: &active})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))

	require.NoError(t, svc.Delete(ctx, setlist.ID))
	assert.Nil(t, svc.GetByID(ctx, setlist.ID))

	var remaining int64
	require.NoError(t, conn.Model(&models.SetlistSong{}).Where("setlist_id = ?", setlist.ID).Count(&remaining).Error)
	assert.Zero(t, remaining)
}

func TestReadsDegradeOnStoreFailure(t *testing.T) {
	conn := testdb.OpenEmpty(t)
	svc, err := NewService(NewRepository(conn, testdb.ChurchID), songs.NewRepository(conn, testdb.ChurchID), repo.ReadPolicy{})
	require.NoError(t, err)
	ctx := context.Background()

	assert.Empty(t, svc.GetAll(ctx))
	assert.NotNil(t, svc.GetAll(ctx))
	assert.Nil(t, svc.GetByID(ctx, uuid.New()))
	assert.Nil(t, svc.MostRecent(ctx))
	assert.NotNil(t, svc.Candidates(ctx, uuid.New(), ""))
}

func TestFilter(t *testing.T) {
	rows := []SetlistDTO{
		{Name: "Sunday Morning", ServiceType: testdb.Ptr("Worship"), Status: enums.SetlistStatusActive},
		{Name: "Youth Night", ServiceType: testdb.Ptr("Youth"), Status: enums.SetlistStatusDraft},
	}
	assert.Len(t, Filter(rows, "youth", ""), 1)
	assert.Len(t, Filter(rows, "", "active"), 1)
	assert.Len(t, Filter(rows, "", "All"), 2)
	assert.Empty(t, Filter(rows, "sunday", "draft"))
}
