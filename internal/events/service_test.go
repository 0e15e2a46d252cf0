package events

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/worshipdesk/worshipdesk-backend/internal/repo"
	"github.com/worshipdesk/worshipdesk-backend/internal/testdb"
	"github.com/worshipdesk/worshipdesk-backend/pkg/db/models"
	dbtypes "github.com/worshipdesk/worshipdesk-backend/pkg/db/types"
	"github.com/worshipdesk/worshipdesk-backend/pkg/enums"
	pkgerrors "github.com/worshipdesk/worshipdesk-backend/pkg/errors"
	"github.com/worshipdesk/worshipdesk-backend/pkg/logger"
)

var fixedNow = time.Date(2024, 6, 15, 22, 30, 0, 0, time.UTC)

func newTestService(t *testing.T) (Service, *gorm.DB) {
	t.Helper()
	conn := testdb.Open(t)
	svc, err := NewService(NewRepository(conn, testdb.ChurchID), repo.NewReadPolicy(logger.Nop(), nil), func() time.Time { return fixedNow })
	require.NoError(t, err)
	return svc, conn
}

func day(offset int) *dbtypes.Date {
	d := dbtypes.NewDate(fixedNow.AddDate(0, 0, offset))
	return &d
}

func TestCreateRequiresTitleAndDate(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateEventInput{})
	require.Error(t, err)
	assert.Equal(t, "title and event_date are required", pkgerrors.As(err).Message())

	_, err = svc.Create(ctx, CreateEventInput{Title: "Rehearsal"})
	assert.Equal(t, "event_date is required", pkgerrors.As(err).Message())

	_, err = svc.Create(ctx, CreateEventInput{Title: "Rehearsal", EventDate: day(1), EventTime: testdb.Ptr("7pm")})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestCreateEmbedsSetlistAndParticipants(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()

	setlist := models.Setlist{ID: uuid.New(), ChurchID: testdb.ChurchID, Name: "Sunday", Status: enums.SetlistStatusActive}
	require.NoError(t, conn.Create(&setlist).Error)
	member := testdb.InsertMember(t, conn, "drums@example.com", "Dee")

	created, err := svc.Create(ctx, CreateEventInput{
		Title:     "Sunday Service",
		EventDate: day(2),
		EventTime: testdb.Ptr("09:30"),
		SetlistID: &setlist.ID,
	})
	require.NoError(t, err)
	require.NotNil(t, created.Setlist)
	assert.Equal(t, "Sunday", created.Setlist.Name)
	assert.Empty(t, created.Participants)

	require.NoError(t, conn.Create(&models.EventParticipant{
		ID: uuid.New(), EventID: created.ID, MemberID: member.ID, Status: "confirmed",
	}).Error)

	got := svc.GetByID(ctx, created.ID)
	require.NotNil(t, got)
	require.Len(t, got.Participants, 1)
	require.NotNil(t, got.Participants[0].Member)
	assert.Equal(t, "Dee", got.Participants[0].Member.Name)
	assert.Equal(t, "confirmed", got.Participants[0].Status)
}

func TestGetUpcomingUsesClockAndLimit(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	for _, offset := range []int{-3, -1, 0, 1, 2, 3, 4, 5, 6} {
		_, err := svc.Create(ctx, CreateEventInput{Title: "E", EventDate: day(offset)})
		require.NoError(t, err)
	}

	upcoming := svc.GetUpcoming(ctx, 0)
	require.Len(t, upcoming, DefaultUpcomingLimit)
	assert.Equal(t, "2024-06-15", upcoming[0].EventDate.String(), "today counts as upcoming")
	for i := 1; i < len(upcoming); i++ {
		assert.False(t, upcoming[i].EventDate.Before(upcoming[i-1].EventDate.Time))
	}

	assert.Len(t, svc.GetUpcoming(ctx, 2), 2)
	assert.Len(t, svc.GetUpcoming(ctx, 100), 7)
	assert.Len(t, svc.GetAll(ctx), 9)
}

func TestUpdateClearsSetlistAndDelete(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()
	setlist := models.Setlist{ID: uuid.New(), ChurchID: testdb.ChurchID, Name: "Linked", Status: enums.SetlistStatusDraft}
	require.NoError(t, conn.Create(&setlist).Error)

	created, err := svc.Create(ctx, CreateEventInput{Title: "Night", EventDate: day(1), SetlistID: &setlist.ID})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, created.ID, UpdateEventInput{ClearSetlist: true, Location: testdb.Ptr("Chapel")})
	require.NoError(t, err)
	assert.Nil(t, updated.SetlistID)
	assert.Nil(t, updated.Setlist)
	assert.Equal(t, "Chapel", *updated.Location)
	assert.Equal(t, "Night", updated.Title)

	_, err = svc.Update(ctx, uuid.New(), UpdateEventInput{Location: testdb.Ptr("x")})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))

	require.NoError(t, svc.Delete(ctx, created.ID))
	assert.Nil(t, svc.GetByID(ctx, created.ID))
}

func TestReadsDegradeOnStoreFailure(t *testing.T) {
	svc, err := NewService(NewRepository(testdb.OpenEmpty(t), testdb.ChurchID), repo.ReadPolicy{}, nil)
	require.NoError(t, err)
	ctx := context.Background()

	assert.NotNil(t, svc.GetAll(ctx))
	assert.Empty(t, svc.GetUpcoming(ctx, 3))
	assert.Nil(t, svc.GetByID(ctx, uuid.New()))
}
