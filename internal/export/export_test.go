package export

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/worshipdesk/worshipdesk-backend/internal/events"
	"github.com/worshipdesk/worshipdesk-backend/internal/members"
	"github.com/worshipdesk/worshipdesk-backend/internal/setlists"
	"github.com/worshipdesk/worshipdesk-backend/internal/songs"
	dbtypes "github.com/worshipdesk/worshipdesk-backend/pkg/db/types"
	"github.com/worshipdesk/worshipdesk-backend/pkg/enums"
	pkgerrors "github.com/worshipdesk/worshipdesk-backend/pkg/errors"
)

func TestSetlistTextOrdersByIndexAndFallsBack(t *testing.T) {
	date := mustDate(t, "2024-06-16")
	sl := setlists.SetlistDTO{
		Name:        "Sunday AM",
		ServiceDate: &date,
		Songs: []setlists.SetlistSongDTO{
			{OrderIndex: 3, Song: &songs.SongDTO{Title: "Cornerstone", Key: ptr("C")}, KeyOverride: ptr("D")},
			{OrderIndex: 1, Song: &songs.SongDTO{Title: "Amazing Grace", Key: ptr("G")}},
			{OrderIndex: 2},
		},
	}

	want := "Setlist: Sunday AM\nDate: 2024-06-16\nSongs:\n1. Amazing Grace (G)\n2. Song (-)\n3. Cornerstone (D)\n"
	assert.Equal(t, want, SetlistText(sl))

	empty := setlists.SetlistDTO{Name: "Draft"}
	assert.Equal(t, "Setlist: Draft\nDate: -\nSongs:\n-\n", SetlistText(empty))
}

func TestSongTextSections(t *testing.T) {
	s := songs.SongDTO{Title: "Holy", Lyrics: ptr("Holy holy"), Chords: ptr("G C D"), Notes: ptr("slow intro")}

	assert.Equal(t, "Title: Holy\nKey: -\nLyrics:\nHoly holy\nChords:\nG C D\n---", SongText(s, DefaultInclude()))
	assert.Equal(t, "Title: Holy\nKey: -\nNotes:\nslow intro\n---", SongText(s, Include{Notes: true}))
}

func TestMemberAndEventLines(t *testing.T) {
	assert.Equal(t, "Ana <ana@example.com>", MemberLine(members.MemberDTO{Name: "Ana", Email: "ana@example.com"}))
	assert.Equal(t, "Ben ", MemberLine(members.MemberDTO{Name: "Ben"}))

	e := events.EventDTO{Title: "Rehearsal", EventDate: mustDate(t, "2024-06-20"), EventTime: ptr("19:00")}
	assert.Equal(t, "2024-06-20 19:00 - Rehearsal [event]", EventLine(e))
	e.EventType = ptr("rehearsal")
	e.EventTime = nil
	assert.Equal(t, "2024-06-20  - Rehearsal [rehearsal]", EventLine(e))
}

func TestExportCurrentSetlist(t *testing.T) {
	svc, readers := newTestService(t)

	_, err := svc.Export(context.Background(), Request{Kind: enums.ExportCurrentSetlist})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
	assert.Equal(t, "No setlists to export.", typed.Message())

	readers.setlists.recent = &setlists.SetlistDTO{Name: "Easter"}
	doc, err := svc.Export(context.Background(), Request{Kind: enums.ExportCurrentSetlist})
	require.NoError(t, err)
	assert.Equal(t, "setlist-Easter.txt", doc.Filename)
	assert.Equal(t, "text/plain; charset=utf-8", doc.ContentType)
	assert.Equal(t, "Setlist: Easter\nDate: -\nSongs:\n-\n", string(doc.Body))
}

func TestExportListsAndCalendar(t *testing.T) {
	svc, readers := newTestService(t)
	ctx := context.Background()

	doc, err := svc.Export(ctx, Request{Kind: enums.ExportCalendar})
	require.NoError(t, err)
	assert.Equal(t, "calendar.txt", doc.Filename)
	assert.Equal(t, "No upcoming events.", string(doc.Body))
	assert.Equal(t, CalendarLimit, readers.events.limit)

	readers.members.rows = []members.MemberDTO{{Name: "Ana", Email: "ana@example.com"}, {Name: "Ben", Email: "ben@example.com"}}
	doc, err = svc.Export(ctx, Request{Kind: enums.ExportMemberList})
	require.NoError(t, err)
	assert.Equal(t, "members.txt", doc.Filename)
	assert.Equal(t, "Ana <ana@example.com>\nBen <ben@example.com>", string(doc.Body))

	readers.songs.rows = []songs.SongDTO{{Title: "A", Key: ptr("E")}, {Title: "B"}}
	doc, err = svc.Export(ctx, Request{Kind: enums.ExportAllSongs, Include: DefaultInclude()})
	require.NoError(t, err)
	assert.Equal(t, "songs.txt", doc.Filename)
	assert.Equal(t, "Title: A\nKey: E\n---\nTitle: B\nKey: -\n---", string(doc.Body))
}

func TestExportCustomKeepsSelectionOrder(t *testing.T) {
	svc, readers := newTestService(t)
	first, second := uuid.New(), uuid.New()
	readers.setlists.byID = []setlists.SetlistDTO{{ID: first, Name: "First"}, {ID: second, Name: "Second"}}
	picked := uuid.New()
	readers.songs.rows = []songs.SongDTO{{ID: uuid.New(), Title: "Skipped"}, {ID: picked, Title: "Picked"}}

	doc, err := svc.Export(context.Background(), Request{
		Kind:       enums.ExportCustom,
		SetlistIDs: []uuid.UUID{second, first},
		SongIDs:    []uuid.UUID{picked},
	})
	require.NoError(t, err)
	assert.Equal(t, "export.txt", doc.Filename)

	want := "Setlist: Second\nDate: -\nSongs:\n-\n" +
		"\n\n" +
		"Setlist: First\nDate: -\nSongs:\n-\n" +
		"\n\n" +
		"Title: Picked\nKey: -\n---"
	assert.Equal(t, want, string(doc.Body))

	_, err = svc.Export(context.Background(), Request{Kind: enums.ExportCustom})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestExportHTMLEscapesMarkup(t *testing.T) {
	svc, readers := newTestService(t)
	readers.songs.rows = []songs.SongDTO{{
		Title:  "<script>alert(1)</script>",
		Lyrics: ptr("<b>bold</b>\nline two"),
	}}

	doc, err := svc.Export(context.Background(), Request{Kind: enums.ExportAllSongs, Format: enums.ExportFormatHTML, Include: DefaultInclude()})
	require.NoError(t, err)
	assert.Equal(t, "songs.html", doc.Filename)
	assert.Equal(t, "text/html; charset=utf-8", doc.ContentType)

	body := string(doc.Body)
	assert.True(t, strings.HasPrefix(body, "<!DOCTYPE html>"))
	assert.NotContains(t, body, "<script>")
	assert.NotContains(t, body, "<b>")
	assert.Contains(t, body, "&lt;script&gt;")
	assert.Contains(t, body, "&lt;b&gt;bold&lt;/b&gt;")
	assert.Contains(t, body, "<hr")
}

func TestExportUnknownKind(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.Export(context.Background(), Request{Kind: "print"})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestFencedGrowsPastBackticks(t *testing.T) {
	assert.Equal(t, "```\nplain\n```", fenced("plain\n"))
	assert.Equal(t, "````\na ``` b\n````", fenced("a ``` b"))
}

type testReaders struct {
	setlists *stubSetlists
	songs    *stubSongs
	members  *stubMembers
	events   *stubEvents
}

func newTestService(t *testing.T) (Service, *testReaders) {
	t.Helper()
	r := &testReaders{setlists: &stubSetlists{}, songs: &stubSongs{}, members: &stubMembers{}, events: &stubEvents{}}
	svc, err := NewService(Deps{Setlists: r.setlists, Songs: r.songs, Members: r.members, Events: r.events})
	require.NoError(t, err)
	return svc, r
}

type stubSetlists struct {
	recent *setlists.SetlistDTO
	byID   []setlists.SetlistDTO
}

func (s *stubSetlists) MostRecent(context.Context) *setlists.SetlistDTO { return s.recent }

func (s *stubSetlists) GetByIDs(_ context.Context, ids []uuid.UUID) []setlists.SetlistDTO {
	return s.byID
}

type stubSongs struct{ rows []songs.SongDTO }

func (s *stubSongs) GetAll(context.Context) []songs.SongDTO { return s.rows }

type stubMembers struct{ rows []members.MemberDTO }

func (s *stubMembers) GetAll(context.Context) []members.MemberDTO { return s.rows }

type stubEvents struct {
	rows  []events.EventDTO
	limit int
}

func (s *stubEvents) GetUpcoming(_ context.Context, limit int) []events.EventDTO {
	s.limit = limit
	return s.rows
}

func mustDate(t *testing.T, v string) dbtypes.Date {
	t.Helper()
	d, err := dbtypes.ParseDate(v)
	require.NoError(t, err)
	return d
}

func ptr(v string) *string { return &v }
