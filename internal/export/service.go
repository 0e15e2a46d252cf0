// Package export renders setlists, songs, the roster and the calendar as
// downloadable plain text or HTML documents.
package export

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/worshipdesk/worshipdesk-backend/internal/events"
	"github.com/worshipdesk/worshipdesk-backend/internal/members"
	"github.com/worshipdesk/worshipdesk-backend/internal/setlists"
	"github.com/worshipdesk/worshipdesk-backend/internal/songs"
	"github.com/worshipdesk/worshipdesk-backend/pkg/enums"
	pkgerrors "github.com/worshipdesk/worshipdesk-backend/pkg/errors"
)

// CalendarLimit is how many upcoming events the calendar export lists.
const CalendarLimit = 20

// ErrNoSetlists is returned when the current setlist export finds nothing.
var ErrNoSetlists = pkgerrors.New(pkgerrors.CodeNotFound, "No setlists to export.")

type setlistReader interface {
	MostRecent(ctx context.Context) *setlists.SetlistDTO
	GetByIDs(ctx context.Context, ids []uuid.UUID) []setlists.SetlistDTO
}

type songReader interface {
	GetAll(ctx context.Context) []songs.SongDTO
}

type memberReader interface {
	GetAll(ctx context.Context) []members.MemberDTO
}

type eventReader interface {
	GetUpcoming(ctx context.Context, limit int) []events.EventDTO
}

// Request describes one export run.
type Request struct {
	Kind       enums.ExportKind
	Format     enums.ExportFormat
	SetlistIDs []uuid.UUID
	SongIDs    []uuid.UUID
	Include    Include
}

// Document is a rendered export ready to be served as an attachment.
type Document struct {
	Filename    string
	ContentType string
	Body        []byte
}

type Service interface {
	Export(ctx context.Context, req Request) (*Document, error)
}

type Deps struct {
	Setlists setlistReader
	Songs    songReader
	Members  memberReader
	Events   eventReader
}

type service struct {
	setlists setlistReader
	songs    songReader
	members  memberReader
	events   eventReader
}

func NewService(deps Deps) (Service, error) {
	if deps.Setlists == nil || deps.Songs == nil || deps.Members == nil || deps.Events == nil {
		return nil, fmt.Errorf("export: setlist, song, member and event readers are required")
	}
	return &service{
		setlists: deps.Setlists,
		songs:    deps.Songs,
		members:  deps.Members,
		events:   deps.Events,
	}, nil
}

// content holds the same export in both renditions. Parts are joined with
// their kind's separator in text and with blank lines in markdown.
type content struct {
	base     string
	title    string
	text     string
	markdown []string
}

func (s *service) Export(ctx context.Context, req Request) (*Document, error) {
	format := req.Format
	if format == "" {
		format = enums.ExportFormatText
	}

	var (
		c   *content
		err error
	)
	switch req.Kind {
	case enums.ExportCurrentSetlist:
		c, err = s.currentSetlist(ctx)
	case enums.ExportAllSongs:
		c = s.allSongs(ctx, req.Include)
	case enums.ExportMemberList:
		c = s.memberList(ctx)
	case enums.ExportCalendar:
		c = s.calendar(ctx)
	case enums.ExportCustom:
		c, err = s.custom(ctx, req)
	default:
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown export kind %q", req.Kind))
	}
	if err != nil {
		return nil, err
	}

	doc := &Document{
		Filename:    c.base + "." + string(format),
		ContentType: format.ContentType(),
	}
	if format == enums.ExportFormatHTML {
		body, err := renderPage(c.title, strings.Join(c.markdown, "\n\n"))
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "render export")
		}
		doc.Body = body
		return doc, nil
	}
	doc.Body = []byte(c.text)
	return doc, nil
}

func (s *service) currentSetlist(ctx context.Context) (*content, error) {
	sl := s.setlists.MostRecent(ctx)
	if sl == nil {
		return nil, ErrNoSetlists
	}
	return &content{
		base:     "setlist-" + sl.Name,
		title:    "Setlist: " + sl.Name,
		text:     SetlistText(*sl),
		markdown: []string{setlistMarkdown(*sl)},
	}, nil
}

func (s *service) allSongs(ctx context.Context, inc Include) *content {
	rows := s.songs.GetAll(ctx)
	return &content{
		base:     "songs",
		title:    "Songs",
		text:     joinLines(rows, func(r songs.SongDTO) string { return SongText(r, inc) }, "\n"),
		markdown: mapRows(rows, func(r songs.SongDTO) string { return songMarkdown(r, inc) }),
	}
}

func (s *service) memberList(ctx context.Context) *content {
	rows := s.members.GetAll(ctx)
	return &content{
		base:     "members",
		title:    "Members",
		text:     joinLines(rows, MemberLine, "\n"),
		markdown: []string{joinLines(rows, memberMarkdown, "\n")},
	}
}

func (s *service) calendar(ctx context.Context) *content {
	rows := s.events.GetUpcoming(ctx, CalendarLimit)
	c := &content{base: "calendar", title: "Calendar"}
	if len(rows) == 0 {
		c.text = "No upcoming events."
		c.markdown = []string{"No upcoming events."}
		return c
	}
	c.text = joinLines(rows, EventLine, "\n")
	c.markdown = []string{"## Upcoming events", joinLines(rows, eventMarkdown, "\n")}
	return c
}

// custom renders the selected setlists in selection order followed by the
// selected songs in library order.
func (s *service) custom(ctx context.Context, req Request) (*content, error) {
	if len(req.SetlistIDs) == 0 && len(req.SongIDs) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "select at least one setlist or song")
	}

	var textParts, markdown []string
	if len(req.SetlistIDs) > 0 {
		byID := map[uuid.UUID]setlists.SetlistDTO{}
		for _, sl := range s.setlists.GetByIDs(ctx, req.SetlistIDs) {
			byID[sl.ID] = sl
		}
		for _, id := range req.SetlistIDs {
			sl, ok := byID[id]
			if !ok {
				continue
			}
			textParts = append(textParts, SetlistText(sl))
			markdown = append(markdown, setlistMarkdown(sl))
		}
	}

	if len(req.SongIDs) > 0 {
		wanted := make(map[uuid.UUID]struct{}, len(req.SongIDs))
		for _, id := range req.SongIDs {
			wanted[id] = struct{}{}
		}
		var chosen []songs.SongDTO
		for _, song := range s.songs.GetAll(ctx) {
			if _, ok := wanted[song.ID]; ok {
				chosen = append(chosen, song)
			}
		}
		textParts = append(textParts, joinLines(chosen, func(r songs.SongDTO) string { return SongText(r, req.Include) }, "\n"))
		markdown = append(markdown, mapRows(chosen, func(r songs.SongDTO) string { return songMarkdown(r, req.Include) })...)
	}

	return &content{
		base:     "export",
		title:    "Export",
		text:     strings.Join(textParts, "\n\n"),
		markdown: markdown,
	}, nil
}

func mapRows[T any](rows []T, fn func(T) string) []string {
	out := make([]string, 0, len(rows))
	for _, row := range rows {
		out = append(out, fn(row))
	}
	return out
}
