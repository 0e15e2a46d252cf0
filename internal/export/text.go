package export

import (
	"fmt"
	"sort"
	"strings"

	"github.com/worshipdesk/worshipdesk-backend/internal/events"
	"github.com/worshipdesk/worshipdesk-backend/internal/members"
	"github.com/worshipdesk/worshipdesk-backend/internal/setlists"
	"github.com/worshipdesk/worshipdesk-backend/internal/songs"
)

const placeholder = "-"

// Include selects the optional song sections.
type Include struct {
	Lyrics bool
	Chords bool
	Notes  bool
}

// DefaultInclude matches the export page defaults.
func DefaultInclude() Include {
	return Include{Lyrics: true, Chords: true}
}

// SetlistText renders a setlist header followed by its numbered songs.
func SetlistText(sl setlists.SetlistDTO) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Setlist: %s\n", sl.Name)
	fmt.Fprintf(&b, "Date: %s\n", serviceDate(sl))
	b.WriteString("Songs:\n")
	b.WriteString(orderedSongLines(sl))
	b.WriteString("\n")
	return b.String()
}

func orderedSongLines(sl setlists.SetlistDTO) string {
	if len(sl.Songs) == 0 {
		return placeholder
	}
	lines := make([]string, 0, len(sl.Songs))
	for i, entry := range sortedEntries(sl) {
		lines = append(lines, fmt.Sprintf("%d. %s (%s)", i+1, entryTitle(entry), orPlaceholder(entry.DisplayKey())))
	}
	return strings.Join(lines, "\n")
}

// SongText renders one song block terminated by a "---" rule.
func SongText(s songs.SongDTO, inc Include) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Title: %s\n", s.Title)
	fmt.Fprintf(&b, "Key: %s\n", orPlaceholder(deref(s.Key)))
	for _, part := range songSections(s, inc) {
		fmt.Fprintf(&b, "%s:\n%s\n", part.label, part.body)
	}
	b.WriteString("---")
	return b.String()
}

// MemberLine renders "<name> <email>", leaving the address out when unset.
func MemberLine(m members.MemberDTO) string {
	if strings.TrimSpace(m.Email) == "" {
		return m.Name + " "
	}
	return fmt.Sprintf("%s <%s>", m.Name, m.Email)
}

// EventLine renders "<date> <time> - <title> [<type>]".
func EventLine(e events.EventDTO) string {
	eventType := deref(e.EventType)
	if eventType == "" {
		eventType = "event"
	}
	return fmt.Sprintf("%s %s - %s [%s]", e.EventDate.String(), deref(e.EventTime), e.Title, eventType)
}

type songSection struct {
	label string
	body  string
}

func songSections(s songs.SongDTO, inc Include) []songSection {
	var out []songSection
	if inc.Lyrics && deref(s.Lyrics) != "" {
		out = append(out, songSection{label: "Lyrics", body: *s.Lyrics})
	}
	if inc.Chords && deref(s.Chords) != "" {
		out = append(out, songSection{label: "Chords", body: *s.Chords})
	}
	if inc.Notes && deref(s.Notes) != "" {
		out = append(out, songSection{label: "Notes", body: *s.Notes})
	}
	return out
}

func joinLines[T any](rows []T, line func(T) string, sep string) string {
	return strings.Join(mapRows(rows, line), sep)
}

func serviceDate(sl setlists.SetlistDTO) string {
	if sl.ServiceDate == nil || sl.ServiceDate.IsZero() {
		return placeholder
	}
	return sl.ServiceDate.String()
}

func entryTitle(entry setlists.SetlistSongDTO) string {
	if entry.Song == nil || entry.Song.Title == "" {
		return "Song"
	}
	return entry.Song.Title
}

func sortedEntries(sl setlists.SetlistDTO) []setlists.SetlistSongDTO {
	entries := append([]setlists.SetlistSongDTO(nil), sl.Songs...)
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].OrderIndex < entries[j].OrderIndex })
	return entries
}

func orPlaceholder(v string) string {
	if strings.TrimSpace(v) == "" {
		return placeholder
	}
	return v
}

func deref(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
