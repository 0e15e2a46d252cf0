package setlists

import (
	"github.com/google/uuid"

	"github.com/worshipdesk/worshipdesk-backend/internal/listfilter"
	"github.com/worshipdesk/worshipdesk-backend/internal/songs"
)

// Filter narrows setlists by name or service type, and status.
func Filter(rows []SetlistDTO, q, status string) []SetlistDTO {
	return listfilter.Apply(rows, listfilter.Criteria{Query: q, Option: status},
		func(s SetlistDTO) []string { return []string{s.Name, listfilter.Deref(s.ServiceType)} },
		func(s SetlistDTO) string { return s.Status.String() },
	)
}

// FilterCandidates drops songs already placed in the setlist and matches q
// against title or genre.
func FilterCandidates(library []songs.SongDTO, existing []SetlistSongDTO, q string) []songs.SongDTO {
	placed := make(map[uuid.UUID]struct{}, len(existing))
	for _, entry := range existing {
		placed[entry.SongID] = struct{}{}
	}
	out := make([]songs.SongDTO, 0, len(library))
	for _, song := range library {
		if _, ok := placed[song.ID]; ok {
			continue
		}
		if !listfilter.Matches(q, song.Title, listfilter.Deref(song.Genre)) {
			continue
		}
		out = append(out, song)
	}
	return out
}
