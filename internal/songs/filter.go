package songs

import "github.com/worshipdesk/worshipdesk-backend/internal/listfilter"

// Filter narrows a fetched library by title/artist text and genre.
func Filter(rows []SongDTO, q, genre string) []SongDTO {
	return listfilter.Apply(rows, listfilter.Criteria{Query: q, Option: genre},
		func(s SongDTO) []string { return []string{s.Title, listfilter.Deref(s.Artist)} },
		func(s SongDTO) string { return listfilter.Deref(s.Genre) },
	)
}
