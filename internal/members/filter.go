package members

import "github.com/worshipdesk/worshipdesk-backend/internal/listfilter"

// Filter narrows the roster by name, role label or instrument, and status.
func Filter(rows []MemberDTO, q, status string) []MemberDTO {
	return listfilter.Apply(rows, listfilter.Criteria{Query: q, Option: status},
		func(m MemberDTO) []string {
			return append([]string{m.Name, listfilter.Deref(m.Role)}, m.Instruments...)
		},
		func(m MemberDTO) string { return m.Status.String() },
	)
}
