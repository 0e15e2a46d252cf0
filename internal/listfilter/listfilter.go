// Package listfilter holds the in-memory filters applied to already-fetched
// collections: a free-text query over a few fields plus an optional
// single-choice option such as genre or status.
package listfilter

import "strings"

// AllOption is the picker value that disables option filtering.
const AllOption = "All"

// Matches reports whether q is a case-insensitive substring of any field. A
// blank query matches everything.
func Matches(q string, fields ...string) bool {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return true
	}
	for _, field := range fields {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}

// OptionMatches compares a selected option to a row value. Empty or "All"
// selects every row.
func OptionMatches(selected, value string) bool {
	selected = strings.TrimSpace(selected)
	if selected == "" || strings.EqualFold(selected, AllOption) {
		return true
	}
	return selected == value
}

// Criteria is one list view's filter state.
type Criteria struct {
	Query  string
	Option string
}

// Empty reports whether the criteria select every row.
func (c Criteria) Empty() bool {
	return strings.TrimSpace(c.Query) == "" && OptionMatches(c.Option, "")
}

// Apply keeps rows whose text fields match the query and whose option value
// matches the selected option. option may be nil when the view has no picker.
func Apply[T any](rows []T, c Criteria, text func(T) []string, option func(T) string) []T {
	out := make([]T, 0, len(rows))
	if c.Empty() {
		return append(out, rows...)
	}
	for _, row := range rows {
		if !Matches(c.Query, text(row)...) {
			continue
		}
		if option != nil && !OptionMatches(c.Option, option(row)) {
			continue
		}
		out = append(out, row)
	}
	return out
}

// Deref returns the pointed-to string or "".
func Deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
