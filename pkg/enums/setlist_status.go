package enums

import "fmt"

// SetlistStatus tracks where a setlist is in its planning lifecycle.
type SetlistStatus string

const (
	SetlistStatusDraft    SetlistStatus = "draft"
	SetlistStatusActive   SetlistStatus = "active"
	SetlistStatusArchived SetlistStatus = "archived"
)

var validSetlistStatuses = []SetlistStatus{
	SetlistStatusDraft,
	SetlistStatusActive,
	SetlistStatusArchived,
}

func (s SetlistStatus) String() string {
	return string(s)
}

func (s SetlistStatus) IsValid() bool {
	for _, candidate := range validSetlistStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

func ParseSetlistStatus(value string) (SetlistStatus, error) {
	for _, candidate := range validSetlistStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid setlist status %q", value)
}
