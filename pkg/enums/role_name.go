package enums

import "fmt"

// RoleName is one of the fixed team roles seeded into the roles table.
type RoleName string

const (
	RoleAdministrator RoleName = "administrator"
	RoleCoordinator   RoleName = "coordinator"
	RoleWorshipLeader RoleName = "worship_leader"
	RoleMusician      RoleName = "musician"
	RoleViewer        RoleName = "viewer"
)

var validRoleNames = []RoleName{
	RoleAdministrator,
	RoleCoordinator,
	RoleWorshipLeader,
	RoleMusician,
	RoleViewer,
}

// String implements fmt.Stringer.
func (r RoleName) String() string {
	return string(r)
}

// IsValid reports whether the value is a known RoleName.
func (r RoleName) IsValid() bool {
	for _, candidate := range validRoleNames {
		if candidate == r {
			return true
		}
	}
	return false
}

// ParseRoleName converts raw input into a RoleName.
func ParseRoleName(value string) (RoleName, error) {
	for _, candidate := range validRoleNames {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid role name %q", value)
}

// RoleNames lists every seeded role in display order.
func RoleNames() []RoleName {
	out := make([]RoleName, len(validRoleNames))
	copy(out, validRoleNames)
	return out
}
