package admin

import (
	"github.com/google/uuid"

	"github.com/worshipdesk/worshipdesk-backend/pkg/enums"
)

// RegisterRequest is the public self-registration form.
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// CreateUserRequest is the administrator's provisioning form.
type CreateUserRequest struct {
	Email    string     `json:"email"`
	Password string     `json:"password"`
	Name     string     `json:"name"`
	Roles    []string   `json:"roles"`
	ChurchID *uuid.UUID `json:"churchId,omitempty"`
}

// RoleRequest names a member and a role for assignment or removal.
type RoleRequest struct {
	MemberID uuid.UUID `json:"memberId"`
	RoleName string    `json:"roleName"`
}

// ProvisionResult identifies the rows a provisioning run created.
type ProvisionResult struct {
	OK         bool      `json:"ok"`
	MemberID   uuid.UUID `json:"memberId"`
	AuthUserID uuid.UUID `json:"authUserId"`
}

type UserSummary struct {
	ID             uuid.UUID          `json:"id"`
	Name           string             `json:"name"`
	Email          string             `json:"email"`
	Status         enums.MemberStatus `json:"status"`
	IsDefaultAdmin bool               `json:"is_default_admin"`
	AuthUserID     *uuid.UUID         `json:"auth_user_id"`
}

type RoleSummary struct {
	ID   uuid.UUID      `json:"id"`
	Name enums.RoleName `json:"name"`
}

type UserRoleSummary struct {
	MemberID uuid.UUID `json:"member_id"`
	RoleID   uuid.UUID `json:"role_id"`
}

// UserListing is the admin users page payload.
type UserListing struct {
	Members   []UserSummary     `json:"members"`
	Roles     []RoleSummary     `json:"roles"`
	UserRoles []UserRoleSummary `json:"userRoles"`
}

const (
	MessageDefaultAdminLinked  = "Default admin already linked."
	MessageDefaultAdminCreated = "Default admin created and linked."
)
