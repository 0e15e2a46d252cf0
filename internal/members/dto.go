package members

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/worshipdesk/worshipdesk-backend/pkg/db/models"
	dbtypes "github.com/worshipdesk/worshipdesk-backend/pkg/db/types"
	"github.com/worshipdesk/worshipdesk-backend/pkg/enums"
)

// MemberDTO is the transport shape of a roster entry.
type MemberDTO struct {
	ID             uuid.UUID          `json:"id"`
	ChurchID       uuid.UUID          `json:"church_id"`
	Email          string             `json:"email"`
	Name           string             `json:"name"`
	Phone          *string            `json:"phone"`
	Role           *string            `json:"role"`
	Instruments    []string           `json:"instruments"`
	Status         enums.MemberStatus `json:"status"`
	JoinDate       *dbtypes.Date      `json:"join_date"`
	AvatarURL      *string            `json:"avatar_url"`
	Notes          *string            `json:"notes"`
	AuthUserID     *uuid.UUID         `json:"auth_user_id"`
	IsDefaultAdmin bool               `json:"is_default_admin"`
	CreatedAt      time.Time          `json:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at"`
}

type CreateMemberInput struct {
	Email       string
	Name        string
	Phone       *string
	Role        *string
	Instruments []string
	Status      *enums.MemberStatus
	JoinDate    *dbtypes.Date
	AvatarURL   *string
	Notes       *string
}

// UpdateMemberInput is a partial update: nil fields are left untouched.
// auth_user_id and is_default_admin are managed by the admin workflows only.
type UpdateMemberInput struct {
	Email       *string
	Name        *string
	Phone       *string
	Role        *string
	Instruments *[]string
	Status      *enums.MemberStatus
	JoinDate    *dbtypes.Date
	AvatarURL   *string
	Notes       *string
}

func FromModel(m *models.Member) *MemberDTO {
	if m == nil {
		return nil
	}
	return &MemberDTO{
		ID:             m.ID,
		ChurchID:       m.ChurchID,
		Email:          m.Email,
		Name:           m.Name,
		Phone:          m.Phone,
		Role:           m.Role,
		Instruments:    append([]string{}, m.Instruments...),
		Status:         m.Status,
		JoinDate:       m.JoinDate,
		AvatarURL:      m.AvatarURL,
		Notes:          m.Notes,
		AuthUserID:     m.AuthUserID,
		IsDefaultAdmin: m.IsDefaultAdmin,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

func FromModels(rows []models.Member) []MemberDTO {
	out := make([]MemberDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out
}

// ToModel applies the column defaults: active status and a join date of today.
func (c CreateMemberInput) ToModel(churchID uuid.UUID, today time.Time) *models.Member {
	status := enums.MemberStatusActive
	if c.Status != nil {
		status = *c.Status
	}
	joinDate := c.JoinDate
	if joinDate == nil {
		d := dbtypes.NewDate(today)
		joinDate = &d
	}
	return &models.Member{
		ID:          uuid.New(),
		ChurchID:    churchID,
		Email:       strings.TrimSpace(c.Email),
		Name:        strings.TrimSpace(c.Name),
		Phone:       c.Phone,
		Role:        c.Role,
		Instruments: dbtypes.StringArray(append([]string{}, c.Instruments...)),
		Status:      status,
		JoinDate:    joinDate,
		AvatarURL:   c.AvatarURL,
		Notes:       c.Notes,
	}
}

func (u UpdateMemberInput) Fields() map[string]any {
	fields := map[string]any{}
	if u.Email != nil {
		fields["email"] = strings.TrimSpace(*u.Email)
	}
	if u.Name != nil {
		fields["name"] = strings.TrimSpace(*u.Name)
	}
	if u.Phone != nil {
		fields["phone"] = *u.Phone
	}
	if u.Role != nil {
		fields["role"] = *u.Role
	}
	if u.Instruments != nil {
		fields["instruments"] = dbtypes.StringArray(append([]string{}, (*u.Instruments)...))
	}
	if u.Status != nil {
		fields["status"] = *u.Status
	}
	if u.JoinDate != nil {
		fields["join_date"] = *u.JoinDate
	}
	if u.AvatarURL != nil {
		fields["avatar_url"] = *u.AvatarURL
	}
	if u.Notes != nil {
		fields["notes"] = *u.Notes
	}
	return fields
}
