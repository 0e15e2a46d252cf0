package authctx

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/worshipdesk/worshipdesk-backend/internal/identity"
	"github.com/worshipdesk/worshipdesk-backend/pkg/db/models"
	"github.com/worshipdesk/worshipdesk-backend/pkg/enums"
	"github.com/worshipdesk/worshipdesk-backend/pkg/logger"
)

type identityLookup interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.AuthIdentity, error)
}

type memberLookup interface {
	FindByAuthUserID(ctx context.Context, identityID uuid.UUID) (*models.Member, error)
}

type roleLookup interface {
	ForMember(ctx context.Context, memberID uuid.UUID) ([]models.UserRole, error)
	All(ctx context.Context) ([]models.Role, error)
}

// Resolver turns a verified identity id into a resolved Context.
type Resolver struct {
	identities identityLookup
	members    memberLookup
	roles      roleLookup
	logg       *logger.Logger
}

func NewResolver(identities identityLookup, members memberLookup, roles roleLookup, logg *logger.Logger) (*Resolver, error) {
	if identities == nil || members == nil || roles == nil {
		return nil, fmt.Errorf("authctx: identity, member and role lookups are required")
	}
	return &Resolver{identities: identities, members: members, roles: roles, logg: logg}, nil
}

// Resolve runs the lookups: identity, then member by auth_user_id, then the
// member's assignments joined against the role catalog. A missing identity
// yields an anonymous context. A failed member or role lookup degrades to no
// roles rather than failing the request.
func (r *Resolver) Resolve(ctx context.Context, identityID uuid.UUID) (*Context, error) {
	ident, err := r.identities.FindByID(ctx, identityID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Anonymous(), nil
		}
		return nil, fmt.Errorf("lookup identity: %w", err)
	}
	user := identity.FromModel(ident)

	member, err := r.members.FindByAuthUserID(ctx, identityID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			r.warn(ctx, "authctx.member_lookup_failed", err)
		}
		return Resolved(user, nil, nil), nil
	}
	memberID := member.ID

	assignments, err := r.roles.ForMember(ctx, memberID)
	if err != nil {
		r.warn(ctx, "authctx.user_roles_lookup_failed", err)
		return Resolved(user, &memberID, nil), nil
	}
	if len(assignments) == 0 {
		return Resolved(user, &memberID, nil), nil
	}
	catalog, err := r.roles.All(ctx)
	if err != nil {
		r.warn(ctx, "authctx.roles_lookup_failed", err)
		return Resolved(user, &memberID, nil), nil
	}
	return Resolved(user, &memberID, JoinRoleNames(assignments, catalog)), nil
}

// JoinRoleNames maps assignment rows to role names through the catalog.
// Assignments pointing at unknown roles are dropped.
func JoinRoleNames(assignments []models.UserRole, catalog []models.Role) []enums.RoleName {
	byID := make(map[uuid.UUID]enums.RoleName, len(catalog))
	for _, role := range catalog {
		byID[role.ID] = role.Name
	}
	names := make([]enums.RoleName, 0, len(assignments))
	for _, a := range assignments {
		if name, ok := byID[a.RoleID]; ok {
			names = append(names, name)
		}
	}
	return normalize(names)
}

func (r *Resolver) warn(ctx context.Context, msg string, err error) {
	if r.logg == nil {
		return
	}
	r.logg.Warn(r.logg.WithField(ctx, "error", err.Error()), msg)
}
