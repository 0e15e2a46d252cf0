// Package authctx resolves who is calling: the signed-in identity, the
// roster member linked to it and the role names granted to that member.
package authctx

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/worshipdesk/worshipdesk-backend/internal/identity"
	"github.com/worshipdesk/worshipdesk-backend/pkg/enums"
)

// State is the lifecycle of a Context.
type State string

const (
	// StateResolving means lookups have not completed; user and roles are
	// not yet meaningful.
	StateResolving State = "resolving"
	// StateResolved means the lookups finished. User may still be nil.
	StateResolved State = "resolved"
)

// Context is the per-request authentication snapshot.
type Context struct {
	state    State
	user     *identity.UserDTO
	memberID *uuid.UUID
	roles    []enums.RoleName
}

// Resolving returns a context whose lookups are pending.
func Resolving() *Context {
	return &Context{state: StateResolving}
}

// Anonymous is a resolved context with no user.
func Anonymous() *Context {
	return &Context{state: StateResolved, roles: []enums.RoleName{}}
}

// Resolved builds a finished context. Roles are sorted and de-duplicated.
func Resolved(user *identity.UserDTO, memberID *uuid.UUID, roles []enums.RoleName) *Context {
	return &Context{state: StateResolved, user: user, memberID: memberID, roles: normalize(roles)}
}

func (c *Context) State() State {
	if c == nil {
		return StateResolving
	}
	return c.state
}

func (c *Context) IsResolved() bool { return c.State() == StateResolved }

func (c *Context) User() *identity.UserDTO {
	if c == nil {
		return nil
	}
	return c.user
}

func (c *Context) MemberID() *uuid.UUID {
	if c == nil {
		return nil
	}
	return c.memberID
}

// Roles returns a copy of the role names.
func (c *Context) Roles() []enums.RoleName {
	if c == nil {
		return []enums.RoleName{}
	}
	return append([]enums.RoleName{}, c.roles...)
}

func (c *Context) HasRole(role enums.RoleName) bool {
	if !c.IsResolved() {
		return false
	}
	for _, r := range c.roles {
		if r == role {
			return true
		}
	}
	return false
}

// IsAdministrator reports whether the administrator role was granted. It is
// false while resolving.
func (c *Context) IsAdministrator() bool {
	return c.HasRole(enums.RoleAdministrator)
}

// Snapshot is the JSON view returned by the session endpoint.
type Snapshot struct {
	State    State             `json:"state"`
	User     *identity.UserDTO `json:"user"`
	MemberID *uuid.UUID        `json:"member_id"`
	Roles    []enums.RoleName  `json:"roles"`
	IsAdmin  bool              `json:"is_admin"`
}

func (c *Context) Snapshot() Snapshot {
	return Snapshot{
		State:    c.State(),
		User:     c.User(),
		MemberID: c.MemberID(),
		Roles:    c.Roles(),
		IsAdmin:  c.IsAdministrator(),
	}
}

func normalize(roles []enums.RoleName) []enums.RoleName {
	seen := make(map[enums.RoleName]struct{}, len(roles))
	out := make([]enums.RoleName, 0, len(roles))
	for _, r := range roles {
		if r == "" {
			continue
		}
		if _, ok := seen[r]; ok {
			continue
		}
		seen[r] = struct{}{}
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

type ctxKey struct{}

// WithContext stores c on ctx.
func WithContext(ctx context.Context, c *Context) context.Context {
	return context.WithValue(ctx, ctxKey{}, c)
}

// FromContext returns the request's auth context or an unresolved one.
func FromContext(ctx context.Context) *Context {
	if c, ok := ctx.Value(ctxKey{}).(*Context); ok && c != nil {
		return c
	}
	return Resolving()
}
